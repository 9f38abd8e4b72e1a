package report

import (
	"fmt"
	"sort"
	"strings"

	"questlog/internal/game"
	"questlog/internal/tracker"
)

// BuildTXT renders a plain-text progress report for one game.
func BuildTXT(g *game.Game, milestones []game.Milestone, notes []game.Note, ins tracker.Insights) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PROGRESS REPORT: %s\n", g.Title)
	if g.Platform != "" {
		fmt.Fprintf(&b, "Platform: %s\n", g.Platform)
	}
	fmt.Fprintf(&b, "Overall progress: %.0f%%\n", tracker.Progress(milestones))
	fmt.Fprintf(&b, "Estimated time remaining: %s\n", formatMinutes(ins.EstimatedTimeRemaining))
	fmt.Fprintf(&b, "Notes in the last 7 days: %d\n", ins.RecentActivity)
	b.WriteString("\n")

	b.WriteString("MILESTONES BY CATEGORY\n")
	for _, cat := range sortedCategories(ins.ByCategory) {
		t := ins.ByCategory[cat]
		fmt.Fprintf(&b, "  %-12s %d/%d completed\n", cat, t.Completed, t.Total)
	}
	b.WriteString("\n")

	b.WriteString("MILESTONES\n")
	for _, m := range milestones {
		mark := "[ ]"
		if m.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "  %s %s (%s, %s)\n", mark, m.Title, m.Category, m.Difficulty)
		if m.Completed && m.TriggeredByNote != "" {
			fmt.Fprintf(&b, "      triggered by: %q\n", m.TriggeredByNote)
		}
	}
	b.WriteString("\n")

	if len(ins.NextRecommended) > 0 {
		b.WriteString("UP NEXT\n")
		for _, m := range ins.NextRecommended {
			fmt.Fprintf(&b, "  - %s (%s, ~%s)\n", m.Title, m.Difficulty, formatMinutes(m.EstimatedTime))
		}
		b.WriteString("\n")
	}

	b.WriteString("RECENT NOTES\n")
	for _, n := range latestNotes(notes, 10) {
		fmt.Fprintf(&b, "  %s  %s\n", n.Date.Format("2006-01-02"), n.Text)
	}

	return b.String()
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

func sortedCategories(byCat map[game.Category]tracker.Tally) []game.Category {
	cats := make([]game.Category, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

func latestNotes(notes []game.Note, limit int) []game.Note {
	out := make([]game.Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
