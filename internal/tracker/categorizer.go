package tracker

import (
	"sort"

	"questlog/internal/game"
)

// CategorizedNote pairs a note with the milestones it relates to.
// IsTriggered distinguishes notes that actually completed a milestone from
// notes that merely look like they could.
type CategorizedNote struct {
	Note             game.Note        `json:"note"`
	RelatedMilestones []game.Milestone `json:"related_milestones"`
	PrimaryMilestone game.Milestone   `json:"primary_milestone"`
	IsTriggered      bool             `json:"is_triggered"`
}

type CategorizeResult struct {
	Categorized   []CategorizedNote `json:"categorized"`
	Uncategorized []game.Note       `json:"uncategorized"`
}

// Categorize partitions a game's notes for display. Triggered notes are
// resolved through the milestone trigger link; the remaining notes are
// matched against incomplete milestones for suggestions. The function is
// idempotent and never mutates its inputs.
func (ma *Matcher) Categorize(notes []game.Note, milestones []game.Milestone) CategorizeResult {
	res := CategorizeResult{
		Categorized:   []CategorizedNote{},
		Uncategorized: []game.Note{},
	}
	if len(notes) == 0 {
		return res
	}

	triggeredBy := buildTriggerIndex(notes, milestones)

	incomplete := make([]game.Milestone, 0, len(milestones))
	for _, m := range milestones {
		if !m.Completed {
			incomplete = append(incomplete, m)
		}
	}

	seen := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}

		if related, ok := triggeredBy[n.ID]; ok && len(related) > 0 {
			res.Categorized = append(res.Categorized, CategorizedNote{
				Note:              n,
				RelatedMilestones: related,
				PrimaryMilestone:  related[0],
				IsTriggered:       true,
			})
			continue
		}

		matches := ma.Match(n.Text, incomplete)
		if len(matches) > 0 {
			limit := ma.cfg.SuggestionLimit
			if limit <= 0 || limit > len(matches) {
				limit = len(matches)
			}
			related := make([]game.Milestone, 0, limit)
			for _, c := range matches[:limit] {
				related = append(related, c.Milestone)
			}
			res.Categorized = append(res.Categorized, CategorizedNote{
				Note:              n,
				RelatedMilestones: related,
				PrimaryMilestone:  related[0],
				IsTriggered:       false,
			})
			continue
		}

		res.Uncategorized = append(res.Uncategorized, n)
	}

	sort.SliceStable(res.Categorized, func(i, j int) bool {
		return res.Categorized[i].Note.Date.After(res.Categorized[j].Note.Date)
	})
	sort.SliceStable(res.Uncategorized, func(i, j int) bool {
		return res.Uncategorized[i].Date.After(res.Uncategorized[j].Date)
	})
	return res
}

// buildTriggerIndex maps note ids to the milestones they completed. The
// note-id link wins when present; rows written before that link existed
// fall back to exact text matching, and when several notes share the text
// the most recent by date is chosen.
func buildTriggerIndex(notes []game.Note, milestones []game.Milestone) map[string][]game.Milestone {
	index := make(map[string][]game.Milestone)
	for _, m := range milestones {
		if m.TriggeredByNoteID != "" {
			index[m.TriggeredByNoteID] = append(index[m.TriggeredByNoteID], m)
			continue
		}
		if m.TriggeredByNote == "" {
			continue
		}
		if n, ok := mostRecentByText(notes, m.TriggeredByNote); ok {
			index[n.ID] = append(index[n.ID], m)
		}
	}
	return index
}

func mostRecentByText(notes []game.Note, text string) (game.Note, bool) {
	var best game.Note
	found := false
	for _, n := range notes {
		if n.Text != text {
			continue
		}
		if !found || n.Date.After(best.Date) || n.Date.Equal(best.Date) {
			best = n
			found = true
		}
	}
	return best, found
}

// ReleaseTriggered reverts every milestone the given note completed,
// clearing the completion fields so no orphaned trigger survives the
// note's deletion. It returns the updated set and how many were reverted.
func ReleaseTriggered(milestones []game.Milestone, note game.Note) ([]game.Milestone, int) {
	reverted := 0
	out := make([]game.Milestone, len(milestones))
	copy(out, milestones)
	for i := range out {
		m := &out[i]
		linkedByID := m.TriggeredByNoteID != "" && m.TriggeredByNoteID == note.ID
		linkedByText := m.TriggeredByNoteID == "" && m.TriggeredByNote != "" && m.TriggeredByNote == note.Text
		if !linkedByID && !linkedByText {
			continue
		}
		m.Completed = false
		m.CompletedDate = nil
		m.TriggeredByNoteID = ""
		m.TriggeredByNote = ""
		reverted++
	}
	return out, reverted
}
