package report

import (
	"strings"
	"testing"
	"time"

	"questlog/internal/game"
	"questlog/internal/tracker"
)

func TestBuildTXT_ContainsSections(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	g := &game.Game{ID: 1, Title: "Hollow Knight", Platform: "Switch"}
	ms := []game.Milestone{
		{ID: "a", Title: "Defeat the first boss", Category: game.CategoryGameplay,
			Difficulty: game.DifficultyMedium, Completed: true,
			TriggeredByNote: "beat the false knight"},
		{ID: "b", Title: "Reach the City of Tears", Category: game.CategoryExploration,
			Difficulty: game.DifficultyMedium, EstimatedTime: 90},
	}
	notes := []game.Note{
		{ID: "n1", Text: "beat the false knight", Date: now},
	}
	ins := tracker.ComputeInsightsAt(ms, notes, now, tracker.DefaultInsightConfig())

	out := BuildTXT(g, ms, notes, ins)
	for _, want := range []string{
		"PROGRESS REPORT: Hollow Knight",
		"Platform: Switch",
		"Overall progress: 50%",
		"MILESTONES BY CATEGORY",
		"[x] Defeat the first boss",
		"[ ] Reach the City of Tears",
		`triggered by: "beat the false knight"`,
		"UP NEXT",
		"RECENT NOTES",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := formatMinutes(45); got != "45m" {
		t.Errorf("expected 45m, got %s", got)
	}
	if got := formatMinutes(135); got != "2h 15m" {
		t.Errorf("expected 2h 15m, got %s", got)
	}
}
