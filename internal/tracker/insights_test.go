package tracker

import (
	"testing"
	"time"

	"questlog/internal/game"
)

func TestComputeInsights_TalliesAndTimeRemaining(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	ms := []game.Milestone{
		{ID: "a", Category: game.CategoryStory, Difficulty: game.DifficultyEasy,
			EstimatedTime: 30, Completed: true},
		{ID: "b", Category: game.CategoryStory, Difficulty: game.DifficultyHard,
			EstimatedTime: 120},
		{ID: "c", Category: game.CategoryExploration, Difficulty: game.DifficultyMedium,
			EstimatedTime: 45},
	}
	notes := []game.Note{
		{ID: "n1", Date: now.Add(-48 * time.Hour)},
		{ID: "n2", Date: now.Add(-10 * 24 * time.Hour)},
	}
	ins := ComputeInsightsAt(ms, notes, now, DefaultInsightConfig())

	if ins.CompletionRate != 33 {
		t.Errorf("expected completion rate 33, got %v", ins.CompletionRate)
	}
	if got := ins.ByCategory[game.CategoryStory]; got.Total != 2 || got.Completed != 1 {
		t.Errorf("story tally wrong: %+v", got)
	}
	if got := ins.ByDifficulty[game.DifficultyEasy]; got.Total != 1 || got.Completed != 1 {
		t.Errorf("easy tally wrong: %+v", got)
	}
	if ins.EstimatedTimeRemaining != 165 {
		t.Errorf("expected 165 minutes remaining, got %d", ins.EstimatedTimeRemaining)
	}
	if ins.RecentActivity != 1 {
		t.Errorf("expected 1 recent note, got %d", ins.RecentActivity)
	}
}

func TestComputeInsights_NextRecommended(t *testing.T) {
	now := time.Now()
	ms := []game.Milestone{
		{ID: "a", Difficulty: game.DifficultyExpert},
		{ID: "b", Difficulty: game.DifficultyEasy},
		{ID: "c", Difficulty: game.DifficultyMedium, Completed: true},
		{ID: "d", Difficulty: game.DifficultyMedium},
		{ID: "e", Difficulty: game.DifficultyEasy},
		{ID: "f", Difficulty: game.DifficultyEasy},
		{ID: "g", Difficulty: game.DifficultyMedium},
		{ID: "h", Difficulty: game.DifficultyEasy},
		{ID: "i", Difficulty: game.DifficultyEasy},
	}
	ins := ComputeInsightsAt(ms, nil, now, DefaultInsightConfig())
	if len(ins.NextRecommended) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(ins.NextRecommended))
	}
	// Existing order preserved, expert and completed entries skipped.
	want := []string{"b", "d", "e", "f", "g"}
	for i, m := range ins.NextRecommended {
		if m.ID != want[i] {
			t.Errorf("recommendation %d: expected %s, got %s", i, want[i], m.ID)
		}
	}
}

func TestComputeInsights_Empty(t *testing.T) {
	ins := ComputeInsightsAt(nil, nil, time.Now(), DefaultInsightConfig())
	if ins.CompletionRate != 0 || ins.RecentActivity != 0 || ins.EstimatedTimeRemaining != 0 {
		t.Errorf("empty input must yield zeroed insights: %+v", ins)
	}
	if len(ins.NextRecommended) != 0 {
		t.Errorf("no recommendations expected, got %d", len(ins.NextRecommended))
	}
}
