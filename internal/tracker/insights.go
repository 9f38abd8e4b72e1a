package tracker

import (
	"time"

	"questlog/internal/game"
)

// InsightConfig holds the aggregate-statistics knobs.
type InsightConfig struct {
	RecentWindow   time.Duration // notes newer than this count as recent activity
	RecommendLimit int           // size of the next-recommended list
}

func DefaultInsightConfig() InsightConfig {
	return InsightConfig{
		RecentWindow:   7 * 24 * time.Hour,
		RecommendLimit: 5,
	}
}

type Tally struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type Insights struct {
	CompletionRate         float64                      `json:"completion_rate"`
	ByCategory             map[game.Category]Tally      `json:"by_category"`
	ByDifficulty           map[game.Difficulty]Tally    `json:"by_difficulty"`
	RecentActivity         int                          `json:"recent_activity"`
	EstimatedTimeRemaining int                          `json:"estimated_time_remaining"` // minutes
	NextRecommended        []game.Milestone             `json:"next_recommended"`
}

// ComputeInsights derives aggregate statistics from a game's collections.
func ComputeInsights(milestones []game.Milestone, notes []game.Note) Insights {
	return ComputeInsightsAt(milestones, notes, time.Now(), DefaultInsightConfig())
}

// ComputeInsightsAt is the clock-injected variant used by tests.
func ComputeInsightsAt(milestones []game.Milestone, notes []game.Note, now time.Time, cfg InsightConfig) Insights {
	ins := Insights{
		CompletionRate:  Progress(milestones),
		ByCategory:      make(map[game.Category]Tally),
		ByDifficulty:    make(map[game.Difficulty]Tally),
		NextRecommended: []game.Milestone{},
	}

	for _, m := range milestones {
		cat := ins.ByCategory[m.Category]
		cat.Total++
		diff := ins.ByDifficulty[m.Difficulty]
		diff.Total++
		if m.Completed {
			cat.Completed++
			diff.Completed++
		} else {
			ins.EstimatedTimeRemaining += m.EstimatedTime
			// Recommendations keep the existing order; no re-ranking.
			if len(ins.NextRecommended) < cfg.RecommendLimit &&
				(m.Difficulty == game.DifficultyEasy || m.Difficulty == game.DifficultyMedium) {
				ins.NextRecommended = append(ins.NextRecommended, m)
			}
		}
		ins.ByCategory[m.Category] = cat
		ins.ByDifficulty[m.Difficulty] = diff
	}

	cutoff := now.Add(-cfg.RecentWindow)
	for _, n := range notes {
		if n.Date.After(cutoff) {
			ins.RecentActivity++
		}
	}
	return ins
}
