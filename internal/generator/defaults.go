package generator

import (
	"fmt"

	"github.com/google/uuid"
	"questlog/internal/game"
)

// DefaultMilestones is the deterministic substitute used whenever the
// generation call fails or is disabled. Generic enough to fit any game.
func DefaultMilestones(gameID uint, title string) []game.Milestone {
	specs := []struct {
		title       string
		description string
		action      string
		category    game.Category
		difficulty  game.Difficulty
		estimated   int
	}{
		{
			title:       "Complete the tutorial",
			description: fmt.Sprintf("Finish the opening tutorial section of %s", title),
			action:      "Play through the guided introduction",
			category:    game.CategoryTutorial,
			difficulty:  game.DifficultyEasy,
			estimated:   30,
		},
		{
			title:       "Reach the first major area",
			description: "Arrive at the first open region or hub",
			action:      "Progress past the opening chapter",
			category:    game.CategoryExploration,
			difficulty:  game.DifficultyEasy,
			estimated:   60,
		},
		{
			title:       "Defeat the first boss",
			description: "Beat the first major boss encounter",
			action:      "Win the first boss fight",
			category:    game.CategoryGameplay,
			difficulty:  game.DifficultyMedium,
			estimated:   45,
		},
		{
			title:       "Reach the midpoint of the story",
			description: "Complete roughly half of the main storyline",
			action:      "Advance the main quest line",
			category:    game.CategoryStory,
			difficulty:  game.DifficultyMedium,
			estimated:   300,
		},
		{
			title:       "Unlock an advanced ability",
			description: "Obtain a late-game skill, weapon or upgrade",
			action:      "Acquire a major character upgrade",
			category:    game.CategoryProgression,
			difficulty:  game.DifficultyHard,
			estimated:   120,
		},
		{
			title:       "Finish the main story",
			description: fmt.Sprintf("See the credits roll in %s", title),
			action:      "Complete the final mission",
			category:    game.CategoryStory,
			difficulty:  game.DifficultyHard,
			estimated:   600,
		},
		{
			title:       "Full completion",
			description: "Collect every collectible and finish all side content",
			action:      "Complete all optional objectives",
			category:    game.CategoryCompletion,
			difficulty:  game.DifficultyExpert,
			estimated:   1200,
		},
	}

	out := make([]game.Milestone, 0, len(specs))
	for _, s := range specs {
		out = append(out, game.Milestone{
			ID:            uuid.New().String(),
			GameID:        gameID,
			Title:         s.title,
			Description:   s.description,
			Action:        s.action,
			Category:      s.category,
			Difficulty:    s.difficulty,
			EstimatedTime: s.estimated,
		})
	}
	return out
}
