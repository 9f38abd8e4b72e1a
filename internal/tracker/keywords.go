package tracker

import (
	"strings"

	"questlog/internal/game"
)

// BonusRule adds Weight to a milestone's match score when the note text
// contains any of Keywords and Applies accepts the milestone. A nil Applies
// means the rule is unconditional. Each rule fires at most once per note.
type BonusRule struct {
	Name     string
	Keywords []string
	Weight   int
	Applies  func(m *game.Milestone) bool
}

// Fires reports whether the rule contributes for the given lowered note
// text and milestone.
func (r *BonusRule) Fires(noteText string, m *game.Milestone) bool {
	hit := false
	for _, kw := range r.Keywords {
		if strings.Contains(noteText, kw) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	if r.Applies == nil {
		return true
	}
	return r.Applies(m)
}

// DefaultBonusRules returns the contextual scoring vocabulary. Kept as data
// so individual rules can be tested and tuned without touching the matcher.
func DefaultBonusRules() []BonusRule {
	return []BonusRule{
		{
			Name:     "completion",
			Keywords: []string{"completed", "finished", "beat", "cleared", "done"},
			Weight:   3,
		},
		{
			Name:     "acquisition",
			Keywords: []string{"unlocked", "obtained", "found", "got", "acquired"},
			Weight:   2,
		},
		{
			Name:     "beginning",
			Keywords: []string{"started", "began", "beginning"},
			Weight:   2,
			Applies: func(m *game.Milestone) bool {
				return m.Difficulty == game.DifficultyEasy
			},
		},
		{
			Name:     "boss",
			Keywords: []string{"boss", "defeated", "killed"},
			Weight:   3,
			Applies: func(m *game.Milestone) bool {
				title := strings.ToLower(m.Title)
				return strings.Contains(title, "boss") || strings.Contains(title, "defeat")
			},
		},
		{
			Name:     "location",
			Keywords: []string{"reached", "arrived", "entered"},
			Weight:   2,
			Applies: func(m *game.Milestone) bool {
				return m.Category == game.CategoryExploration
			},
		},
		{
			Name:     "collection",
			Keywords: []string{"collected", "picked up", "got"},
			Weight:   2,
			Applies: func(m *game.Milestone) bool {
				return strings.Contains(strings.ToLower(m.Title), "collect") ||
					m.Category == game.CategoryCompletion
			},
		},
	}
}
