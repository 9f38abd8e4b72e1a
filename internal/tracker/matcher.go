package tracker

import (
	"sort"
	"strings"

	"questlog/internal/game"
)

// MatchConfig collects the scoring weights and cutoffs. The defaults are
// the tuned production values; tests construct variants to pin individual
// rules down.
type MatchConfig struct {
	TitleWeight       int // per matching title token
	DescriptionWeight int // per matching description token
	ActionWeight      int // per matching action token
	MinTokenLen       int // tokens shorter than this never score
	ScoreThreshold    int // candidates must score strictly above this
	MaxCandidates     int // ranked list cap
	ConfidencePerPoint int // display confidence = score * this, capped at 100
	SuggestionLimit   int // suggested milestones kept per note when categorizing
	Bonuses           []BonusRule
}

func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		TitleWeight:        4,
		DescriptionWeight:  2,
		ActionWeight:       1,
		MinTokenLen:        3,
		ScoreThreshold:     1,
		MaxCandidates:      15,
		ConfidencePerPoint: 20,
		SuggestionLimit:    3,
		Bonuses:            DefaultBonusRules(),
	}
}

// Candidate is a read-only projection of a milestone surfaced by the
// matcher. The score and confidence live here, never on the persisted
// milestone row.
type Candidate struct {
	Milestone  game.Milestone `json:"milestone"`
	MatchScore int            `json:"match_score"`
	Confidence int            `json:"confidence"`
}

// Matcher scores notes against milestone sets. It holds only configuration
// and never mutates its inputs.
type Matcher struct {
	cfg MatchConfig
}

func NewMatcher() *Matcher {
	return &Matcher{cfg: DefaultMatchConfig()}
}

func NewMatcherWith(cfg MatchConfig) *Matcher {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMatchConfig().MaxCandidates
	}
	return &Matcher{cfg: cfg}
}

// Match ranks the milestones a note plausibly refers to. Completed
// milestones are scored too; callers filter upstream when only incomplete
// ones are eligible. Empty input yields an empty result, never an error.
func (ma *Matcher) Match(noteText string, milestones []game.Milestone) []Candidate {
	noteText = strings.ToLower(strings.TrimSpace(noteText))
	if noteText == "" || len(milestones) == 0 {
		return nil
	}
	noteWords := strings.Fields(noteText)

	candidates := make([]Candidate, 0, len(milestones))
	for i := range milestones {
		m := milestones[i]
		score := ma.scoreFields(noteWords, &m)
		for _, rule := range ma.cfg.Bonuses {
			if rule.Fires(noteText, &m) {
				score += rule.Weight
			}
		}
		if score > ma.cfg.ScoreThreshold {
			candidates = append(candidates, Candidate{
				Milestone:  m,
				MatchScore: score,
				Confidence: ma.Confidence(score),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	if len(candidates) > ma.cfg.MaxCandidates {
		candidates = candidates[:ma.cfg.MaxCandidates]
	}
	return candidates
}

// Confidence converts a raw score to the display percentage.
func (ma *Matcher) Confidence(score int) int {
	c := score * ma.cfg.ConfidencePerPoint
	if c > 100 {
		c = 100
	}
	if c < 0 {
		c = 0
	}
	return c
}

func (ma *Matcher) scoreFields(noteWords []string, m *game.Milestone) int {
	score := 0
	score += ma.scoreField(noteWords, m.Title, ma.cfg.TitleWeight)
	score += ma.scoreField(noteWords, m.Description, ma.cfg.DescriptionWeight)
	score += ma.scoreField(noteWords, m.Action, ma.cfg.ActionWeight)
	return score
}

// scoreField awards weight once per field token that overlaps any note
// token in either substring direction. Short tokens are skipped entirely.
func (ma *Matcher) scoreField(noteWords []string, field string, weight int) int {
	if field == "" || weight == 0 {
		return 0
	}
	score := 0
	for _, tok := range strings.Fields(strings.ToLower(field)) {
		if len(tok) < ma.cfg.MinTokenLen {
			continue
		}
		if tokenOverlaps(tok, noteWords) {
			score += weight
		}
	}
	return score
}

func tokenOverlaps(tok string, noteWords []string) bool {
	for _, w := range noteWords {
		if strings.Contains(tok, w) || strings.Contains(w, tok) {
			return true
		}
	}
	return false
}
