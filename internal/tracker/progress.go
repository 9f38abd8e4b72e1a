package tracker

import (
	"log"
	"math"

	"questlog/internal/game"
)

// Progress returns the completion percentage for a milestone set, always a
// finite value in [0,100]. An empty set reports 0.
func Progress(milestones []game.Milestone) float64 {
	total := len(milestones)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.Completed {
			completed++
		}
	}
	pct := math.Round(safeDivide(float64(completed), float64(total), 0) * 100)
	return clampPercent(pct)
}

// safeDivide guards every percentage computation: a zero or non-finite
// denominator (or a non-finite numerator) yields def instead of NaN/Inf.
func safeDivide(num, den, def float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) || math.IsNaN(num) || math.IsInf(num, 0) {
		log.Printf("[Tracker] WARNING: guarded division fell back to default (num=%v den=%v)", num, den)
		return def
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		log.Printf("[Tracker] WARNING: guarded division produced non-finite result")
		return def
	}
	return v
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
