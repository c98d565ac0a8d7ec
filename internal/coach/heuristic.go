package coach

import "github.com/abhisek/circlez/internal/scoring"

// Heuristic picks the weakest score component of b and returns canned
// advice for it. Ties go to regularity, then closure.
func Heuristic(b scoring.Breakdown) Tip {
	if b.PointCount < scoring.MinPoints {
		return Tip{
			Headline: "Keep going",
			Advice:   "That stroke was too short to score. Draw a full loop in one motion.",
			Focus:    FocusPacing,
			Source:   SourceHeuristic,
		}
	}

	focus := FocusRegularity
	weakest := b.Regularity
	if b.Closure < weakest {
		focus, weakest = FocusClosure, b.Closure
	}
	if b.PointScore < weakest {
		focus = FocusPacing
	}

	tip := Tip{Focus: focus, Source: SourceHeuristic, Headline: scoring.GradeFor(b.Score).Message}
	switch focus {
	case FocusRegularity:
		tip.Advice = "Parts of the loop bulge out or flatten. Pivot from the elbow and keep the same distance from an imagined centre."
	case FocusClosure:
		tip.Advice = "The ends don't meet. Slow down near the finish and stop right where you started."
	case FocusPacing:
		if b.PointCount <= scoring.PointBandLow {
			tip.Advice = "You drew that very quickly. Take about a second for the loop so every part is sampled."
		} else {
			tip.Advice = "That loop took a long time. A confident, steady sweep is rounder than a slow one."
		}
	}
	return tip
}
