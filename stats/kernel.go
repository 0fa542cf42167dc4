package stats

import "matchnight/models"

// Outcome представляет исход матча с точки зрения одной из сторон.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

// Classify determines the outcome from one side's goal counts. Total over
// all non-negative inputs, no error cases.
func Classify(goalsFor, goalsAgainst int) Outcome {
	switch {
	case goalsFor > goalsAgainst:
		return OutcomeWin
	case goalsFor < goalsAgainst:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// Points returns the league points for the outcome. The 3-1-0 scheme is
// fixed: changing it would change the meaning of already stored history,
// so it is deliberately not configurable.
func (o Outcome) Points() int {
	switch o {
	case OutcomeWin:
		return 3
	case OutcomeDraw:
		return 1
	default:
		return 0
	}
}

// Accumulate folds a single match into the aggregate from one side's
// perspective and returns the new aggregate. The zero value of
// models.TeamStats is the seed. Final totals do not depend on the order
// matches are folded in.
func Accumulate(s models.TeamStats, goalsFor, goalsAgainst int) models.TeamStats {
	outcome := Classify(goalsFor, goalsAgainst)

	s.MP++
	switch outcome {
	case OutcomeWin:
		s.W++
	case OutcomeDraw:
		s.D++
	case OutcomeLoss:
		s.L++
	}
	s.GF += goalsFor
	s.GA += goalsAgainst
	// GD всегда пересчитывается из GF/GA, а не мутируется отдельно.
	s.GD = s.GF - s.GA
	s.Pts += outcome.Points()

	return s
}
