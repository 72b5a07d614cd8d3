package prediction

import "math"

// PythagoreanExponent is the basketball-tuned exponent for points-based win expectation
const PythagoreanExponent = 13.91

// luckThreshold separates a meaningful luck factor from noise
const luckThreshold = 0.05

// Regression is the direction a team's record is expected to move
type Regression string

const (
	// RegressionPositive: underperforming the point differential, expect improvement
	RegressionPositive Regression = "positive"
	// RegressionNegative: overperforming the point differential, expect decline
	RegressionNegative Regression = "negative"
	RegressionNeutral  Regression = "neutral"
)

// TeamExpectation summarizes a team's Pythagorean analysis
type TeamExpectation struct {
	PythagoreanWinPct float64    `json:"pythagoreanWinPct"`
	LuckFactor        float64    `json:"luckFactor"`
	Regression        Regression `json:"regression"`
}

// PythagoreanExpectation returns the expected win percentage in [0,1] from points scored and allowed.
// A team that has allowed no points gets 1.0.
func PythagoreanExpectation(pointsScored, pointsAllowed float64) float64 {
	if pointsAllowed == 0 {
		return 1.0
	}

	scoredPower := math.Pow(pointsScored, PythagoreanExponent)
	allowedPower := math.Pow(pointsAllowed, PythagoreanExponent)

	return scoredPower / (scoredPower + allowedPower)
}

// LuckFactor is actual minus expected win percentage.
// Positive means the team is winning more than its scoring margin suggests.
func LuckFactor(actualWinPct, pythagoreanWinPct float64) float64 {
	return actualWinPct - pythagoreanWinPct
}

// ClassifyLuck buckets a luck factor into a regression direction
func ClassifyLuck(luck float64) Regression {
	switch {
	case luck > luckThreshold:
		return RegressionNegative
	case luck < -luckThreshold:
		return RegressionPositive
	default:
		return RegressionNeutral
	}
}

// AnalyzePythagorean computes expectation, luck and regression for a season record.
// With no games played the actual win percentage is undefined, so luck is reported as zero.
func AnalyzePythagorean(wins, losses int, pointsScored, pointsAllowed float64) TeamExpectation {
	pythag := PythagoreanExpectation(pointsScored, pointsAllowed)

	gamesPlayed := wins + losses
	if gamesPlayed <= 0 {
		return TeamExpectation{
			PythagoreanWinPct: pythag,
			Regression:        RegressionNeutral,
		}
	}

	actual := float64(wins) / float64(gamesPlayed)
	luck := LuckFactor(actual, pythag)

	return TeamExpectation{
		PythagoreanWinPct: pythag,
		LuckFactor:        luck,
		Regression:        ClassifyLuck(luck),
	}
}
