package prediction

import (
	"fmt"
	"math"
)

// Weight budget for the composite predictor. The rating terms are blended into a single
// composite rating; the rest is applied additively to the base probability.
// HeadToHeadWeight and WinPctPerPoint sit outside the 0.30 additive budget; they only
// apply when head-to-head history is requested.
const (
	OffensiveRatingWeight   = 0.28
	DefensiveRatingWeight   = 0.28
	PythagoreanWeight       = 0.14
	HomeCourtWeight         = 0.15
	FourFactorsWeight       = 0.10
	RestDifferentialWeight  = 0.05 // reserved, not applied
	HeadToHeadWeight        = 0.10
	WinPctPerPoint          = 3.0 // percentage points of win probability per point of net rating
	minProbability          = 0.01
	maxProbability          = 0.99
	luckInsightThreshold    = 0.10
	ratingInsightThreshold  = 10.0
	defensiveRatingCeiling  = 100.0
	probabilityPercentScale = 100.0
)

// MatchupInput is everything the composite predictor consumes for one game.
// RecentForm and HeadToHead are optional; nil means no information.
type MatchupInput struct {
	TeamA       TeamSeasonStats
	TeamB       TeamSeasonStats
	IsTeamAHome bool
	NeutralSite bool

	RecentFormA *RecentForm
	RecentFormB *RecentForm

	// HeadToHead lists this season's meetings, most recent first
	HeadToHead []HeadToHeadGame
}

// CompositeRating blends efficiency and Pythagorean expectation into one rating.
// The defensive term is inverted so a lower defensive rating scores higher.
func CompositeRating(offensiveRating, defensiveRating, pythagoreanWinPct float64) float64 {
	return offensiveRating*OffensiveRatingWeight +
		(defensiveRatingCeiling-defensiveRating)*DefensiveRatingWeight +
		pythagoreanWinPct*100*PythagoreanWeight
}

// Predict returns win probabilities, confidence and insights for team A vs team B.
// It returns ErrMissingRatings when either team lacks an offensive or defensive rating.
func Predict(in MatchupInput) (*PredictionResult, error) {
	teamA, teamB := in.TeamA, in.TeamB
	if !teamA.HasRatings() || !teamB.HasRatings() {
		return nil, ErrMissingRatings
	}

	var insights []string

	// Step 1: Pythagorean expectations
	pythagA := AnalyzePythagorean(teamA.Wins, teamA.Losses, teamA.TotalPointsScored, teamA.TotalPointsAllowed)
	pythagB := AnalyzePythagorean(teamB.Wins, teamB.Losses, teamB.TotalPointsScored, teamB.TotalPointsAllowed)
	insights = appendLuckInsight(insights, teamA, pythagA)
	insights = appendLuckInsight(insights, teamB, pythagB)

	// Step 2: composite ratings, form-weighted when recent form is available
	weightedA := CalculateWeightedRatings(teamA, in.RecentFormA)
	weightedB := CalculateWeightedRatings(teamB, in.RecentFormB)
	ratingA := CompositeRating(weightedA.WeightedOffensiveRating, weightedA.WeightedDefensiveRating, pythagA.PythagoreanWinPct)
	ratingB := CompositeRating(weightedB.WeightedOffensiveRating, weightedB.WeightedDefensiveRating, pythagB.PythagoreanWinPct)

	// Step 3: base probability
	baseProbA := 0.5
	if total := ratingA + ratingB; total != 0 {
		baseProbA = ratingA / total
	}

	// Step 4: home court
	homeAdjustment := 0.0
	if !in.NeutralSite {
		home, away, sign := teamA, teamB, 1.0
		if !in.IsTeamAHome {
			home, away, sign = teamB, teamA, -1.0
		}

		advantage := HomeCourtAdvantage(home.TeamID, away.TeamID, home.HomeRecord, away.AwayRecord)
		homeAdjustment = sign * advantage.TotalAdvantage / 100 * HomeCourtWeight

		if advantage.Breakdown.Altitude > 0 {
			insights = append(insights, fmt.Sprintf("%s gets %.1f%% altitude advantage",
				home.Label(), advantage.Breakdown.Altitude))
		}
	}

	// Step 5: four factors
	fourFactorsAdjustment := 0.0
	if teamA.FourFactors != nil && teamB.FourFactors != nil {
		fourFactorsAdjustment = fourFactorsAdvantage(*teamA.FourFactors, *teamB.FourFactors) * FourFactorsWeight
	}

	// Season series, converted from net-rating points to probability
	headToHeadAdjustment := 0.0
	var history *MatchupHistory
	if in.HeadToHead != nil {
		h := CalculateMatchupHistory(teamA.TeamID, teamB.TeamID, in.HeadToHead)
		history = &h
		headToHeadAdjustment = h.ConfidenceAdjustment * WinPctPerPoint / 100 * HeadToHeadWeight
	}

	// Step 6: combine and keep away from certainty
	finalProbA := clamp(baseProbA+homeAdjustment+fourFactorsAdjustment+headToHeadAdjustment,
		minProbability, maxProbability)

	// Step 7: confidence
	label, score := CalculateConfidence(ratingA, ratingB, finalProbA, teamA.GamesPlayed(), teamB.GamesPlayed())

	// Step 8: remaining insights
	if ratingDiff := math.Abs(ratingA - ratingB); ratingDiff > ratingInsightThreshold {
		favored := teamB
		if ratingA > ratingB {
			favored = teamA
		}
		insights = append(insights, fmt.Sprintf("Large rating differential (%.1f points) favors %s",
			ratingDiff, favored.Label()))
	}
	insights = appendFormInsight(insights, teamA, in.RecentFormA, weightedA.FormTrend)
	insights = appendFormInsight(insights, teamB, in.RecentFormB, weightedB.FormTrend)

	result := &PredictionResult{
		TeamAWinProbability: finalProbA * probabilityPercentScale,
		TeamBWinProbability: (1 - finalProbA) * probabilityPercentScale,
		Confidence:          label,
		ConfidenceScore:     score,
		Components: Components{
			Base:          baseProbA * probabilityPercentScale,
			HomeAdvantage: homeAdjustment * probabilityPercentScale,
			FourFactors:   fourFactorsAdjustment * probabilityPercentScale,
			HeadToHead:    headToHeadAdjustment * probabilityPercentScale,
		},
		TeamARating: ratingA,
		TeamBRating: ratingB,
		FormTrendA:  weightedA.FormTrend,
		FormTrendB:  weightedB.FormTrend,
		History:     history,
	}

	if history != nil {
		result.HistoryContext = HistoricalContext(*history)
		if history.GamesPlayed > 0 {
			insights = append(insights, fmt.Sprintf("%s: %s", teamA.Label(), result.HistoryContext))
		}
	}

	if insights == nil {
		insights = []string{}
	}
	result.KeyInsights = insights

	return result, nil
}

// PredictMatchup predicts from season stats alone
func PredictMatchup(teamA, teamB TeamSeasonStats, isTeamAHome bool) (*PredictionResult, error) {
	return Predict(MatchupInput{TeamA: teamA, TeamB: teamB, IsTeamAHome: isTeamAHome})
}

func appendLuckInsight(insights []string, team TeamSeasonStats, expectation TeamExpectation) []string {
	if math.Abs(expectation.LuckFactor) <= luckInsightThreshold {
		return insights
	}

	verb := "underperformed"
	if expectation.Regression == RegressionNegative {
		verb = "overperformed"
	}

	return append(insights, fmt.Sprintf("%s has %s their point differential (%.1f%% luck factor)",
		team.Label(), verb, expectation.LuckFactor*100))
}

func appendFormInsight(insights []string, team TeamSeasonStats, form *RecentForm, trend FormTrend) []string {
	if trend == FormNeutral {
		return insights
	}
	return append(insights, fmt.Sprintf("%s is %s", team.Label(), FormDescription(form, trend)))
}
