package prediction

import "fmt"

// Blend weights for recent vs season ratings
const (
	RecentFormWeight = 0.70
	SeasonFormWeight = 0.30
)

// trendThreshold is the net-rating swing needed to call a team hot or cold
const trendThreshold = 3.0

// possessionDivisor estimates possessions from combined points when box-score data is absent
const possessionDivisor = 2.2

// FormTrend describes whether recent play is above or below the season baseline
type FormTrend string

const (
	FormHot     FormTrend = "hot"
	FormCold    FormTrend = "cold"
	FormNeutral FormTrend = "neutral"
)

// WeightedRatings is a team's form-adjusted efficiency
type WeightedRatings struct {
	WeightedOffensiveRating float64   `json:"weightedOffensiveRating"`
	WeightedDefensiveRating float64   `json:"weightedDefensiveRating"`
	FormTrend               FormTrend `json:"formTrend"`
}

// GameScore is one game's final score from the team's perspective
type GameScore struct {
	TeamScore *int
	OppScore  *int
}

// CalculateWeightedRatings blends recent and season ratings 70/30.
// Without season ratings there is no baseline and everything is zero; without recent
// ratings the season ratings pass through unchanged.
func CalculateWeightedRatings(season TeamSeasonStats, recent *RecentForm) WeightedRatings {
	if !season.HasRatings() {
		return WeightedRatings{FormTrend: FormNeutral}
	}

	seasonOff, seasonDef := *season.OffensiveRating, *season.DefensiveRating

	if recent == nil || recent.RecentOffensiveRating == nil || recent.RecentDefensiveRating == nil {
		return WeightedRatings{
			WeightedOffensiveRating: seasonOff,
			WeightedDefensiveRating: seasonDef,
			FormTrend:               FormNeutral,
		}
	}

	recentOff, recentDef := *recent.RecentOffensiveRating, *recent.RecentDefensiveRating

	netRatingDiff := (recentOff - recentDef) - (seasonOff - seasonDef)
	trend := FormNeutral
	switch {
	case netRatingDiff > trendThreshold:
		trend = FormHot
	case netRatingDiff < -trendThreshold:
		trend = FormCold
	}

	return WeightedRatings{
		WeightedOffensiveRating: recentOff*RecentFormWeight + seasonOff*SeasonFormWeight,
		WeightedDefensiveRating: recentDef*RecentFormWeight + seasonDef*SeasonFormWeight,
		FormTrend:               trend,
	}
}

// FormDescription renders recent form for display
func FormDescription(recent *RecentForm, trend FormTrend) string {
	if recent == nil || recent.GamesPlayed == 0 {
		return "No recent games"
	}

	summary := fmt.Sprintf("%d-%d in last %d", recent.Wins, recent.Losses, recent.GamesPlayed)

	switch trend {
	case FormHot:
		return "🔥 Hot (" + summary + ")"
	case FormCold:
		return "🧊 Cold (" + summary + ")"
	default:
		return summary
	}
}

// BuildRecentForm aggregates a trailing window of games. Games without two positive scores
// are skipped; nil is returned when nothing usable remains.
func BuildRecentForm(games []GameScore) *RecentForm {
	var (
		form               RecentForm
		scored, allowed    int
		offTotal, defTotal float64
	)

	for _, g := range games {
		if g.TeamScore == nil || g.OppScore == nil || *g.TeamScore <= 0 || *g.OppScore <= 0 {
			continue
		}
		team, opp := *g.TeamScore, *g.OppScore

		form.GamesPlayed++
		if team > opp {
			form.Wins++
		}
		scored += team
		allowed += opp

		possessions := float64(team+opp) / possessionDivisor
		offTotal += float64(team) / possessions * 100
		defTotal += float64(opp) / possessions * 100
	}

	if form.GamesPlayed == 0 {
		return nil
	}

	n := float64(form.GamesPlayed)
	form.Losses = form.GamesPlayed - form.Wins
	form.WinPct = float64(form.Wins) / n
	form.AvgPointsScored = float64(scored) / n
	form.AvgPointsAllowed = float64(allowed) / n
	form.RecentOffensiveRating = Float(offTotal / n)
	form.RecentDefensiveRating = Float(defTotal / n)

	return &form
}
