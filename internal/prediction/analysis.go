package prediction

import "math"

// MatchupAnalysis is the side-by-side efficiency comparison shown next to a prediction
type MatchupAnalysis struct {
	// Team1OffenseAdvantage is team1's offensive rating minus team2's defensive rating
	Team1OffenseAdvantage float64 `json:"team1OffenseAdvantage"`
	Team2OffenseAdvantage float64 `json:"team2OffenseAdvantage"`
	NetRatingDiff         float64 `json:"netRatingDiff"`
	PaceDiff              float64 `json:"paceDiff"`
	PredictedWinnerID     int     `json:"predictedWinnerId"`
	// Margin is the absolute net-rating gap
	Margin float64 `json:"margin"`
}

// AnalyzeMatchup compares two teams' ratings. Pace is optional and a missing value counts as zero.
func AnalyzeMatchup(team1, team2 TeamSeasonStats) (*MatchupAnalysis, error) {
	if !team1.HasRatings() || !team2.HasRatings() {
		return nil, ErrMissingRatings
	}

	off1, def1 := *team1.OffensiveRating, *team1.DefensiveRating
	off2, def2 := *team2.OffensiveRating, *team2.DefensiveRating

	netDiff := (off1 - def1) - (off2 - def2)

	winner := team1.TeamID
	if netDiff < 0 {
		winner = team2.TeamID
	}

	return &MatchupAnalysis{
		Team1OffenseAdvantage: off1 - def2,
		Team2OffenseAdvantage: off2 - def1,
		NetRatingDiff:         netDiff,
		PaceDiff:              pace(team1) - pace(team2),
		PredictedWinnerID:     winner,
		Margin:                math.Abs(netDiff),
	}, nil
}

func pace(s TeamSeasonStats) float64 {
	if s.Pace == nil {
		return 0
	}
	return *s.Pace
}
