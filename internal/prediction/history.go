package prediction

import (
	"fmt"
	"math"
)

const (
	recentMeetings      = 3
	fullWeightMeetings  = 4.0
	pointDiffWeight     = 0.6
	recordWeight        = 0.4
	recordDominanceSpan = 10.0
)

// MatchupHistory summarizes this season's meetings from team1's perspective
type MatchupHistory struct {
	GamesPlayed          int     `json:"gamesPlayed"`
	Team1Wins            int     `json:"team1Wins"`
	Team2Wins            int     `json:"team2Wins"`
	AvgPointDifferential float64 `json:"avgPointDifferential"`
	RecentForm           float64 `json:"recentForm"`
	ConfidenceAdjustment float64 `json:"confidenceAdjustment"`
}

// HistoryAdjustment is a net-rating prediction after the season series is applied
type HistoryAdjustment struct {
	AdjustedNetRatingDiff float64 `json:"adjustedNetRatingDiff"`
	AdjustmentAmount      float64 `json:"adjustmentAmount"`
	HistoricalContext     string  `json:"historicalContext"`
}

// CalculateMatchupHistory summarizes completed meetings between team1 and team2.
// games must be ordered most recent first; games without both scores are ignored.
// ConfidenceAdjustment is in net-rating points and ramps to full weight at four meetings.
func CalculateMatchupHistory(team1ID, team2ID int, games []HeadToHeadGame) MatchupHistory {
	var (
		history   MatchupHistory
		totalDiff int
		recentSum int
		recentN   int
	)

	for _, game := range games {
		if !game.Completed() || !involves(game, team1ID, team2ID) {
			continue
		}

		team1Score, team2Score := game.scoresFor(team1ID)
		diff := team1Score - team2Score
		totalDiff += diff
		history.GamesPlayed++

		won := diff > 0
		if won {
			history.Team1Wins++
		} else {
			history.Team2Wins++
		}

		if recentN < recentMeetings {
			recentN++
			if won {
				recentSum++
			} else {
				recentSum--
			}
		}
	}

	if history.GamesPlayed == 0 {
		return MatchupHistory{}
	}

	played := float64(history.GamesPlayed)
	history.AvgPointDifferential = float64(totalDiff) / played
	history.RecentForm = float64(recentSum) / float64(recentN)

	gameWeight := math.Min(played/fullWeightMeetings, 1)
	recordDominance := float64(history.Team1Wins-history.Team2Wins) / played
	history.ConfidenceAdjustment = (history.AvgPointDifferential*pointDiffWeight +
		recordDominance*recordDominanceSpan*recordWeight) * gameWeight

	return history
}

// AdjustPredictionWithHistory adds the history adjustment to a net-rating differential
// and renders the season series as text from team1's side.
func AdjustPredictionWithHistory(baseNetRatingDiff float64, history MatchupHistory) HistoryAdjustment {
	return HistoryAdjustment{
		AdjustedNetRatingDiff: baseNetRatingDiff + history.ConfidenceAdjustment,
		AdjustmentAmount:      history.ConfidenceAdjustment,
		HistoricalContext:     HistoricalContext(history),
	}
}

// HistoricalContext describes the season series
func HistoricalContext(history MatchupHistory) string {
	switch {
	case history.GamesPlayed == 0:
		return "No previous matchups this season"
	case history.GamesPlayed == 1:
		if history.Team1Wins > 0 {
			return "1 previous game (Won)"
		}
		return "1 previous game (Lost)"
	}

	record := fmt.Sprintf("%d-%d", history.Team1Wins, history.Team2Wins)
	avgDiff := math.Abs(history.AvgPointDifferential)

	switch {
	case history.Team1Wins > history.Team2Wins:
		return fmt.Sprintf("Leads season series %s (avg margin: +%.1f)", record, avgDiff)
	case history.Team2Wins > history.Team1Wins:
		return fmt.Sprintf("Trails season series %s (avg margin: -%.1f)", record, avgDiff)
	default:
		return fmt.Sprintf("Season series tied %s", record)
	}
}

func involves(game HeadToHeadGame, team1ID, team2ID int) bool {
	return (game.HomeTeamID == team1ID && game.AwayTeamID == team2ID) ||
		(game.HomeTeamID == team2ID && game.AwayTeamID == team1ID)
}
