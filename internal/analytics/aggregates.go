// Package analytics derives season aggregates, running records and recent form
// from the stored game log.
package analytics

import (
	"math"
	"sort"
	"time"

	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/prediction"
)

// TeamAggregates is what the game log says about one team's season
type TeamAggregates struct {
	TeamID             int     `json:"teamId"`
	TotalPointsScored  int     `json:"totalPointsScored"`
	TotalPointsAllowed int     `json:"totalPointsAllowed"`
	HomeWins           int     `json:"homeWins"`
	HomeLosses         int     `json:"homeLosses"`
	AwayWins           int     `json:"awayWins"`
	AwayLosses         int     `json:"awayLosses"`
	PythagoreanWinPct  float64 `json:"pythagoreanWinPct"`
	LuckFactor         float64 `json:"luckFactor"`
}

// GamesPlayed counts completed games
func (a TeamAggregates) GamesPlayed() int {
	return a.HomeWins + a.HomeLosses + a.AwayWins + a.AwayLosses
}

// CalculateTeamAggregates totals points and home/away records for every team seen in games.
// Only final games with both scores count; teams that appear only in unfinished games
// get a zero entry. Pythagorean and luck are left at zero until a team has both scored
// and allowed points.
func CalculateTeamAggregates(games []*models.Game) map[int]*TeamAggregates {
	aggregates := make(map[int]*TeamAggregates)

	get := func(teamID int) *TeamAggregates {
		agg, ok := aggregates[teamID]
		if !ok {
			agg = &TeamAggregates{TeamID: teamID}
			aggregates[teamID] = agg
		}
		return agg
	}

	for _, game := range games {
		home := get(game.HomeTeamID)
		away := get(game.AwayTeamID)

		if !game.IsFinal() || !game.HasScores() {
			continue
		}

		homeScore, awayScore := int(game.HomeScore.Int32), int(game.AwayScore.Int32)

		home.TotalPointsScored += homeScore
		home.TotalPointsAllowed += awayScore
		away.TotalPointsScored += awayScore
		away.TotalPointsAllowed += homeScore

		if homeScore > awayScore {
			home.HomeWins++
			away.AwayLosses++
		} else {
			home.HomeLosses++
			away.AwayWins++
		}
	}

	for _, agg := range aggregates {
		if agg.TotalPointsScored == 0 || agg.TotalPointsAllowed == 0 {
			continue
		}

		expectation := prediction.AnalyzePythagorean(
			agg.HomeWins+agg.AwayWins,
			agg.HomeLosses+agg.AwayLosses,
			float64(agg.TotalPointsScored),
			float64(agg.TotalPointsAllowed),
		)
		agg.PythagoreanWinPct = expectation.PythagoreanWinPct
		agg.LuckFactor = expectation.LuckFactor
	}

	return aggregates
}

// ProgressionPoint is the team's running record after one game
type ProgressionPoint struct {
	Date              time.Time `json:"date"`
	GameNumber        int       `json:"gameNumber"`
	Wins              int       `json:"wins"`
	Losses            int       `json:"losses"`
	WinPct            float64   `json:"winPct"`
	AvgPointsScored   float64   `json:"avgPointsScored"`
	AvgPointsAllowed  float64   `json:"avgPointsAllowed"`
	PointDifferential int       `json:"pointDifferential"`
	Result            string    `json:"result"`
}

// TeamProgression walks the team's games in date order and reports the running record.
// Games that are not final repeat the previous totals with a zero differential, even when
// the scoreboard has live points for them.
func TeamProgression(teamID int, games []*models.Game) []ProgressionPoint {
	ordered := teamGames(teamID, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GameDate.Before(ordered[j].GameDate)
	})

	var (
		wins, losses, played int
		scored, allowed      int
	)

	points := make([]ProgressionPoint, 0, len(ordered))
	for _, game := range ordered {
		teamScore, oppScore := game.ScoresFor(teamID)

		point := ProgressionPoint{Date: game.GameDate, Result: "L"}
		if game.IsFinal() && teamScore != nil && oppScore != nil {
			played++
			scored += *teamScore
			allowed += *oppScore
			if *teamScore > *oppScore {
				wins++
				point.Result = "W"
			} else {
				losses++
			}
			point.PointDifferential = *teamScore - *oppScore
		}

		point.GameNumber = played
		point.Wins = wins
		point.Losses = losses
		if played > 0 {
			point.WinPct = round(float64(wins)/float64(played), 3)
			point.AvgPointsScored = round(float64(scored)/float64(played), 1)
			point.AvgPointsAllowed = round(float64(allowed)/float64(played), 1)
		}

		points = append(points, point)
	}

	return points
}

// RecentGame is one row of a team's recent results
type RecentGame struct {
	GameID    string    `json:"gameId"`
	Date      time.Time `json:"date"`
	IsHome    bool      `json:"isHome"`
	TeamScore *int      `json:"teamScore"`
	OppScore  *int      `json:"oppScore"`
	Won       bool      `json:"won"`
}

// RecentFormForTeam summarizes the team's most recent final games, newest first.
// limit <= 0 uses every game. The form is nil when no game has usable scores.
func RecentFormForTeam(teamID int, games []*models.Game, limit int) (*prediction.RecentForm, []RecentGame) {
	ordered := make([]*models.Game, 0, len(games))
	for _, game := range teamGames(teamID, games) {
		if game.IsFinal() {
			ordered = append(ordered, game)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GameDate.After(ordered[j].GameDate)
	})
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	rows := make([]RecentGame, 0, len(ordered))
	scores := make([]prediction.GameScore, 0, len(ordered))
	for _, game := range ordered {
		teamScore, oppScore := game.ScoresFor(teamID)
		rows = append(rows, RecentGame{
			GameID:    game.GameID,
			Date:      game.GameDate,
			IsHome:    game.HomeTeamID == teamID,
			TeamScore: teamScore,
			OppScore:  oppScore,
			Won:       teamScore != nil && oppScore != nil && *teamScore > *oppScore,
		})
		scores = append(scores, prediction.GameScore{TeamScore: teamScore, OppScore: oppScore})
	}

	return prediction.BuildRecentForm(scores), rows
}

// HeadToHead returns the final meetings between two teams, newest first, in engine form.
// Live games are dropped so partial scores never count as results.
func HeadToHead(team1ID, team2ID int, games []*models.Game) []prediction.HeadToHeadGame {
	ordered := make([]*models.Game, 0)
	for _, game := range games {
		if !game.IsFinal() {
			continue
		}
		if (game.HomeTeamID == team1ID && game.AwayTeamID == team2ID) ||
			(game.HomeTeamID == team2ID && game.AwayTeamID == team1ID) {
			ordered = append(ordered, game)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GameDate.After(ordered[j].GameDate)
	})

	out := make([]prediction.HeadToHeadGame, 0, len(ordered))
	for _, game := range ordered {
		out = append(out, game.ToHeadToHead())
	}
	return out
}

func teamGames(teamID int, games []*models.Game) []*models.Game {
	out := make([]*models.Game, 0, len(games))
	for _, game := range games {
		if game.Involves(teamID) {
			out = append(out, game)
		}
	}
	return out
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
