package api

import (
	"database/sql"

	"nba_dashboard/backend/internal/models"
)

const dateLayout = "2006-01-02"

// TeamStatsView is a team's season row as served to the dashboard
type TeamStatsView struct {
	Season           string   `json:"season"`
	GamesPlayed      int      `json:"gamesPlayed"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	PointsPerGame    *float64 `json:"pointsPerGame"`
	OppPointsPerGame *float64 `json:"oppPointsPerGame"`
	FieldGoalPct     *float64 `json:"fieldGoalPct"`
	ThreePointPct    *float64 `json:"threePointPct"`
	FreeThrowPct     *float64 `json:"freeThrowPct"`
	AssistsPerGame   *float64 `json:"assistsPerGame"`
	ReboundsPerGame  *float64 `json:"reboundsPerGame"`
	TurnoversPerGame *float64 `json:"turnoversPerGame"`

	OffensiveRating *float64 `json:"offensiveRating"`
	DefensiveRating *float64 `json:"defensiveRating"`
	NetRating       *float64 `json:"netRating"`
	Pace            *float64 `json:"pace"`

	HomeWins          int      `json:"homeWins"`
	HomeLosses        int      `json:"homeLosses"`
	AwayWins          int      `json:"awayWins"`
	AwayLosses        int      `json:"awayLosses"`
	PythagoreanWinPct *float64 `json:"pythagoreanWinPct"`
	LuckFactor        *float64 `json:"luckFactor"`
}

// TeamView is one entry of GET /api/teams
type TeamView struct {
	ID           int            `json:"id"`
	TeamID       int            `json:"teamId"`
	Abbreviation string         `json:"abbreviation"`
	Name         string         `json:"name"`
	City         *string        `json:"city"`
	Stats        *TeamStatsView `json:"stats"`
}

// TeamRef is the short team block attached to games
type TeamRef struct {
	TeamID       int    `json:"teamId"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// GameView is a stored game
type GameView struct {
	GameID     string `json:"gameId"`
	Season     string `json:"season"`
	GameDate   string `json:"gameDate"`
	HomeTeamID int    `json:"homeTeamId"`
	AwayTeamID int    `json:"awayTeamId"`
	HomeScore  *int   `json:"homeScore"`
	AwayScore  *int   `json:"awayScore"`
	Status     string `json:"status"`
	IsFinal    bool   `json:"isFinal"`
}

// TodaysGameView is a game on today's slate with both teams resolved
type TodaysGameView struct {
	GameID    string   `json:"gameId"`
	GameDate  string   `json:"gameDate"`
	HomeTeam  *TeamRef `json:"homeTeam"`
	AwayTeam  *TeamRef `json:"awayTeam"`
	HomeScore *int     `json:"homeScore"`
	AwayScore *int     `json:"awayScore"`
	Status    string   `json:"status"`
	GameTime  string   `json:"gameTime"`
	IsFinal   bool     `json:"isFinal"`
}

func newTeamView(team *models.Team, stats *models.TeamSeasonStats) TeamView {
	view := TeamView{
		ID:           team.ID,
		TeamID:       team.TeamID,
		Abbreviation: team.Abbreviation,
		Name:         team.Name,
	}
	if team.City.Valid {
		city := team.City.String
		view.City = &city
	}
	if stats != nil {
		view.Stats = newTeamStatsView(stats)
	}
	return view
}

func newTeamStatsView(s *models.TeamSeasonStats) *TeamStatsView {
	view := &TeamStatsView{
		Season:            s.Season,
		GamesPlayed:       s.GamesPlayed,
		Wins:              s.Wins,
		Losses:            s.Losses,
		PointsPerGame:     floatPtr(s.PointsPerGame),
		OppPointsPerGame:  floatPtr(s.OppPointsPerGame),
		FieldGoalPct:      floatPtr(s.FieldGoalPct),
		ThreePointPct:     floatPtr(s.ThreePointPct),
		FreeThrowPct:      floatPtr(s.FreeThrowPct),
		AssistsPerGame:    floatPtr(s.AssistsPerGame),
		ReboundsPerGame:   floatPtr(s.ReboundsPerGame),
		TurnoversPerGame:  floatPtr(s.TurnoversPerGame),
		OffensiveRating:   floatPtr(s.OffensiveRating),
		DefensiveRating:   floatPtr(s.DefensiveRating),
		Pace:              floatPtr(s.Pace),
		HomeWins:          s.HomeWins,
		HomeLosses:        s.HomeLosses,
		AwayWins:          s.AwayWins,
		AwayLosses:        s.AwayLosses,
		PythagoreanWinPct: floatPtr(s.PythagoreanWinPct),
		LuckFactor:        floatPtr(s.LuckFactor),
	}
	if s.OffensiveRating.Valid && s.DefensiveRating.Valid {
		net := s.OffensiveRating.Float64 - s.DefensiveRating.Float64
		view.NetRating = &net
	}
	return view
}

func newGameView(g *models.Game) GameView {
	home, away := g.ScoresFor(g.HomeTeamID)
	return GameView{
		GameID:     g.GameID,
		Season:     g.Season,
		GameDate:   g.GameDate.Format(dateLayout),
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		HomeScore:  home,
		AwayScore:  away,
		Status:     g.Status,
		IsFinal:    g.IsFinal(),
	}
}

func newGameViews(games []*models.Game) []GameView {
	out := make([]GameView, 0, len(games))
	for _, g := range games {
		out = append(out, newGameView(g))
	}
	return out
}

func newTeamRef(team *models.Team, teamID int) *TeamRef {
	if team == nil {
		return &TeamRef{TeamID: teamID, Abbreviation: models.AbbreviationFor(teamID)}
	}
	return &TeamRef{TeamID: team.TeamID, Abbreviation: team.Abbreviation, Name: team.Name}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
