package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Measure types accepted by leaguedashteamstats
const (
	MeasureBase     = "Base"
	MeasureAdvanced = "Advanced"
)

const seasonTypeRegular = "Regular Season"

func teamStatsParams(season, measureType string) url.Values {
	p := url.Values{}
	for _, key := range []string{
		"Conference", "DateFrom", "DateTo", "Division", "GameScope", "GameSegment", "Height",
		"Location", "Outcome", "PlayerExperience", "PlayerPosition", "SeasonSegment",
		"ShotClockRange", "StarterBench", "VsConference", "VsDivision",
	} {
		p.Set(key, "")
	}
	for _, key := range []string{"LastNGames", "Month", "OpponentTeamID", "PORound", "Period", "TeamID", "TwoWay"} {
		p.Set(key, "0")
	}
	p.Set("LeagueID", "00")
	p.Set("MeasureType", measureType)
	p.Set("PaceAdjust", "N")
	p.Set("PerMode", "PerGame")
	p.Set("PlusMinus", "N")
	p.Set("Rank", "N")
	p.Set("Season", season)
	p.Set("SeasonType", seasonTypeRegular)
	return p
}

// FetchTeamStats fetches per-game team stats for a season and measure type
func (c *Client) FetchTeamStats(ctx context.Context, season, measureType string) ([]models.TeamStatsInput, error) {
	body, err := c.get(ctx, "leaguedashteamstats", teamStatsParams(season, measureType))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s team stats: %w", measureType, err)
	}

	resp, err := parseResponse(body)
	if err != nil {
		return nil, err
	}
	rs, err := resp.find("LeagueDashTeamStats", 0)
	if err != nil {
		return nil, err
	}

	stats, err := decodeRows[models.TeamStatsInput](rs)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("season", season).
		Str("measure_type", measureType).
		Int("teams", len(stats)).
		Msg("Fetched team stats")

	return stats, nil
}

// FetchCombinedTeamStats fetches Base and Advanced stats and merges them per team.
// Teams missing from the Advanced set keep null ratings.
func (c *Client) FetchCombinedTeamStats(ctx context.Context, season string) ([]models.TeamStatsInput, error) {
	base, err := c.FetchTeamStats(ctx, season, MeasureBase)
	if err != nil {
		return nil, err
	}

	advanced, err := c.FetchTeamStats(ctx, season, MeasureAdvanced)
	if err != nil {
		return nil, err
	}

	byTeam := make(map[int]*models.TeamStatsInput, len(advanced))
	for i := range advanced {
		byTeam[advanced[i].TeamID] = &advanced[i]
	}

	for i := range base {
		adv, ok := byTeam[base[i].TeamID]
		if !ok {
			log.Warn().Int("team_id", base[i].TeamID).Msg("No advanced stats for team")
			continue
		}
		base[i].Merge(adv)
	}

	return base, nil
}

// gameLogRow is one team's line in leaguegamelog; every game appears twice
type gameLogRow struct {
	TeamID   int     `json:"TEAM_ID"`
	GameID   string  `json:"GAME_ID"`
	GameDate string  `json:"GAME_DATE"`
	Matchup  string  `json:"MATCHUP"` // "BOS vs. LAL" at home, "LAL @ BOS" on the road
	WL       *string `json:"WL"`
	PTS      *int    `json:"PTS"`
}

func (r gameLogRow) isHome() bool {
	return !strings.Contains(r.Matchup, "@")
}

// FetchSeasonGames fetches every completed regular-season game, collapsing the two
// per-team rows into one game. Games missing either side are dropped.
func (c *Client) FetchSeasonGames(ctx context.Context, season string) ([]models.GameInput, error) {
	params := url.Values{}
	params.Set("Counter", "0")
	params.Set("DateFrom", "")
	params.Set("DateTo", "")
	params.Set("Direction", "DESC")
	params.Set("LeagueID", "00")
	params.Set("PlayerOrTeam", "T")
	params.Set("Season", season)
	params.Set("SeasonType", seasonTypeRegular)
	params.Set("Sorter", "DATE")

	body, err := c.get(ctx, "leaguegamelog", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch season games: %w", err)
	}

	resp, err := parseResponse(body)
	if err != nil {
		return nil, err
	}
	rs, err := resp.find("LeagueGameLog", 0)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows[gameLogRow](rs)
	if err != nil {
		return nil, err
	}

	games := collapseGameLog(season, rows)

	log.Info().
		Str("season", season).
		Int("rows", len(rows)).
		Int("games", len(games)).
		Msg("Fetched season games")

	return games, nil
}

func collapseGameLog(season string, rows []gameLogRow) []models.GameInput {
	type pair struct {
		home, away *gameLogRow
	}

	order := make([]string, 0, len(rows)/2)
	pairs := make(map[string]*pair, len(rows)/2)

	for i := range rows {
		row := &rows[i]
		p, ok := pairs[row.GameID]
		if !ok {
			p = &pair{}
			pairs[row.GameID] = p
			order = append(order, row.GameID)
		}
		if row.isHome() {
			p.home = row
		} else {
			p.away = row
		}
	}

	games := make([]models.GameInput, 0, len(order))
	for _, id := range order {
		p := pairs[id]
		if p.home == nil || p.away == nil {
			continue
		}

		games = append(games, models.GameInput{
			GameID:     id,
			Season:     season,
			GameDate:   p.home.GameDate,
			HomeTeamID: p.home.TeamID,
			AwayTeamID: p.away.TeamID,
			HomeScore:  p.home.PTS,
			AwayScore:  p.away.PTS,
			Status:     models.StatusFinal,
		})
	}

	return games
}

type scoreboardGameRow struct {
	GameID        string `json:"GAME_ID"`
	GameStatus    string `json:"GAME_STATUS_TEXT"`
	HomeTeamID    int    `json:"HOME_TEAM_ID"`
	VisitorTeamID int    `json:"VISITOR_TEAM_ID"`
}

type lineScoreRow struct {
	GameID string `json:"GAME_ID"`
	TeamID int    `json:"TEAM_ID"`
	PTS    *int   `json:"PTS"`
}

// ScoreboardDate returns the calendar date the scoreboard uses for t.
// The NBA organizes games by US Eastern dates, so a late West Coast tip-off
// still belongs to the Eastern day.
func (c *Client) ScoreboardDate(t time.Time) string {
	return t.In(c.location).Format("2006-01-02")
}

// FetchScoreboard fetches every game on the calendar date containing t
func (c *Client) FetchScoreboard(ctx context.Context, t time.Time) ([]models.GameInput, error) {
	date := c.ScoreboardDate(t)

	params := url.Values{}
	params.Set("GameDate", date)
	params.Set("LeagueID", "00")
	params.Set("DayOffset", "0")

	body, err := c.get(ctx, "scoreboardV2", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard for %s: %w", date, err)
	}

	resp, err := parseResponse(body)
	if err != nil {
		return nil, err
	}

	headerSet, err := resp.find("GameHeader", 0)
	if err != nil {
		return nil, err
	}
	lineSet, err := resp.find("LineScore", 1)
	if err != nil {
		return nil, err
	}

	headers, err := decodeRows[scoreboardGameRow](headerSet)
	if err != nil {
		return nil, err
	}
	lines, err := decodeRows[lineScoreRow](lineSet)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]map[int]*int, len(headers))
	for _, line := range lines {
		if scores[line.GameID] == nil {
			scores[line.GameID] = make(map[int]*int, 2)
		}
		scores[line.GameID][line.TeamID] = line.PTS
	}

	season := models.SeasonForDate(t.In(c.location))
	games := make([]models.GameInput, 0, len(headers))
	for _, h := range headers {
		games = append(games, models.GameInput{
			GameID:     h.GameID,
			Season:     season,
			GameDate:   date,
			HomeTeamID: h.HomeTeamID,
			AwayTeamID: h.VisitorTeamID,
			HomeScore:  scores[h.GameID][h.HomeTeamID],
			AwayScore:  scores[h.GameID][h.VisitorTeamID],
			Status:     strings.TrimSpace(h.GameStatus),
		})
	}

	log.Info().Str("date", date).Int("games", len(games)).Msg("Fetched scoreboard")
	return games, nil
}
