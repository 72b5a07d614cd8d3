package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	c := NewClient(Config{
		BaseURL:    server.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RateLimit:  1000,
		BurstLimit: 10,
		Location:   eastern,
	})
	c.retryDelay = time.Millisecond
	return c
}

const teamStatsBase = `{"resultSets":[{"name":"LeagueDashTeamStats",
"headers":["TEAM_ID","TEAM_NAME","GP","W","L","PTS","FG_PCT","FG3_PCT","FT_PCT","AST","REB","TOV"],
"rowSet":[[1610612738,"Boston Celtics",30,22,8,117.5,0.475,0.382,0.81,26.1,45.3,12.2],
[1610612747,"Los Angeles Lakers",30,16,14,114.2,0.49,0.355,0.78,27.4,43.9,14.1]]}]}`

const teamStatsAdvanced = `{"resultSets":[{"name":"LeagueDashTeamStats",
"headers":["TEAM_ID","TEAM_NAME","GP","W","L","OFF_RATING","DEF_RATING","PACE"],
"rowSet":[[1610612738,"Boston Celtics",30,22,8,119.8,110.4,98.2]]}]}`

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"resultSets":[]}`)
	})

	body, err := c.get(context.Background(), "leaguedashteamstats", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"resultSets":[]}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.get(context.Background(), "leaguegamelog", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestGet_DoesNotRetryForbidden(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.get(context.Background(), "scoreboardV2", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_SendsBrowserHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://www.nba.com/", r.Header.Get("Referer"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{}`)
	})

	_, err := c.get(context.Background(), "leaguedashteamstats", nil)
	require.NoError(t, err)
}

func TestFetchCombinedTeamStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leaguedashteamstats", r.URL.Path)
		assert.Equal(t, "2025-26", r.URL.Query().Get("Season"))
		assert.Equal(t, "PerGame", r.URL.Query().Get("PerMode"))

		switch r.URL.Query().Get("MeasureType") {
		case MeasureBase:
			fmt.Fprint(w, teamStatsBase)
		case MeasureAdvanced:
			fmt.Fprint(w, teamStatsAdvanced)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	stats, err := c.FetchCombinedTeamStats(context.Background(), "2025-26")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	boston := stats[0]
	assert.Equal(t, 1610612738, boston.TeamID)
	assert.Equal(t, 22, boston.W)
	require.NotNil(t, boston.PTS)
	assert.InDelta(t, 117.5, *boston.PTS, 1e-9)
	require.NotNil(t, boston.OffRating)
	assert.InDelta(t, 119.8, *boston.OffRating, 1e-9)
	assert.InDelta(t, 110.4, *boston.DefRating, 1e-9)

	// no advanced row for the Lakers
	assert.Nil(t, stats[1].OffRating)
	assert.False(t, stats[1].ToTeamSeasonStats("2025-26").OffensiveRating.Valid)
}

func TestFetchTeamStats_MismatchedRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultSets":[{"name":"LeagueDashTeamStats","headers":["TEAM_ID","GP"],"rowSet":[[1]]}]}`)
	})

	_, err := c.FetchTeamStats(context.Background(), "2025-26", MeasureBase)
	assert.Error(t, err)
}

func TestFetchSeasonGames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leaguegamelog", r.URL.Path)
		assert.Equal(t, "T", r.URL.Query().Get("PlayerOrTeam"))
		fmt.Fprint(w, `{"resultSets":[{"name":"LeagueGameLog",
"headers":["SEASON_ID","TEAM_ID","TEAM_ABBREVIATION","GAME_ID","GAME_DATE","MATCHUP","WL","PTS"],
"rowSet":[
["22025",1610612747,"LAL","0022500100","2025-11-20","LAL @ BOS","L",101],
["22025",1610612738,"BOS","0022500100","2025-11-20","BOS vs. LAL","W",112],
["22025",1610612748,"MIA","0022500050","2025-11-10","MIA vs. BOS","W",99],
["22025",1610612738,"BOS","0022500050","2025-11-10","BOS @ MIA","L",95],
["22025",1610612744,"GSW","0022500001","2025-10-22","GSW @ DEN","W",120]
]}]}`)
	})

	games, err := c.FetchSeasonGames(context.Background(), "2025-26")
	require.NoError(t, err)
	require.Len(t, games, 2, "half-reported game is dropped")

	first := games[0]
	assert.Equal(t, "0022500100", first.GameID)
	assert.Equal(t, "2025-26", first.Season)
	assert.Equal(t, "2025-11-20", first.GameDate)
	assert.Equal(t, 1610612738, first.HomeTeamID)
	assert.Equal(t, 1610612747, first.AwayTeamID)
	require.NotNil(t, first.HomeScore)
	assert.Equal(t, 112, *first.HomeScore)
	assert.Equal(t, 101, *first.AwayScore)
	assert.Equal(t, models.StatusFinal, first.Status)

	assert.Equal(t, 1610612748, games[1].HomeTeamID)
	assert.Equal(t, 1610612738, games[1].AwayTeamID)
}

func TestFetchScoreboard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scoreboardV2", r.URL.Path)
		// 02:30 UTC on the 21st is still the evening of the 20th in New York
		assert.Equal(t, "2025-11-20", r.URL.Query().Get("GameDate"))
		fmt.Fprint(w, `{"resultSets":[
{"name":"GameHeader","headers":["GAME_DATE_EST","GAME_ID","GAME_STATUS_TEXT","HOME_TEAM_ID","VISITOR_TEAM_ID"],
"rowSet":[["2025-11-20T00:00:00","0022500100","Final",1610612738,1610612747],
["2025-11-20T00:00:00","0022500101","10:30 pm ET ",1610612744,1610612743]]},
{"name":"LineScore","headers":["GAME_ID","TEAM_ID","PTS"],
"rowSet":[["0022500100",1610612738,112],["0022500100",1610612747,101],
["0022500101",1610612744,null],["0022500101",1610612743,null]]}
]}`)
	})

	at := time.Date(2025, 11, 21, 2, 30, 0, 0, time.UTC)
	games, err := c.FetchScoreboard(context.Background(), at)
	require.NoError(t, err)
	require.Len(t, games, 2)

	final := games[0]
	assert.Equal(t, "2025-26", final.Season)
	assert.Equal(t, "2025-11-20", final.GameDate)
	assert.Equal(t, "Final", final.Status)
	require.NotNil(t, final.HomeScore)
	assert.Equal(t, 112, *final.HomeScore)
	assert.Equal(t, 101, *final.AwayScore)

	upcoming := games[1]
	assert.Equal(t, "10:30 pm ET", upcoming.Status)
	assert.Nil(t, upcoming.HomeScore)
	assert.Nil(t, upcoming.AwayScore)

	g, err := upcoming.ToGame()
	require.NoError(t, err)
	assert.True(t, g.IsScheduled())
}

func TestFetchScoreboard_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchScoreboard(ctx, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
