package scheduler

import (
	"context"
	"testing"
	"time"

	"nba_dashboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(cron string, interval time.Duration) (*Scheduler, *fakeStore) {
	store := newFakeStore()
	src := &fakeSource{scoreboard: []models.GameInput{
		{GameID: "0022500101", Season: season, GameDate: "2025-11-20", HomeTeamID: 1, AwayTeamID: 2, Status: "7:30 pm ET"},
	}}
	syncer := NewSyncer(src, store, &fakePredictor{}, eastern)

	s := NewScheduler(Config{
		Season:       season,
		NightlyCron:  cron,
		PollInterval: interval,
		Location:     eastern,
	}, syncer)
	s.now = func() time.Time { return time.Date(2025, 11, 20, 17, 0, 0, 0, time.UTC) }
	return s, store
}

func TestScheduler_InvalidCron(t *testing.T) {
	s, _ := newTestScheduler("not a cron", time.Minute)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nightly refresh")
}

func TestScheduler_InvalidInterval(t *testing.T) {
	s, _ := newTestScheduler("0 4 * * *", 0)
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s, _ := newTestScheduler("0 4 * * *", time.Hour)
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.NotPanics(t, s.Stop)
}

func TestScheduler_Poll(t *testing.T) {
	s, store := newTestScheduler("0 4 * * *", time.Hour)

	s.Poll(context.Background())

	assert.Contains(t, store.games, "0022500101")
	assert.Contains(t, store.predictions, "0022500101")
}

func TestScheduler_PollsOnTicker(t *testing.T) {
	s, store := newTestScheduler("0 4 * * *", 10*time.Millisecond)

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(100 * time.Millisecond)

	// Stop waits for the poller to exit
	s.Stop()
	assert.Contains(t, store.games, "0022500101")
}

func TestScheduler_ContextCancelStopsPolling(t *testing.T) {
	s, _ := newTestScheduler("0 4 * * *", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("poller did not exit after cancel")
	}
	s.Stop()
}
