package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nba_dashboard/backend/internal/api"
	"nba_dashboard/backend/internal/app"
	"nba_dashboard/backend/internal/config"
	"nba_dashboard/backend/internal/metrics"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()
	app.SetupLogger(cfg)

	log.Info().Msg("Starting NBA dashboard API")
	log.Info().
		Str("env", cfg.AppEnv).
		Int("port", cfg.APIPort).
		Str("season", cfg.DefaultSeason).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer a.Close()

	server := api.NewServer(a.Matchup, api.DBStore{DB: a.DB}, a.Syncer, a.Cache, api.Options{
		DefaultSeason: cfg.DefaultSeason,
		Location:      cfg.Location(),
		TeamsTTL:      cfg.TeamsTTL(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      6 * time.Minute, // fetch endpoints run a full sync
	}

	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				a.DB.PoolStats()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}

	log.Info().Msg("API shutdown complete")
}
