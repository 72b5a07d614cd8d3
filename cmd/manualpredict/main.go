// Command manualpredict predicts a single matchup by team abbreviation, or stores
// predictions for upcoming games that have none yet.
//
//	manualpredict -home BOS -away LAL [-season 2025-26] [-neutral] [-form] [-h2h]
//	manualpredict [-days 3]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"nba_dashboard/backend/internal/app"
	"nba_dashboard/backend/internal/config"
	"nba_dashboard/backend/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	home := flag.String("home", "", "home team abbreviation")
	away := flag.String("away", "", "away team abbreviation")
	season := flag.String("season", "", "season, defaults to DEFAULT_SEASON")
	neutral := flag.Bool("neutral", false, "neutral site")
	form := flag.Bool("form", false, "blend in recent form")
	h2h := flag.Bool("h2h", false, "adjust for the season series")
	days := flag.Int("days", 1, "calendar days to predict, starting today")
	flag.Parse()

	cfg := config.MustLoad()
	app.SetupLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer a.Close()

	log.Info().Msg("Validating service health...")
	if err := a.DB.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	if *home != "" || *away != "" {
		if *home == "" || *away == "" {
			log.Fatal().Msg("Both -home and -away are required")
		}
		if err := predictMatchup(ctx, a, *home, *away, *season, *neutral, *form, *h2h); err != nil {
			log.Fatal().Err(err).Msg("Prediction failed")
		}
		return
	}

	total := 0
	now := time.Now()
	for i := 0; i < *days; i++ {
		n, err := a.Syncer.PredictUpcoming(ctx, now.AddDate(0, 0, i))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to predict upcoming games")
		}
		total += n
	}

	log.Info().Int("days", *days).Int("stored", total).Msg("Manual prediction run complete")
}

func predictMatchup(ctx context.Context, a *app.App, homeAbbr, awayAbbr, season string, neutral, form, h2h bool) error {
	homeTeam, err := a.DB.Teams.GetByAbbreviation(ctx, homeAbbr)
	if err != nil {
		return err
	}
	awayTeam, err := a.DB.Teams.GetByAbbreviation(ctx, awayAbbr)
	if err != nil {
		return err
	}

	resp, err := a.Matchup.Predict(ctx, service.MatchupRequest{
		TeamAID:       homeTeam.TeamID,
		TeamBID:       awayTeam.TeamID,
		NeutralSite:   neutral,
		Season:        season,
		UseRecentForm: form,
		UseHeadToHead: h2h,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
