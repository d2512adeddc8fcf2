// cmd/seed/main.go prepares the database without starting the server:
// configured stores, default categories and (in demo mode) sample items.
// With -scrape it also records one scrape pass.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"grocerytracker/internal/config"
	"grocerytracker/internal/infra"
	"grocerytracker/internal/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	scrape := flag.Bool("scrape", false, "run one scrape of every enabled store after seeding")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	ctx := context.Background()
	app := router.New(cfg, db, nil, nil)
	if err := app.Seeder.Seed(ctx, cfg.Stores, cfg.UseDemoData); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	if *scrape {
		resp := app.Scraper.ScrapeAll(ctx, true)
		log.Info().Int("total_products", resp.TotalProducts).Int("total_saved", resp.TotalSaved).Msg("scrape complete")
	}
}
