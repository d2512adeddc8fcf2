package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocerytracker/internal/config"
	"grocerytracker/internal/infra"
	"grocerytracker/internal/router"
	"grocerytracker/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, report cache disabled")
			rdb = nil
		}
	}

	app := router.New(cfg, db, rdb, nil)

	if err := app.Seeder.Seed(ctx, cfg.Stores, cfg.UseDemoData); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	go app.Limiter.Janitor(ctx, 5*time.Minute)
	go worker.NewScheduler(app.Scraper, cfg.ScrapeInterval(), cfg.ScrapingEnabled).Run(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      app.Engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // POST /api/scrape waits for every store
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Bool("demo", cfg.UseDemoData).
			Bool("scraping", cfg.ScrapingEnabled).
			Msg("grocery tracker listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
