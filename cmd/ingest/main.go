// Command ingest runs the full ingestion pipeline once for both genders of a
// single season and writes the materialized dataset files.
//
// Usage: ingest [YYYY-YY]
//
// With no argument the current season is used. An invalid season selector is
// a usage error reported before any network activity.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ncaab_factors/ingestion/internal/cache"
	"ncaab_factors/ingestion/internal/client"
	"ncaab_factors/ingestion/internal/config"
	"ncaab_factors/ingestion/internal/dataset"
	"ncaab_factors/ingestion/internal/espn"
	"ncaab_factors/ingestion/internal/models"
	"ncaab_factors/ingestion/internal/pipeline"
	"ncaab_factors/ingestion/internal/season"
)

func main() {
	setupLogger()

	if len(os.Args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: ingest [YYYY-YY]")
		os.Exit(2)
	}

	// Season validation happens before any network activity
	s := season.Current(time.Now())
	if len(os.Args) == 2 {
		parsed, err := season.Parse(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
			os.Exit(2)
		}
		s = parsed
	}

	cfg := config.MustLoad()
	log.Info().
		Str("season", s.String()).
		Str("data_dir", cfg.DataDir).
		Msg("Starting ingestion run")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, aborting run...")
		cancel()
	}()

	p := buildPipeline(cfg)

	failures := 0
	for _, gender := range models.Genders {
		if _, err := p.Run(ctx, gender, s); err != nil {
			log.Error().Err(err).Str("gender", string(gender)).Msg("Pipeline run failed")
			failures++
		}
	}

	if failures == len(models.Genders) {
		log.Fatal().Msg("All pipeline runs failed")
	}
	log.Info().Int("failed", failures).Msg("Ingestion complete")
}

// buildPipeline wires the client, optional payload cache, parser and
// materializer from configuration
func buildPipeline(cfg *config.Config) *pipeline.Pipeline {
	var opts []client.Option
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			opts = append(opts, client.WithCache(redisCache, time.Duration(cfg.CacheTTL)*time.Second))
			log.Info().Msg("Payload cache connected")
		}
	}

	espnClient := client.NewClient(
		cfg.ESPNBaseURL,
		cfg.ESPNTimeout,
		cfg.RequestDelay,
		cfg.RetryDelay,
		cfg.MaxRetries,
		opts...,
	)

	parser := espn.NewParser(cfg.OffensiveReboundShare)
	materializer := dataset.NewMaterializer(cfg.DataDir)

	return pipeline.New(espnClient, parser, materializer)
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}
