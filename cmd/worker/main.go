// Command worker is the long-running refresher: it runs an initial ingestion
// on startup, re-runs the full pipeline nightly on a cron schedule, and
// serves Prometheus metrics. The optional Postgres mirror is attached here.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ncaab_factors/ingestion/internal/cache"
	"ncaab_factors/ingestion/internal/client"
	"ncaab_factors/ingestion/internal/config"
	"ncaab_factors/ingestion/internal/dataset"
	"ncaab_factors/ingestion/internal/espn"
	"ncaab_factors/ingestion/internal/metrics"
	"ncaab_factors/ingestion/internal/models"
	"ncaab_factors/ingestion/internal/pipeline"
	"ncaab_factors/ingestion/internal/repository"
	"ncaab_factors/ingestion/internal/season"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting four-factors ingestion worker")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	sinks := []pipeline.Sink{dataset.NewMaterializer(cfg.DataDir)}

	var db *repository.Database
	if cfg.DatabaseEnabled {
		var err error
		db, err = repository.NewDatabase(ctx, repository.Config{
			Host:     cfg.DatabaseHost,
			Port:     strconv.Itoa(cfg.DatabasePort),
			User:     cfg.DatabaseUser,
			Password: cfg.DatabasePassword,
			Database: cfg.DatabaseName,
			SSLMode:  cfg.DatabaseSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		sinks = append(sinks, repository.NewMirror(db))
		log.Info().Msg("Postgres mirror enabled")
	}

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
			defer redisCache.Close()
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

	p := pipeline.New(espnClient, espn.NewParser(cfg.OffensiveReboundShare), sinks...)

	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))

		startTime := time.Now()
		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Nightly full refresh of the current season
	c := cron.New()
	if _, err := c.AddFunc(cfg.NightlyRefreshCron, func() {
		log.Info().Msg("Running nightly refresh...")
		refresh(ctx, p)
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule nightly refresh")
	}
	c.Start()
	log.Info().
		Str("schedule", cfg.NightlyRefreshCron).
		Msg("Nightly refresh scheduled")

	if cfg.InitialSyncEnabled {
		log.Info().Msg("Running initial ingestion...")
		refresh(ctx, p)
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	c.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// refresh runs the pipeline for both genders of the current season. Each
// gender fails independently.
func refresh(ctx context.Context, p *pipeline.Pipeline) {
	s := season.Current(time.Now())
	for _, gender := range models.Genders {
		if _, err := p.Run(ctx, gender, s); err != nil {
			log.Error().Err(err).Str("gender", string(gender)).Msg("Pipeline run failed, continuing...")
		}
	}
}

// setupLogger configures the zerolog logger
func setupLogger() {
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

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
