package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jgreenfield/alfred/go/internal/dbconfig"
	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/prefs"
	"github.com/jgreenfield/alfred/go/internal/rankings"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := flag.String("config", "config.yaml", "path to application config")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("using default config")
		config = defaultConfig()
	}

	dbCfg := dbconfig.NewConfigFromEnv()
	if err := runMigrations(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	db, err := setupDatabase(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database setup failed")
	}
	defer func() {
		_ = db.Close()
	}()

	clock := clockwork.NewRealClock()

	rankingsApp := rankings.NewApp(rankings.NewRepository(db), prefs.NewRepository(db), clock)

	publisher, cleanup, err := setupPublisher(config)
	if err != nil {
		log.Fatal().Err(err).Msg("publisher setup failed")
	}
	defer cleanup()

	workerCfg := outbox.Config{
		PollInterval: config.Outbox.PollInterval,
		BatchSize:    config.Outbox.BatchSize,
		MaxRetries:   config.Outbox.MaxRetries,
		RetryDelay:   config.Outbox.RetryDelay,
	}
	worker := outbox.NewWorker(outbox.NewRepository(db), publisher, workerCfg, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := worker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("outbox worker failed to start")
	}

	// Warm the default session's snapshot so the first undrafted query is
	// already bias-adjusted.
	if config.DefaultSession != "" {
		if count, err := rankingsApp.Recompute(ctx, config.DefaultSession); err != nil {
			log.Warn().Err(err).Str("session_id", config.DefaultSession).Msg("initial recompute failed")
		} else {
			log.Info().Int("players_ranked", count).Str("session_id", config.DefaultSession).Msg("initial rankings ready")
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	cancel()
	if err := worker.Stop(); err != nil {
		log.Error().Err(err).Msg("outbox worker stop failed")
	}
}

func setupPublisher(config *Config) (outbox.EventPublisher, func(), error) {
	if !config.NATS.Enabled {
		return outbox.NewLogPublisher(), func() {}, nil
	}

	jsCfg := outbox.DefaultJetStreamConfig()
	if config.NATS.URL != "" {
		jsCfg.URL = config.NATS.URL
	}
	if config.NATS.StreamName != "" {
		jsCfg.StreamName = config.NATS.StreamName
	}
	if config.NATS.SubjectPrefix != "" {
		jsCfg.SubjectPrefix = config.NATS.SubjectPrefix
	}

	publisher, err := outbox.NewJetStreamPublisher(jsCfg)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}
