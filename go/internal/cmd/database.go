package main

import (
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jgreenfield/alfred/go/internal/dbconfig"
	"github.com/jgreenfield/alfred/go/internal/storage"
)

func setupDatabase(cfg dbconfig.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")
	return db, nil
}

func runMigrations(cfg dbconfig.Config) error {
	// golang-migrate's pgx/v5 driver registers the pgx5 URL scheme.
	url := strings.Replace(cfg.DSN(), "postgres://", "pgx5://", 1)

	migrator, err := storage.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		_ = migrator.Close()
	}()

	return migrator.Up()
}
