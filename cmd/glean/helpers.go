package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/glean/internal/config"
	"github.com/at-ishikawa/glean/internal/database"
	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/review"
)

// openDatabase is replaced in tests.
var openDatabase = database.Open

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// environment holds what every store-backed command needs.
type environment struct {
	cfg   *config.Config
	db    *sqlx.DB
	repo  *learning.DBRepository
	clock review.Clock
}

func (env *environment) Close() error {
	return env.db.Close()
}

func newEnvironment() (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	location, err := cfg.Review.Location()
	if err != nil {
		return nil, fmt.Errorf("cfg.Review.Location() > %w", err)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return &environment{
		cfg:   cfg,
		db:    db,
		repo:  learning.NewDBRepository(db, cfg.Database.MaxRetryAttempts),
		clock: review.SystemClock{Location: location},
	}, nil
}
