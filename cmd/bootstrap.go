package cmd

import (
	"context"
	"errors"
	"fmt"

	"filelist-diff/core/config"
	"filelist-diff/core/database"
	"filelist-diff/core/history"
	"filelist-diff/core/logger"
	"filelist-diff/core/storage"

	"go.uber.org/zap"
)

// app bundles the dependencies shared by the commands.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *history.Store
	client storage.Client
}

// bootstrap loads configuration and creates the logger.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	return &app{cfg: cfg, log: logg}, nil
}

// openHistory connects the run ledger. A missing or unreachable database is
// not fatal: runs are then not recorded.
func (a *app) openHistory(ctx context.Context) {
	db, err := database.Connect(a.cfg.Database)
	if errors.Is(err, database.ErrDisabled) {
		return
	}
	if err != nil {
		a.log.Warn("Optional database connection failed", zap.Error(err))
		return
	}

	store := history.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		a.log.Warn("Run history unavailable", zap.Error(err))
		return
	}
	a.store = store
	a.log.Debug("Connected to run history", zap.String("driver", a.cfg.Database.Driver))
}

// openStorage creates the object storage client.
func (a *app) openStorage() error {
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	a.client = client
	return nil
}

func (a *app) close() {
	_ = a.log.Sync()
}
