package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hance08/bankd/internal/config"
	"github.com/hance08/bankd/internal/ledger"
	"github.com/hance08/bankd/internal/metrics"
	"github.com/hance08/bankd/internal/notify"
	"github.com/hance08/bankd/internal/service"
	"github.com/hance08/bankd/internal/store"
)

type App struct {
	Config     *config.Config
	Store      store.Repository
	Service    *service.Service
	Engine     *ledger.Engine
	Metrics    *metrics.Collector
	Dispatcher *notify.Dispatcher
}

// NewApp initialize config, database and core logic, then return App entity
func NewApp(cfg *config.Config) (*App, func(), error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		appDir, _ := getAppDataDir()
		dbPath = filepath.Join(appDir, "bankd.db")
	}

	dbStore, err := store.NewStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logger := slog.Default()

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(logger)
	}

	var dispatcher *notify.Dispatcher
	var notifier ledger.Notifier
	if cfg.Notifier.WebhookURL != "" {
		dispatcher = notify.NewDispatcher(dbStore, notify.Config{
			WebhookURL:   cfg.Notifier.WebhookURL,
			Secret:       cfg.Notifier.Secret,
			PollInterval: cfg.Notifier.PollInterval,
			MaxAttempts:  cfg.Notifier.MaxAttempts,
		}, collector, logger)
		notifier = dispatcher
	}

	svc := service.NewService(dbStore, service.Config{DefaultCurrency: cfg.Defaults.Currency})
	engine := ledger.NewEngine(dbStore, notifier, collector, logger)

	cleanup := func() {
		if err := dbStore.Close(); err != nil {
			fmt.Printf("Error closing DB: %v\n", err)
		}
	}

	return &App{
		Config:     cfg,
		Store:      dbStore,
		Service:    svc,
		Engine:     engine,
		Metrics:    collector,
		Dispatcher: dispatcher,
	}, cleanup, nil
}

func getAppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".bankd"), nil
	}

	return filepath.Join(configDir, "bankd"), nil
}
