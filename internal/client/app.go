package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ledger-sync/internal/adapter"
	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/service"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/internal/workers"
)

type App struct {
	cfg *config.ClientConfig

	storages *store.ClientStorages
	adapter  adapter.ServerAdapter
	services *service.ClientServices

	logger *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, logger)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	return &App{
		cfg:      cfg,
		storages: storages,
		adapter:  serverAdapter,
		services: service.NewClientServices(storages, serverAdapter),
		logger:   logger,
	}, nil
}

// Watch runs sync rounds every Workers.SyncInterval until ctx is cancelled.
// It stops early when the device has no usable session.
func (a *App) Watch(ctx context.Context) error {
	syncWorker := workers.NewSyncWorker(
		a.services.SyncService,
		a.cfg.Workers.SyncInterval,
		a.logger,
		service.ErrNotLoggedIn,
		service.ErrTokenIsExpiredOrInvalid,
	)

	return workers.NewWorkers(syncWorker).Run(ctx)
}

func (a *App) Close() error {
	return a.storages.Close()
}
