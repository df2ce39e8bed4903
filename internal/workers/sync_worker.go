// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/logger"
)

// SyncWorker runs a sync round right away and then once per interval. A
// failed round is logged and retried on the next tick; the outbox keeps the
// entries until the server accepts them.
type SyncWorker struct {
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger

	// fatal stops the worker instead of waiting for the next tick.
	fatal func(error) bool
}

func NewSyncWorker(syncer Syncer, interval time.Duration, logger *logger.Logger, fatal ...error) *SyncWorker {
	return &SyncWorker{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
		fatal: func(err error) bool {
			for _, target := range fatal {
				if errors.Is(err, target) {
					return true
				}
			}
			return false
		},
	}
}

func (w *SyncWorker) Run(ctx context.Context) error {
	ctx = w.logger.WithContext(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.round(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sync worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *SyncWorker) round(ctx context.Context) error {
	resp, err := w.syncer.Sync(ctx)
	switch {
	case err == nil:
		w.logger.Debug().
			Int("results", len(resp.Results)).
			Int("changes", len(resp.Changes)).
			Msg("sync round done")
		return nil
	case ctx.Err() != nil:
		return nil
	case w.fatal(err):
		w.logger.Err(err).Msg("sync worker cannot continue")
		return err
	default:
		w.logger.Warn().Err(err).Dur("retry_in", w.interval).Msg("sync round failed")
		return nil
	}
}
