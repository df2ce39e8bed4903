// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ledger-sync/internal/adapter"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/models"
)

type clientSyncService struct {
	logs    store.LocalLogRepository
	auth    ClientAuthService
	adapter adapter.ServerAdapter
}

func NewClientSyncService(localStore *store.ClientStorages, auth ClientAuthService, serverAdapter adapter.ServerAdapter) ClientSyncService {
	return &clientSyncService{logs: localStore.Logs, auth: auth, adapter: serverAdapter}
}

// Sync runs one round. Entries are flagged as syncing before they leave the
// device; if the round fails they stay syncing and are resubmitted next time,
// which the server answers with the stored outcome.
func (s *clientSyncService) Sync(ctx context.Context) (models.SyncResponse, error) {
	log := logger.FromContext(ctx).With().Str("func", "clientSyncService.Sync").Logger()

	if _, err := s.auth.Session(ctx); err != nil {
		return models.SyncResponse{}, err
	}

	pending, err := s.logs.Pending(ctx)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("load pending entries: %w", err)
	}

	ids := make([]string, 0, len(pending))
	for _, entry := range pending {
		ids = append(ids, entry.ID)
	}
	if err = s.logs.MarkSyncing(ctx, ids); err != nil {
		return models.SyncResponse{}, fmt.Errorf("mark entries syncing: %w", err)
	}

	req := models.SyncRequest{Logs: pending}
	lastSyncTime, err := s.logs.LastSyncTime(ctx)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("load sync cursor: %w", err)
	}
	if lastSyncTime > 0 {
		req.LastSyncTime = &lastSyncTime
	}

	resp, err := s.adapter.Sync(ctx, req)
	if err != nil {
		log.Err(err).Int("pending", len(pending)).Msg("sync round failed")
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrSyncOnServer, mapAdapterError(err))
	}

	if err = s.logs.CompleteRound(ctx, resp.Results, resp.Changes, resp.SyncTimeStamp); err != nil {
		return models.SyncResponse{}, fmt.Errorf("store sync round: %w", err)
	}

	log.Info().
		Int("submitted", len(pending)).
		Int("changes", len(resp.Changes)).
		Int64("sync_time_stamp", resp.SyncTimeStamp).
		Msg("sync round stored")

	return resp, nil
}

func (s *clientSyncService) InitialSync(ctx context.Context) (models.SyncResponse, error) {
	if _, err := s.auth.Session(ctx); err != nil {
		return models.SyncResponse{}, err
	}

	resp, err := s.adapter.InitialSync(ctx)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrSyncOnServer, mapAdapterError(err))
	}

	if err = s.logs.CompleteRound(ctx, nil, resp.Changes, resp.SyncTimeStamp); err != nil {
		return models.SyncResponse{}, fmt.Errorf("store initial sync: %w", err)
	}

	return resp, nil
}
