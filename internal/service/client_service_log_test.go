package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/internal/validators"
	"github.com/MKhiriev/ledger-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogService(storages *store.ClientStorages, m clientMocks) *clientLogService {
	svc := NewClientLogService(storages, NewClientAuthService(storages, m.adapter)).(*clientLogService)
	svc.ids = &seqIDs{}
	svc.now = func() time.Time { return time.UnixMilli(1_000) }
	return svc
}

func TestClientLogService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the entry", func(t *testing.T) {
		storages, m := newClientMocks(t)
		svc := newTestLogService(storages, m)

		m.sessions.EXPECT().Session(ctx).Return(aliceSession, nil)
		m.adapter.EXPECT().SetToken(aliceSession.Token)

		var queued models.LogEntry
		m.logs.EXPECT().Enqueue(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, entry models.LogEntry) error {
			queued = entry
			return nil
		})

		entry, err := svc.Record(ctx, models.LogEntry{
			BusinessType: models.BusinessTypeBook,
			OperateType:  models.OperateTypeCreate,
			OperatorID:   "someone-else",
			BusinessID:   models.NewBusinessID("book-1"),
			OperateData:  `{"id":"book-1","name":"Home"}`,
			SyncState:    models.SyncStateSynced,
		})
		require.NoError(t, err)

		assert.Equal(t, "gen-001", entry.ID)
		assert.Equal(t, int64(1_000), entry.OperatedAt)
		assert.Equal(t, "user-a", entry.OperatorID)
		assert.Equal(t, models.SyncStateUnsynced, entry.SyncState)
		assert.Equal(t, entry, queued)
	})

	t.Run("keeps caller id and time", func(t *testing.T) {
		storages, m := newClientMocks(t)
		svc := newTestLogService(storages, m)

		m.sessions.EXPECT().Session(ctx).Return(aliceSession, nil)
		m.adapter.EXPECT().SetToken(gomock.Any())
		m.logs.EXPECT().Enqueue(ctx, gomock.Any()).Return(nil)

		entry, err := svc.Record(ctx, models.LogEntry{
			ID:           "own-id",
			OperatedAt:   77,
			BusinessType: models.BusinessTypeShop,
			OperateType:  models.OperateTypeDelete,
			BusinessID:   models.NewBusinessID("shop-1"),
		})
		require.NoError(t, err)
		assert.Equal(t, "own-id", entry.ID)
		assert.Equal(t, int64(77), entry.OperatedAt)
	})

	t.Run("requires a session", func(t *testing.T) {
		storages, m := newClientMocks(t)
		svc := newTestLogService(storages, m)

		m.sessions.EXPECT().Session(ctx).Return(models.Session{}, store.ErrSessionNotFound)

		_, err := svc.Record(ctx, models.LogEntry{BusinessType: models.BusinessTypeBook, OperateType: models.OperateTypeCreate})
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("requires types", func(t *testing.T) {
		storages, m := newClientMocks(t)
		svc := newTestLogService(storages, m)

		m.sessions.EXPECT().Session(ctx).Return(aliceSession, nil)
		m.adapter.EXPECT().SetToken(gomock.Any())

		_, err := svc.Record(ctx, models.LogEntry{BusinessType: models.BusinessTypeBook})
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
	})

	t.Run("rejects a malformed payload before queueing", func(t *testing.T) {
		storages, m := newClientMocks(t)
		svc := newTestLogService(storages, m)

		m.sessions.EXPECT().Session(ctx).Return(aliceSession, nil)
		m.adapter.EXPECT().SetToken(gomock.Any())

		_, err := svc.Record(ctx, models.LogEntry{
			BusinessType: models.BusinessTypeBook,
			OperateType:  models.OperateTypeUpdate,
			BusinessID:   models.NewBusinessID("book-1"),
			OperateData:  `{"name":`,
		})
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
		assert.ErrorIs(t, err, validators.ErrInvalidOperateData)
	})
}

func TestClientLogService_Listing(t *testing.T) {
	ctx := context.Background()
	storages, m := newClientMocks(t)
	svc := newTestLogService(storages, m)

	pending := []models.LogEntry{{ID: "p1"}}
	failed := []models.LogEntry{{ID: "f1"}}
	changes := []models.LogEntry{{ID: "c1"}, {ID: "c2"}}

	m.logs.EXPECT().Pending(ctx).Return(pending, nil)
	m.logs.EXPECT().Failed(ctx).Return(failed, nil)
	m.logs.EXPECT().Changes(ctx, uint64(10)).Return(changes, nil)

	got, err := svc.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, pending, got)

	got, err = svc.Failed(ctx)
	require.NoError(t, err)
	assert.Equal(t, failed, got)

	got, err = svc.Changes(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, changes, got)
}
