package service

import (
	"github.com/MKhiriev/ledger-sync/internal/adapter"
	"github.com/MKhiriev/ledger-sync/internal/store"
)

type ClientServices struct {
	AuthService ClientAuthService
	LogService  ClientLogService
	SyncService ClientSyncService
}

func NewClientServices(localStore *store.ClientStorages, serverAdapter adapter.ServerAdapter) *ClientServices {
	authSvc := NewClientAuthService(localStore, serverAdapter)

	return &ClientServices{
		AuthService: authSvc,
		LogService:  NewClientLogService(localStore, authSvc),
		SyncService: NewClientSyncService(localStore, authSvc, serverAdapter),
	}
}
