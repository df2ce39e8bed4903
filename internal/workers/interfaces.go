// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"context"

	"github.com/MKhiriev/ledger-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled or the worker hits an error it cannot
// recover from. Cancellation is a normal stop and returns nil.
type Worker interface {
	Run(ctx context.Context) error
}

// Syncer is the part of the device client a [SyncWorker] drives.
type Syncer interface {
	Sync(ctx context.Context) (models.SyncResponse, error)
}
