// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Watch keeps the device in sync until ctx is cancelled.
	Watch(ctx context.Context) error

	// Close releases the local database.
	Close() error
}
