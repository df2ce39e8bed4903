// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the device client's transport to the ledger-sync
// server.
//
// [ServerAdapter] decouples the client services from the wire protocol. The
// package ships an HTTP/REST implementation ([NewHTTPServerAdapter]).
//
// Non-2xx responses are mapped by mapHTTPError to the sentinel values in
// errors.go so that callers can use [errors.Is] (e.g. [ErrConflict] for 409,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/ledger-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations own serialisation and the bearer token.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token, or an empty string.
	Token() string

	// Register creates the account and returns the session issued for it.
	// The token is stored via SetToken.
	Register(ctx context.Context, user models.User) (models.Session, error)

	// Login authenticates with username and password and returns the issued
	// session. The token is stored via SetToken.
	Login(ctx context.Context, user models.User) (models.Session, error)

	// Sync submits one round: the device's pending entries and its cursor.
	Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)

	// InitialSync fetches the full visible history without submitting
	// anything.
	InitialSync(ctx context.Context) (models.SyncResponse, error)

	// Version returns the server application version.
	Version(ctx context.Context) (string, error)
}
