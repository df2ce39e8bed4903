package server

import "context"

type Server interface {
	// RunServer starts every enabled transport and blocks until ctx is
	// cancelled, then shuts them down gracefully.
	RunServer(ctx context.Context) error

	Shutdown()
}
