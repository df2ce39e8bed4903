// Package server runs the HTTP and gRPC listeners of the sync server side by
// side and stops both when the run context is cancelled.
package server
