package server

import "errors"

// errNoListeners is returned by NewServer when no handler matches a
// configured address.
var errNoListeners = errors.New("no HTTP or gRPC listener to run")
