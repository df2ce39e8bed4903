package handler

import "errors"

// errNoTransportConfigured is returned by NewHandlers when the server config
// enables neither HTTP nor gRPC.
var errNoTransportConfigured = errors.New("neither HTTP nor gRPC address is configured")
