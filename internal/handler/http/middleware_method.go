package http

import (
	"net/http"

	"github.com/MKhiriev/ledger-sync/internal/logger"
)

// methodNotFound replaces chi's 405 so that a wrong method does not reveal
// which paths exist.
func methodNotFound(w http.ResponseWriter, r *http.Request) {
	logger.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("method not allowed, answering 404")

	w.WriteHeader(http.StatusNotFound)
}
