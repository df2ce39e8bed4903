package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/ledger-sync/internal/app"
	"github.com/MKhiriev/ledger-sync/internal/service"
	"github.com/MKhiriev/ledger-sync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrMalformedPayload:        http.StatusBadRequest,
	service.ErrNoUserID:                http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified:   http.StatusInternalServerError,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrUserNotFound:          http.StatusNotFound,

	context.DeadlineExceeded: http.StatusGatewayTimeout,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError returns the response body for err. The device client
// matches on these strings.
func messageFromError(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidDataProvided), errors.Is(err, service.ErrMalformedPayload):
		return app.MsgInvalidDataProvided
	case errors.Is(err, service.ErrNoUserID):
		return app.MsgNoUserIDProvided
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
		return app.MsgTokenIsExpiredOrInvalid
	}
	return app.MsgSyncFailed
}
