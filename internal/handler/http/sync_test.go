// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/ledger-sync/internal/app"
	"github.com/MKhiriev/ledger-sync/internal/service"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/internal/utils"
	"github.com/MKhiriev/ledger-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(method, body, userID string) *http.Request {
	req := injectNopLogger(httptest.NewRequest(method, "/", strings.NewReader(body)))
	if userID == "" {
		return req
	}
	return req.WithContext(utils.WithUserID(req.Context(), userID))
}

func TestSync_Success(t *testing.T) {
	syncSvc := &stubSyncService{
		syncFn: func(_ context.Context, userID string, req models.SyncRequest) (models.SyncResponse, error) {
			assert.Equal(t, "user-a", userID)
			require.Len(t, req.Logs, 1)
			assert.Equal(t, models.BusinessIDs{"b1", "b2"}, req.Logs[0].BusinessID)
			require.NotNil(t, req.LastSyncTime)
			assert.Equal(t, int64(100), *req.LastSyncTime)

			reason := "unsupported business type"
			return models.SyncResponse{
				Results:       []models.LogResult{{LogID: "l1", SyncState: models.SyncStateFailed, SyncError: &reason}},
				Changes:       []models.LogEntry{},
				SyncTimeStamp: 200,
			}, nil
		},
	}
	h := newTestHandlerWith(&stubAuthService{}, syncSvc)

	body := `{"logs":[{"id":"l1","businessType":"book","operateType":"batchDelete","businessId":["b1","b2"],"operateData":"","operatorId":"user-a","operatedAt":1}],"lastSyncTime":100}`
	rec := httptest.NewRecorder()
	h.sync(rec, authedRequest(http.MethodPost, body, "user-a"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SyncResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(200), resp.SyncTimeStamp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.SyncStateFailed, resp.Results[0].SyncState)
	assert.NotNil(t, resp.Changes)
}

func TestSync_Errors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"no user", "", `{}`, nil, http.StatusBadRequest, app.MsgNoUserIDProvided},
		{"invalid json", "user-a", `{"logs":`, nil, http.StatusBadRequest, app.MsgInvalidDataProvided},
		{"bad business id", "user-a", `{"logs":[{"id":"l1","businessId":42}]}`, nil, http.StatusBadRequest, app.MsgInvalidDataProvided},
		{"storage failure", "user-a", `{"logs":[]}`, fmt.Errorf("begin: %w", store.ErrBeginningTransaction), http.StatusInternalServerError, app.MsgSyncFailed},
		{"deadline", "user-a", `{"logs":[]}`, context.DeadlineExceeded, http.StatusGatewayTimeout, app.MsgSyncFailed},
		{"no user id in service", "user-a", `{}`, service.ErrNoUserID, http.StatusBadRequest, app.MsgNoUserIDProvided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncSvc := &stubSyncService{
				syncFn: func(context.Context, string, models.SyncRequest) (models.SyncResponse, error) {
					return models.SyncResponse{}, tt.err
				},
			}
			h := newTestHandlerWith(&stubAuthService{}, syncSvc)

			rec := httptest.NewRecorder()
			h.sync(rec, authedRequest(http.MethodPost, tt.body, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestInitialSync(t *testing.T) {
	syncSvc := &stubSyncService{
		initialSyncFn: func(_ context.Context, userID string) (models.SyncResponse, error) {
			assert.Equal(t, "user-a", userID)
			return models.SyncResponse{
				Results:       []models.LogResult{},
				Changes:       []models.LogEntry{{ID: "x", BusinessID: models.NewBusinessID("b1")}},
				SyncTimeStamp: 7,
			}, nil
		},
	}
	h := newTestHandlerWith(&stubAuthService{}, syncSvc)

	rec := httptest.NewRecorder()
	h.initialSync(rec, authedRequest(http.MethodGet, "", "user-a"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"businessId":"b1"`)
}

func TestInitialSync_NoUser(t *testing.T) {
	h := newTestHandlerWith(&stubAuthService{}, &stubSyncService{})

	rec := httptest.NewRecorder()
	h.initialSync(rec, authedRequest(http.MethodGet, "", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSync_ThroughRouter(t *testing.T) {
	syncSvc := &stubSyncService{
		syncFn: func(_ context.Context, userID string, _ models.SyncRequest) (models.SyncResponse, error) {
			return models.SyncResponse{Results: []models.LogResult{}, Changes: []models.LogEntry{}, SyncTimeStamp: 1}, nil
		},
	}
	router := newTestHandlerWith(&stubAuthService{}, syncSvc).Init()

	req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"logs":[]}`))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
