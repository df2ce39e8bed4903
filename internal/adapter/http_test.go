// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/utils"
	"github.com/MKhiriev/ledger-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	a, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second}, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func signedToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("ledger-sync", userID, time.Hour, "secret")
	require.NoError(t, err)
	return token.SignedString
}

func TestNewHTTPServerAdapter_EmptyAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{}, logger.Nop())
	require.Error(t, err)
}

// ── Register / Login ────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	token := signedToken(t, "user-1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/register", r.URL.Path)

		var got models.User
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "pw", got.Password)

		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	session, err := a.Register(context.Background(), models.User{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, models.Session{UserID: "user-1", Username: "alice", Token: token}, session)
	assert.Equal(t, token, a.Token())
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("username already exists"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Register(context.Background(), models.User{Username: "alice"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, a.Token())
}

func TestRegister_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Register(context.Background(), models.User{Username: "alice"})

	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLogin_Success(t *testing.T) {
	token := signedToken(t, "user-7")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/login", r.URL.Path)
		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	session, err := a.Login(context.Background(), models.User{Username: "bob", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "user-7", session.UserID)
	assert.Equal(t, "bob", session.Username)
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"bad gateway", http.StatusBadGateway, ErrBadGateway},
		{"internal", http.StatusInternalServerError, ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			a := newTestAdapter(t, srv.URL)
			_, err := a.Login(context.Background(), models.User{Username: "bob"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// ── Sync ────────────────────────────────────────────────────────────────────

func TestSync_Success(t *testing.T) {
	since := int64(1700)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req models.SyncRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Logs, 1) {
			assert.Equal(t, "log-1", req.Logs[0].ID)
		}
		if assert.NotNil(t, req.LastSyncTime) {
			assert.Equal(t, since, *req.LastSyncTime)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.SyncResponse{
			Results:       []models.LogResult{{LogID: "log-1", SyncState: models.SyncStateSynced}},
			Changes:       []models.LogEntry{{ID: "log-9", BusinessType: models.BusinessTypeBook}},
			SyncTimeStamp: 2000,
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken(" tok ")

	resp, err := a.Sync(context.Background(), models.SyncRequest{
		Logs:         []models.LogEntry{{ID: "log-1", BusinessType: models.BusinessTypeBook}},
		LastSyncTime: &since,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2000), resp.SyncTimeStamp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.SyncStateSynced, resp.Results[0].SyncState)
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, "log-9", resp.Changes[0].ID)
}

func TestSync_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Sync(context.Background(), models.SyncRequest{})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestInitialSync_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sync/initial", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[],"changes":[{"id":"a","businessId":"b1"}],"syncTimeStamp":42}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("tok")
	resp, err := a.InitialSync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.SyncTimeStamp)
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, models.NewBusinessID("b1"), resp.Changes[0].BusinessID)
}

func TestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"1.2.3"}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	v, err := a.Version(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v)
}

func TestVersion_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Version(context.Background())

	assert.ErrorIs(t, err, ErrNotFound)
}
