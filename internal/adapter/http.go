package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/utils"
	"github.com/MKhiriev/ledger-sync/models"
	"github.com/go-resty/resty/v2"
)

const (
	registerPath    = "/api/user/register"
	loginPath       = "/api/user/login"
	syncPath        = "/api/sync"
	initialSyncPath = "/api/sync/initial"
	versionPath     = "/api/version"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	token  string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the HTTP/REST implementation of
// [ServerAdapter]. The base URL is taken from adapterCfg.HTTPAddress; a
// missing scheme defaults to http.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL := utils.NormalizeBaseURL(adapterCfg.HTTPAddress)
	if baseURL == "" {
		return nil, fmt.Errorf("invalid adapter http address: %q", adapterCfg.HTTPAddress)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: logger,
	}, nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	return h.token
}

// Register POSTs the credentials to /api/user/register. The token is read
// from the Authorization response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.Session, error) {
	return h.authenticate(ctx, registerPath, user)
}

// Login POSTs the credentials to /api/user/login.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Session, error) {
	return h.authenticate(ctx, loginPath, user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.Session, error) {
	log := h.logger.With().Str("func", "httpServerAdapter.authenticate").Str("path", path).Logger()

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post(path)
	if err != nil {
		log.Err(err).Msg("request failed")
		return models.Session{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrMissingToken, err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.Session{}, fmt.Errorf("parse user id from token: %w", err)
	}

	h.SetToken(token)
	return models.Session{UserID: userID, Username: user.Username, Token: token}, nil
}

// Sync POSTs one round to /api/sync.
func (h *httpServerAdapter) Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	var syncResponse models.SyncResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&syncResponse).
		Post(syncPath)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("sync request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResponse{}, err
	}

	h.logger.Debug().
		Str("func", "httpServerAdapter.Sync").
		Int("submitted", len(req.Logs)).
		Int("results", len(syncResponse.Results)).
		Int("changes", len(syncResponse.Changes)).
		Int64("sync_time_stamp", syncResponse.SyncTimeStamp).
		Msg("sync round completed")

	return syncResponse, nil
}

// InitialSync GETs /api/sync/initial.
func (h *httpServerAdapter) InitialSync(ctx context.Context) (models.SyncResponse, error) {
	var syncResponse models.SyncResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&syncResponse).
		Get(initialSyncPath)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("initial sync request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResponse{}, err
	}

	return syncResponse, nil
}

// Version GETs /api/version.
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	var body struct {
		Version string `json:"version"`
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(versionPath)
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return body.Version, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
