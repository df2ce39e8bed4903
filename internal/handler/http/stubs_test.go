package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/service"
	"github.com/MKhiriev/ledger-sync/models"
)

type stubAuthService struct {
	registerFn    func(ctx context.Context, user models.User) (models.User, error)
	loginFn       func(ctx context.Context, user models.User) (models.User, error)
	createTokenFn func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn  func(ctx context.Context, tokenString string) (models.Token, error)
}

func (s *stubAuthService) Register(ctx context.Context, user models.User) (models.User, error) {
	return s.registerFn(ctx, user)
}

func (s *stubAuthService) Login(ctx context.Context, user models.User) (models.User, error) {
	return s.loginFn(ctx, user)
}

func (s *stubAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	if s.createTokenFn == nil {
		return models.Token{SignedString: "signed-" + user.ID, UserID: user.ID}, nil
	}
	return s.createTokenFn(ctx, user)
}

func (s *stubAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if s.parseTokenFn == nil {
		return models.Token{SignedString: tokenString, UserID: "user-a"}, nil
	}
	return s.parseTokenFn(ctx, tokenString)
}

type stubSyncService struct {
	syncFn        func(ctx context.Context, userID string, req models.SyncRequest) (models.SyncResponse, error)
	initialSyncFn func(ctx context.Context, userID string) (models.SyncResponse, error)
}

func (s *stubSyncService) Sync(ctx context.Context, userID string, req models.SyncRequest) (models.SyncResponse, error) {
	return s.syncFn(ctx, userID, req)
}

func (s *stubSyncService) InitialSync(ctx context.Context, userID string) (models.SyncResponse, error) {
	return s.initialSyncFn(ctx, userID)
}

type stubAppInfoService struct {
	version string
}

func (s *stubAppInfoService) GetAppVersion(context.Context) string {
	return s.version
}

func newTestHandlerWith(auth service.AuthService, sync service.SyncService) *Handler {
	return NewHandler(&service.Services{
		AuthService:    auth,
		SyncService:    sync,
		AppInfoService: &stubAppInfoService{version: "test-version"},
	}, config.Server{}, logger.Nop())
}

// injectNopLogger attaches a discarding logger the way withTraceID does.
func injectNopLogger(r *http.Request) *http.Request {
	return r.WithContext(logger.Nop().WithContext(r.Context()))
}
