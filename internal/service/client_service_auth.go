package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/ledger-sync/internal/adapter"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/models"
)

type clientAuthService struct {
	sessions store.LocalSessionRepository
	adapter  adapter.ServerAdapter
}

func NewClientAuthService(localStore *store.ClientStorages, serverAdapter adapter.ServerAdapter) ClientAuthService {
	return &clientAuthService{sessions: localStore.Sessions, adapter: serverAdapter}
}

func (a *clientAuthService) Register(ctx context.Context, user models.User) (models.Session, error) {
	session, err := a.adapter.Register(ctx, user)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrRegisterOnServer, mapAdapterError(err))
	}

	return a.save(ctx, session)
}

func (a *clientAuthService) Login(ctx context.Context, user models.User) (models.Session, error) {
	session, err := a.adapter.Login(ctx, user)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrLoginOnServer, mapAdapterError(err))
	}

	return a.save(ctx, session)
}

func (a *clientAuthService) Session(ctx context.Context) (models.Session, error) {
	session, err := a.sessions.Session(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.Session{}, ErrNotLoggedIn
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}

	a.adapter.SetToken(session.Token)
	return session, nil
}

func (a *clientAuthService) save(ctx context.Context, session models.Session) (models.Session, error) {
	if err := a.sessions.SaveSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "clientAuthService.save").
		Str("user_id", session.UserID).
		Msg("session stored")

	return session, nil
}
