package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/internal/utils"
	"github.com/MKhiriev/ledger-sync/models"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and JWT token
// lifecycle. Passwords are stored as bcrypt hashes.
type authService struct {
	transactor store.Transactor
	users      store.UserRepository
	logEntries store.LogEntryRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	ids idGenerator
	now func() time.Time

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the user and log
// entry repositories and populated with token parameters from cfg.
func NewAuthService(storages *store.Storages, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		transactor:    storages.Transactor,
		users:         storages.Users,
		logEntries:    storages.LogEntries,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		ids:           utils.NewUUIDGenerator(),
		now:           time.Now,
		logger:        logger,
	}
}

// Register creates a new user account.
//
// The user row and a synced "user create" log entry are written in one
// transaction, so the new profile reaches other devices through the regular
// change stream from the first sync on. The password hash never enters the
// log entry.
//
// Returns the persisted user without its password or:
//   - ErrInvalidDataProvided if Username or Password is empty.
//   - store.ErrUsernameAlreadyExists if the username is taken.
func (a *authService) Register(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Username == "" || user.Password == "" {
		log.Error().Str("username", user.Username).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Str("func", "authService.Register").Msg("failed to hash password")
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := a.now()
	user.ID = a.ids.Generate()
	user.CreatedAt = now.UnixMilli()
	user.UpdatedAt = user.CreatedAt

	public := user
	public.Password = ""
	entry, err := a.registrationEntry(public, now)
	if err != nil {
		return models.User{}, err
	}

	user.Password = string(hash)
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context, q store.Querier) error {
		if err := a.users.CreateUser(ctx, q, user); err != nil {
			return err
		}
		return a.logEntries.Insert(ctx, q, entry)
	})
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return public, nil
}

func (a *authService) registrationEntry(user models.User, now time.Time) (models.LogEntry, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("encoding user payload: %w", err)
	}

	entry := models.LogEntry{
		ID:           a.ids.Generate(),
		BusinessType: models.BusinessTypeUser,
		OperateType:  models.OperateTypeCreate,
		OperatorID:   user.ID,
		OperatedAt:   now.UnixMilli(),
		BusinessID:   models.NewBusinessID(user.ID),
		OperateData:  string(payload),
		SyncState:    models.SyncStateUnsynced,
	}
	if err = entry.MarkSynced(now); err != nil {
		return models.LogEntry{}, err
	}

	return entry, nil
}

// Login authenticates an existing user.
//
// Returns the stored user record without its password hash or:
//   - ErrInvalidDataProvided if Username or Password is empty.
//   - store.ErrUserNotFound if no such user exists.
//   - ErrWrongPassword if the password does not match.
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Username == "" || user.Password == "" {
		log.Error().Str("username", user.Username).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.users.FindUserByUsername(ctx, user.Username)
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("user search by username failed")
		return models.User{}, fmt.Errorf("user search by username failed: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(user.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		log.Warn().Str("id", foundUser.ID).Str("username", foundUser.Username).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}
	if err != nil {
		log.Err(err).Str("id", foundUser.ID).Msg("stored password hash is unusable")
		return models.User{}, fmt.Errorf("comparing password: %w", err)
	}

	foundUser.Password = ""
	return foundUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect low-level
// JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
