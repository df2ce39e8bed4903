package service

import "errors"

// Per-entry sync failures. The coordinator stores err.Error() as the entry's
// syncError, so the messages are part of what devices see.
var (
	// ErrUnsupportedBusinessType is returned for entries whose business type
	// has no registered handler. Attachments always end up here.
	ErrUnsupportedBusinessType = errors.New("unsupported business type")

	// ErrUnsupportedOperateType is returned for an unknown operateType.
	ErrUnsupportedOperateType = errors.New("unsupported operate type")

	// ErrMalformedPayload is returned when operateData or businessId do not
	// match the shape expected by the target store.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrOperatorMismatch is returned when an entry claims to be performed
	// by a different user than the authenticated caller.
	ErrOperatorMismatch = errors.New("operator does not match the authenticated user")

	// ErrUserCreateNotReplicated is returned for user create entries; users
	// only come into existence through registration.
	ErrUserCreateNotReplicated = errors.New("users are created by registration only")
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("version is not specified")

	// ErrNoUserID is returned when a sync round is requested without an
	// authenticated user.
	ErrNoUserID = errors.New("no user ID was given")
)

// Device client errors.
var (
	ErrRegisterOnServer = errors.New("registration on server failed")
	ErrLoginOnServer    = errors.New("login on server failed")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrSyncOnServer     = errors.New("sync on server failed")
)
