package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT token with convenience accessors for authentication flows.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers or stored
// on the device.
//
// UserID is a cached copy of the "sub" claim, populated during parsing.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact token representation sent as a bearer token.
	SignedString string `json:"-"`

	// UserID is the identifier of the user the token was issued for.
	UserID string `json:"-"`
}

// GetUserID returns the subject claim, which holds the user id.
func (t *Token) GetUserID() (string, error) {
	userID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting UserID from token: %w", err)
	}

	return userID, nil
}

func (t *Token) String() string {
	return t.SignedString
}
