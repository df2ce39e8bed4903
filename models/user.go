package models

import "fmt"

// User is a profile record. Users act as a shared directory: every user
// change is replicated to everyone, with the sensitive fields masked for
// foreign readers.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`

	// Password holds the bcrypt hash once stored server-side. The plain-text
	// value only travels in register and login requests.
	Password string `json:"password,omitempty"`

	Nickname string `json:"nickname,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Timestamps
}

// SensitiveUserFields lists the user attributes that are never shown to a
// different user.
var SensitiveUserFields = []string{"username", "password", "phone", "email"}

func (u *User) TableName() string { return "users" }

func (u *User) PrimaryKey() string { return u.ID }

func (u *User) SetPrimaryKey(id string) { u.ID = id }

func (u *User) Columns() []string {
	return []string{"id", "username", "password", "nickname", "phone", "email", "avatar", "created_at", "updated_at"}
}

func (u *User) Values() []any {
	return []any{u.ID, u.Username, u.Password, u.Nickname, u.Phone, u.Email, u.Avatar, u.CreatedAt, u.UpdatedAt}
}

// ImmutableColumns keeps credentials out of replicated updates; they only
// change through registration.
func (u *User) ImmutableColumns() []string {
	return []string{"username", "password", "created_at"}
}

// Validate checks a replicated profile snapshot. New accounts come from
// registration, which also requires a username.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if u.Username == "" && u.Nickname == "" {
		return fmt.Errorf("%w: username or nickname", ErrMissingField)
	}
	return nil
}
