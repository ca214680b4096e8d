package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose tells confirmation tokens apart from password-reset tokens
type TokenPurpose string

const (
	TokenConfirmAccount TokenPurpose = "confirm_account"
	TokenResetPassword  TokenPurpose = "reset_password"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Hidden from JSON responses
	Name         string    `json:"name" db:"name"`
	Confirmed    bool      `json:"confirmed" db:"confirmed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserFields are the validated inputs needed to create a user
type UserFields struct {
	Name         string
	Email        string
	PasswordHash string
	Confirmed    bool
}

// NewUser builds an unsaved user with a fresh id
func NewUser(f UserFields, now time.Time) *User {
	return &User{
		ID:           uuid.New(),
		Email:        f.Email,
		PasswordHash: f.PasswordHash,
		Name:         f.Name,
		Confirmed:    f.Confirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Confirm marks the account as confirmed
func (u *User) Confirm(now time.Time) {
	u.Confirmed = true
	u.UpdatedAt = now
}

// SetPassword replaces the stored hash
func (u *User) SetPassword(hash string, now time.Time) {
	u.PasswordHash = hash
	u.UpdatedAt = now
}

// Token is a one-time code sent by email
type Token struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	Token     string       `json:"token" db:"token"`
	UserID    uuid.UUID    `json:"user_id" db:"user_id"`
	Purpose   TokenPurpose `json:"purpose" db:"purpose"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
}

// NewToken builds an unsaved token that expires ttl after now
func NewToken(userID uuid.UUID, value string, purpose TokenPurpose, ttl time.Duration, now time.Time) *Token {
	return &Token{
		ID:        uuid.New(),
		Token:     value,
		UserID:    userID,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the token is no longer redeemable at now
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
