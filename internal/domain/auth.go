package domain

import (
	"errors"
	"time"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("invalid or expired token")
	ErrStorage            = errors.New("storage error")
)

// User is keyed by Email exactly as it was submitted at signup.
type User struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type TokenSource string

const (
	TokenSourceSelf     TokenSource = "self"
	TokenSourceExternal TokenSource = "external"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	Subject string
	Source  TokenSource
}

type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}
