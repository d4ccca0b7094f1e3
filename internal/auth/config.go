// Package auth holds the credential primitives: bcrypt password hashing,
// self-issued JWT signing, and the verifier that accepts either a
// self-issued token or one from the trusted external identity provider.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 60 * time.Minute

var (
	ErrEmptySecret          = errors.New("auth: signing secret is empty")
	ErrUnsupportedAlgorithm = errors.New("auth: unsupported signing algorithm")
)

// Config is fixed at startup and never mutated afterwards.
type Config struct {
	Secret    []byte
	Algorithm string
	TokenTTL  time.Duration

	// TenantID and ClientID describe the trusted external issuer. Each check
	// runs only when its identifier is set.
	TenantID string
	ClientID string

	// StrictExternal drops the external path when neither TenantID nor
	// ClientID is set. Off by default.
	StrictExternal bool

	// IdentityClaims overrides DefaultIdentityClaims when non-nil.
	IdentityClaims []ClaimExtractor
}

func (c Config) signingMethod() (jwt.SigningMethod, error) {
	if len(c.Secret) == 0 {
		return nil, ErrEmptySecret
	}
	switch c.Algorithm {
	case "", jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.Algorithm)
	}
}

// AccessTTL is the lifetime of tokens issued at login: TokenTTL, or
// DefaultTokenTTL when unset.
func (c Config) AccessTTL() time.Duration {
	if c.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c Config) externalEnabled() bool {
	return !c.StrictExternal || c.TenantID != "" || c.ClientID != ""
}

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock replaces time.Now for signing and validation.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
