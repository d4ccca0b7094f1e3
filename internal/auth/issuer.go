package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewIssuer fails on an empty secret or an algorithm outside HS256/384/512.
// Callers treat that as a startup fault.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	method, err := cfg.signingMethod()
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return &Issuer{secret: cfg.Secret, method: method, now: o.now}, nil
}

// Issue signs a token for subject that stops being valid at now+ttl.
func (i *Issuer) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign jwt: %w", err)
	}
	return signed, expiresAt, nil
}
