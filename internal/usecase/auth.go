package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/metrics"
	"github.com/ErlanBelekov/data-drive/internal/repository"
)

const tokenTypeBearer = "bearer"

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (domain.Identity, error)
}

type AuthUsecase struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	verifier TokenVerifier
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	verifier TokenVerifier,
	tokenTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Signup stores a new user. It does not log the user in.
func (u *AuthUsecase) Signup(ctx context.Context, email, password string) error {
	start := time.Now()
	hash, err := u.hasher.Hash(password)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return fmt.Errorf("hash password: %w", err)
	}

	err = u.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    u.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "duplicate").Inc()
			return domain.ErrDuplicateEmail
		}
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return fmt.Errorf("create user: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
	return nil
}

// Login returns a self-issued bearer token. An unknown email and a wrong
// password both yield domain.ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	user, found, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !found {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	start := time.Now()
	ok := u.hasher.Verify(password, user.PasswordHash)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	signed, expiresAt, err := u.issuer.Issue(user.Email, u.tokenTTL)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &domain.Token{
		AccessToken: signed,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate gates protected operations. Any failure wraps
// domain.ErrUnauthorized.
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	id, err := u.verifier.Verify(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			err = fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		return domain.Identity{}, err
	}
	return id, nil
}
