package repository

import (
	"context"

	"github.com/ErlanBelekov/data-drive/internal/domain"
)

type UserRepository interface {
	// Create fails with domain.ErrDuplicateEmail when the email is taken.
	// Uniqueness is enforced by the store, not by a prior lookup.
	Create(ctx context.Context, user *domain.User) error
	// FindByEmail reports absence through found=false with a nil error.
	FindByEmail(ctx context.Context, email string) (user *domain.User, found bool, err error)
}
