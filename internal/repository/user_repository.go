package repository

import (
	"context"

	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
)

// UserRepository defines user persistence operations. Implementations must
// be safe for concurrent reads; lookups return (nil, nil) when no record
// matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id string) error
}
