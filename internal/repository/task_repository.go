package repository

import (
	"context"

	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
)

// TaskFilter narrows List results. Zero values mean "no filter".
type TaskFilter struct {
	Priority    string
	IsCompleted *bool
	Skip        int
	Limit       int
}

// TaskRepository defines the interface for task data access.
// Query methods return (nil, nil) when no record matches.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID string, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
