package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
)

// PostgresTaskRepository implements TaskRepository using PostgreSQL
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Create creates a new task
func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, owner_id, title, description, is_completed, priority, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.IsCompleted,
		task.Priority,
		task.Tags,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return err
}

// GetByID retrieves a task by ID
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `
		SELECT id, owner_id, title, description, is_completed, priority, tags, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	task := &domain.Task{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.IsCompleted,
		&task.Priority,
		&task.Tags,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// ListByOwner retrieves tasks belonging to the owner, newest first
func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, ownerID string, filter TaskFilter) ([]*domain.Task, error) {
	query := `
		SELECT id, owner_id, title, description, is_completed, priority, tags, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
	`
	args := []interface{}{ownerID}

	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.IsCompleted != nil {
		args = append(args, *filter.IsCompleted)
		query += fmt.Sprintf(" AND is_completed = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task := &domain.Task{}
		err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&task.Description,
			&task.IsCompleted,
			&task.Priority,
			&task.Tags,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Update updates an existing task
func (r *PostgresTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, is_completed = $4, priority = $5, tags = $6, updated_at = $7
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.IsCompleted,
		task.Priority,
		task.Tags,
		task.UpdatedAt,
	)
	return err
}

// Delete deletes a task
func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
