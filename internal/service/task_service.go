package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
	"github.com/saidulalimallick04/smart-to-do-api/internal/dto"
	"github.com/saidulalimallick04/smart-to-do-api/internal/enrich"
	"github.com/saidulalimallick04/smart-to-do-api/internal/repository"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskService defines the interface for task operations. Every method is
// scoped to the owner: a task belonging to another user is indistinguishable
// from a task that does not exist.
type TaskService interface {
	Create(ctx context.Context, ownerID string, req *dto.CreateTaskRequest) (*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
	List(ctx context.Context, ownerID string, query *dto.ListTasksQuery) ([]*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID string, req *dto.UpdateTaskRequest) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

// taskService implements TaskService
type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// Create creates a task for the owner, enriching priority and tags from
// keywords found in the title and description
func (s *taskService) Create(ctx context.Context, ownerID string, req *dto.CreateTaskRequest) (*domain.Task, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.task.create")
	defer span.End()

	span.SetAttributes(attribute.String("owner_id", ownerID))

	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
	}

	suggested, tags := enrich.Enhance(req.Title, req.Description, req.Tags)
	// A priority picked by the user wins over the keyword suggestion.
	if priority == domain.PriorityMedium {
		priority = suggested
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: false,
		Priority:    priority,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("task_id", task.ID))
	span.SetStatus(codes.Ok, "")

	return task, nil
}

// Get retrieves a task owned by the caller
func (s *taskService) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.task.get")
	defer span.End()

	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return task, nil
}

// List retrieves the owner's tasks, newest first
func (s *taskService) List(ctx context.Context, ownerID string, query *dto.ListTasksQuery) ([]*domain.Task, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.task.list")
	defer span.End()

	span.SetAttributes(attribute.String("owner_id", ownerID))

	filter := repository.TaskFilter{
		Priority:    query.Priority,
		IsCompleted: query.IsCompleted,
		Skip:        query.Skip,
		Limit:       query.Limit,
	}

	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(tasks)))
	span.SetStatus(codes.Ok, "")

	return tasks, nil
}

// Update applies partial changes to a task owned by the caller
func (s *taskService) Update(ctx context.Context, ownerID, taskID string, req *dto.UpdateTaskRequest) (*domain.Task, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.task.update")
	defer span.End()

	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}
	if req.Priority != nil {
		task.Priority = domain.Priority(*req.Priority)
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return task, nil
}

// Delete removes a task owned by the caller
func (s *taskService) Delete(ctx context.Context, ownerID, taskID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.task.delete")
	defer span.End()

	if _, err := s.ownedTask(ctx, ownerID, taskID); err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ownedTask loads a task and verifies ownership. Missing and foreign tasks
// collapse into the same ErrTaskNotFound.
func (s *taskService) ownedTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.OwnerID != ownerID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}
