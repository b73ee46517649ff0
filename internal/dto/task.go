package dto

import (
	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
)

// CreateTaskRequest represents task creation request
type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required,min=1"`
	Description string   `json:"description"`
	Priority    string   `json:"priority" binding:"omitempty,oneof=low medium high"`
	Tags        []string `json:"tags"`
}

// UpdateTaskRequest represents a partial task update; nil fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1"`
	Description *string   `json:"description"`
	IsCompleted *bool     `json:"is_completed"`
	Priority    *string   `json:"priority" binding:"omitempty,oneof=low medium high"`
	Tags        *[]string `json:"tags"`
}

// ListTasksQuery represents list filters and pagination
type ListTasksQuery struct {
	Skip        int    `form:"skip,default=0" binding:"omitempty,min=0"`
	Limit       int    `form:"limit,default=100" binding:"omitempty,min=1,max=500"`
	Priority    string `form:"priority" binding:"omitempty,oneof=low medium high"`
	IsCompleted *bool  `form:"is_completed"`
}

// TaskResponse represents task data in responses
type TaskResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	IsCompleted bool     `json:"is_completed"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
}

// NewTaskResponse converts a Task to its response shape
func NewTaskResponse(task *domain.Task) TaskResponse {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		Priority:    string(task.Priority),
		Tags:        tags,
		CreatedAt:   task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
