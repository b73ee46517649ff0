package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
	"github.com/saidulalimallick04/smart-to-do-api/internal/dto"
	"github.com/saidulalimallick04/smart-to-do-api/internal/middleware"
	"github.com/saidulalimallick04/smart-to-do-api/internal/service"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/response"
)

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles task creation
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, dto.NewTaskResponse(task))
}

// taskID validates the :id path param before it reaches the database.
// A non-UUID id can never match a task, so it gets the same 404 a missing
// task does instead of a cast error from Postgres.
func taskID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.NotFound(c, "Task not found")
		return "", false
	}
	return id, true
}

// Get handles retrieving a single task
// GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			response.NotFound(c, "Task not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, dto.NewTaskResponse(task))
}

// List handles listing the caller's tasks
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	var query dto.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), identity.UserID, &query)
	if err != nil {
		response.InternalError(c)
		return
	}

	items := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, dto.NewTaskResponse(task))
	}

	response.Success(c, items)
}

// Update handles partial task updates
// PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Priority != nil && !domain.Priority(*req.Priority).Valid() {
		response.BadRequest(c, "invalid priority")
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), identity.UserID, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			response.NotFound(c, "Task not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, dto.NewTaskResponse(task))
}

// Delete handles task deletion
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			response.NotFound(c, "Task not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, gin.H{"message": "Task deleted"})
}
