package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/database"
)

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	db *database.PostgresDB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Landing returns the API welcome message
// GET /
func (h *HealthHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Smart To Do API",
	})
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "smart-to-do-api",
	})
}

// Ready checks if the service is ready to accept traffic
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not_ready",
			"service":  "smart-to-do-api",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"service":  "smart-to-do-api",
		"database": "connected",
	})
}
