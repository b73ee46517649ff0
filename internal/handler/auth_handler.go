package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saidulalimallick04/smart-to-do-api/internal/dto"
	"github.com/saidulalimallick04/smart-to-do-api/internal/middleware"
	"github.com/saidulalimallick04/smart-to-do-api/internal/service"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if valid, msg := req.ValidateEmail(); !valid {
		response.Error(c, 400, "VALIDATION_ERROR", msg, "")
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.Error(c, 400, "VALIDATION_ERROR", msg, "")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.Error(c, 400, "USER_EXISTS", "Email already registered", "")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, 401, "INVALID_CREDENTIALS", "Incorrect email or password", "")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, tokenResponse(pair.AccessToken, pair.RefreshToken, pair.ExpiresIn))
}

// Refresh handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, "Could not validate credentials")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, tokenResponse(pair.AccessToken, pair.RefreshToken, pair.ExpiresIn))
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, "Could not validate credentials")
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}

func tokenResponse(access, refresh string, expiresIn int64) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    expiresIn,
	}
}
