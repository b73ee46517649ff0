package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
	"github.com/saidulalimallick04/smart-to-do-api/internal/dto"
	"github.com/saidulalimallick04/smart-to-do-api/internal/repository"
	"github.com/saidulalimallick04/smart-to-do-api/internal/token"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register registers a new user and returns the stored record
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	// Login authenticates a user and issues a token pair
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error)
	// Refresh exchanges a valid refresh token for a new access token,
	// rotating the refresh token only when it is close to expiry
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Authenticate validates an access token and resolves its subject
	Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error)
	// GetUser retrieves user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	codec    *token.Codec
	config   *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	codec *token.Codec,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = 12
	}
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &authService{
		userRepo: userRepo,
		codec:    codec,
		config:   config,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	// Check if user already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "user already exists")
		return nil, ErrUserAlreadyExists
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Create user
	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	return user, nil
}

// Login authenticates a user
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is rotated only when its remaining lifetime drops
// below the rotation threshold; otherwise the presented token is returned
// unchanged so that back-to-back refreshes stay idempotent.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh")
	defer span.End()

	claims, err := s.codec.ParseTyped(refreshToken, token.TypeRefresh)
	if err != nil {
		span.SetStatus(codes.Error, "invalid refresh token")
		return nil, ErrInvalidToken
	}

	span.SetAttributes(attribute.String("user_id", claims.Subject))

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "subject no longer exists")
		return nil, ErrInvalidToken
	}

	accessToken, err := s.codec.Issue(user.ID, user.Email, token.TypeAccess, s.config.AccessTokenTTL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	newRefresh := refreshToken
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < s.rotationThreshold() {
		newRefresh, err = s.codec.Issue(user.ID, user.Email, token.TypeRefresh, s.config.RefreshTokenTTL)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.SetAttributes(attribute.Bool("refresh_rotated", true))
	}

	span.SetStatus(codes.Ok, "")

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    int64(s.config.AccessTokenTTL.Seconds()),
	}, nil
}

// Authenticate validates an access token and resolves its subject
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.authenticate")
	defer span.End()

	claims, err := s.codec.ParseTyped(accessToken, token.TypeAccess)
	if err != nil {
		span.SetStatus(codes.Error, "invalid access token")
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "subject no longer exists")
		return nil, ErrInvalidToken
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	return &domain.Identity{UserID: user.ID, Email: user.Email}, nil
}

// GetUser retrieves user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_user")
	defer span.End()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// rotationThreshold is the remaining lifetime below which a refresh token
// gets replaced. It sits two days short of the full refresh TTL, floored
// at one day so short-lived configurations still rotate near expiry.
func (s *authService) rotationThreshold() time.Duration {
	threshold := s.config.RefreshTokenTTL - 48*time.Hour
	if threshold < 24*time.Hour {
		threshold = 24 * time.Hour
	}
	return threshold
}

func (s *authService) issueTokenPair(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.codec.Issue(user.ID, user.Email, token.TypeAccess, s.config.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.Issue(user.ID, user.Email, token.TypeRefresh, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenTTL.Seconds()),
	}, nil
}
