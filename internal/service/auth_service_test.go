package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
	"github.com/saidulalimallick04/smart-to-do-api/internal/dto"
	"github.com/saidulalimallick04/smart-to-do-api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	users     map[string]*domain.User
	emailToID map[string]string
	createErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:     make(map[string]*domain.User),
		emailToID: make(map[string]string),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[user.ID] = user
	m.emailToID[user.Email] = user.ID
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := m.emailToID[email]
	if !ok {
		return nil, nil
	}
	return m.users[id], nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.emailToID[email]
	return ok, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if user, ok := m.users[id]; ok {
		delete(m.emailToID, user.Email)
		delete(m.users, id)
	}
	return nil
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("test-secret", "HS256")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return codec
}

func newTestAuthService(t *testing.T, refreshTTL time.Duration) (AuthService, *MockUserRepository, *token.Codec) {
	t.Helper()
	repo := NewMockUserRepository()
	codec := newTestCodec(t)
	svc := NewAuthService(repo, codec, &AuthServiceConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: refreshTTL,
		BcryptCost:      bcrypt.MinCost,
	})
	return svc, repo, codec
}

func registerAndLogin(t *testing.T, svc AuthService) *domain.TokenPair {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "a@example.com",
		Password: "longenoughpassword",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	pair, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "a@example.com",
		Password: "longenoughpassword",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return pair
}

func TestAuthService_Register(t *testing.T) {
	svc, repo, _ := newTestAuthService(t, 7*24*time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "a@example.com",
		Password: "longenoughpassword",
		FullName: "Ada",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Register returned empty ID")
	}
	if user.Email != "a@example.com" || user.FullName != "Ada" {
		t.Errorf("Register returned %q/%q", user.Email, user.FullName)
	}

	// Stored user must have a bcrypt hash, never the plaintext
	stored := repo.users[user.ID]
	if stored == nil {
		t.Fatal("user not stored")
	}
	if stored.PasswordHash == "longenoughpassword" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenoughpassword")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	// Duplicate email is rejected
	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Email:    "a@example.com",
		Password: "longenoughpassword",
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("duplicate Register error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newTestAuthService(t, 7*24*time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "a@example.com",
		Password: "longenoughpassword",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "a@example.com", password: "longenoughpassword", wantErr: nil},
		{name: "wrong password", email: "a@example.com", password: "wrongpassword123", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: "longenoughpassword", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if pair.AccessToken == "" || pair.RefreshToken == "" {
				t.Error("Login returned empty tokens")
			}
		})
	}
}

func TestAuthService_Refresh_NoRotationFarFromExpiry(t *testing.T) {
	// With a 7 day TTL the rotation threshold is 5 days. A freshly issued
	// refresh token has about 7 days remaining, so it must come back
	// byte-identical.
	svc, _, _ := newTestAuthService(t, 7*24*time.Hour)
	ctx := context.Background()

	pair := registerAndLogin(t, svc)

	refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("Refresh returned empty access token")
	}
	if refreshed.RefreshToken != pair.RefreshToken {
		t.Error("refresh token was rotated while far from expiry")
	}

	// Refresh is idempotent until the threshold is crossed
	again, err := svc.Refresh(ctx, refreshed.RefreshToken)
	if err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	if again.RefreshToken != pair.RefreshToken {
		t.Error("second refresh rotated the token")
	}
}

func TestAuthService_Refresh_RotatesNearExpiry(t *testing.T) {
	// With a 2 day TTL the threshold floors at 1 day. A token holding only
	// 12 hours of remaining life falls below it and must be replaced.
	svc, repo, codec := newTestAuthService(t, 2*24*time.Hour)
	ctx := context.Background()

	pair := registerAndLogin(t, svc)
	claims, err := codec.ParseTyped(pair.RefreshToken, token.TypeRefresh)
	if err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}

	// Hand-issue a near-expiry refresh token for the same subject
	user := repo.users[claims.Subject]
	nearExpiry, err := codec.Issue(user.ID, user.Email, token.TypeRefresh, 12*time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, nearExpiry)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.RefreshToken == nearExpiry {
		t.Fatal("refresh token was not rotated near expiry")
	}

	// The replacement carries the full refresh TTL
	newClaims, err := codec.ParseTyped(refreshed.RefreshToken, token.TypeRefresh)
	if err != nil {
		t.Fatalf("rotated refresh token invalid: %v", err)
	}
	remaining := time.Until(newClaims.ExpiresAt.Time)
	if remaining < 47*time.Hour {
		t.Errorf("rotated token remaining lifetime = %v, want ~48h", remaining)
	}
}

func TestAuthService_Refresh_Rejections(t *testing.T) {
	svc, repo, codec := newTestAuthService(t, 7*24*time.Hour)
	ctx := context.Background()

	pair := registerAndLogin(t, svc)

	t.Run("access token in refresh position", func(t *testing.T) {
		if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Refresh(access) error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired refresh token", func(t *testing.T) {
		expired, err := codec.Issue("user-x", "", token.TypeRefresh, -time.Second)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := svc.Refresh(ctx, expired); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Refresh(expired) error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		if _, err := svc.Refresh(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Refresh(malformed) error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("refresh token without expiry", func(t *testing.T) {
		claims, err := codec.ParseTyped(pair.RefreshToken, token.TypeRefresh)
		if err != nil {
			t.Fatalf("refresh token invalid: %v", err)
		}
		// A correctly signed token that simply omits exp must be rejected,
		// not treated as valid forever.
		unbounded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  claims.Subject,
			"type": string(token.TypeRefresh),
		}).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		if _, err := svc.Refresh(ctx, unbounded); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Refresh(no expiry) error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("deleted subject", func(t *testing.T) {
		claims, err := codec.ParseTyped(pair.RefreshToken, token.TypeRefresh)
		if err != nil {
			t.Fatalf("refresh token invalid: %v", err)
		}
		if err := repo.Delete(ctx, claims.Subject); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Refresh(deleted subject) error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, repo, _ := newTestAuthService(t, 7*24*time.Hour)
	ctx := context.Background()

	pair := registerAndLogin(t, svc)

	identity, err := svc.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if identity.Email != "a@example.com" {
		t.Errorf("identity email = %q, want %q", identity.Email, "a@example.com")
	}

	// Refresh token in access position is rejected
	if _, err := svc.Authenticate(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Authenticate(refresh) error = %v, want ErrInvalidToken", err)
	}

	// Cross-key token is rejected
	other, err := token.NewCodec("other-secret", "HS256")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	forged, err := other.Issue(identity.UserID, identity.Email, token.TypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Authenticate(forged) error = %v, want ErrInvalidToken", err)
	}

	// Deleted subject is rejected even with a valid signature
	if err := repo.Delete(ctx, identity.UserID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Authenticate(deleted subject) error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	svc, _, _ := newTestAuthService(t, 7*24*time.Hour)
	ctx := context.Background()

	// Register returns the identity with no hash material
	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "alice@example.test",
		Password: "longenoughpassword",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Same email again is rejected
	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "alice@example.test",
		Password: "longenoughpassword",
	}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("duplicate Register error = %v, want ErrUserAlreadyExists", err)
	}

	// Wrong password fails the same way as an unknown user
	if _, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.test",
		Password: "nottherightone",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad Login error = %v, want ErrInvalidCredentials", err)
	}

	pair, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.test",
		Password: "longenoughpassword",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// The access token resolves back to the registered user
	identity, err := svc.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if identity.UserID != user.ID {
		t.Errorf("identity = %q, want %q", identity.UserID, user.ID)
	}

	// The access token cannot drive a refresh
	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Refresh(access) error = %v, want ErrInvalidToken", err)
	}

	// The refresh token yields a usable new access token
	refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, refreshed.AccessToken); err != nil {
		t.Errorf("refreshed access token rejected: %v", err)
	}
}

func TestAuthService_RotationThreshold(t *testing.T) {
	tests := []struct {
		name       string
		refreshTTL time.Duration
		want       time.Duration
	}{
		{name: "week long TTL", refreshTTL: 7 * 24 * time.Hour, want: 5 * 24 * time.Hour},
		{name: "two day TTL", refreshTTL: 2 * 24 * time.Hour, want: 24 * time.Hour},
		{name: "one day TTL floors at a day", refreshTTL: 24 * time.Hour, want: 24 * time.Hour},
		{name: "hour long TTL floors at a day", refreshTTL: time.Hour, want: 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &authService{config: &AuthServiceConfig{RefreshTokenTTL: tt.refreshTTL}}
			if got := svc.rotationThreshold(); got != tt.want {
				t.Errorf("rotationThreshold() = %v, want %v", got, tt.want)
			}
		})
	}
}
