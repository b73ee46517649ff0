package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/response"
)

const (
	// IdentityKey is the context key for the resolved caller identity
	IdentityKey = "identity"
)

// Authenticator resolves an access token into a caller identity
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error)
}

// RequireAuth validates the bearer token and sets the caller identity in
// context. Every failure mode produces the same 401 so a caller cannot
// probe which check rejected the token.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c)
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c)
			return
		}
		token := authHeader[len(bearerPrefix):]
		if token == "" {
			abortUnauthorized(c)
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil || identity == nil {
			abortUnauthorized(c)
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// GetIdentity returns the caller identity from context, or nil when the
// request did not pass RequireAuth
func GetIdentity(c *gin.Context) *domain.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if identity, ok := v.(*domain.Identity); ok {
			return identity
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
		Success: false,
		Error: &response.ErrorData{
			Code:    "UNAUTHORIZED",
			Message: "Could not validate credentials",
		},
	})
}
