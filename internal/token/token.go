// Package token signs and verifies the bearer tokens used for sessions.
// Tokens are self-contained: subject, type and expiry travel in the claims,
// so verification never needs a database round-trip.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type discriminates access tokens from refresh tokens. The type claim is
// checked by every consumer; an access token never grants refresh semantics
// and vice versa.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrWrongType        = errors.New("unexpected token type")
)

// Claims is the JWT payload carried by both token types
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	TokenType Type   `json:"type"`
}

// Codec issues and parses signed tokens with a single process-wide secret.
// Rotating the secret invalidates every outstanding token; that is the only
// revocation mechanism in this design.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec creates a Codec for the given secret and HMAC algorithm name
// (HS256, HS384 or HS512).
func NewCodec(secret, algorithm string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}

	method := jwt.GetSigningMethod(strings.ToUpper(algorithm))
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %s", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}

	return &Codec{
		secret: []byte(secret),
		method: method,
	}, nil
}

// Issue signs a token of the given type for the subject, expiring after ttl.
func (c *Codec) Issue(subject, email string, typ Type, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		TokenType: typ,
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Parse verifies the token signature and expiry and returns its claims.
// Failures map to exactly one of ErrMalformed, ErrSignatureInvalid or
// ErrExpired; callers at the HTTP boundary must collapse all of them into
// one uniform rejection.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrMalformed
		}
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformed
	}

	return claims, nil
}

// ParseTyped parses the token and additionally enforces the expected type.
func (c *Codec) ParseTyped(tokenString string, expected Type) (*Claims, error) {
	claims, err := c.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != expected {
		return nil, ErrWrongType
	}
	return claims, nil
}
