package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret", "HS256")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return codec
}

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantErr   bool
	}{
		{name: "HS256", secret: "s", algorithm: "HS256", wantErr: false},
		{name: "HS384", secret: "s", algorithm: "HS384", wantErr: false},
		{name: "HS512", secret: "s", algorithm: "HS512", wantErr: false},
		{name: "lowercase algorithm", secret: "s", algorithm: "hs256", wantErr: false},
		{name: "empty secret", secret: "", algorithm: "HS256", wantErr: true},
		{name: "unknown algorithm", secret: "s", algorithm: "XX999", wantErr: true},
		{name: "non-HMAC algorithm", secret: "s", algorithm: "RS256", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.secret, tt.algorithm)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCodec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCodec_IssueAndParse(t *testing.T) {
	codec := newTestCodec(t)

	tokenString, err := codec.Issue("user-1", "a@example.com", TypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := codec.Parse(tokenString)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Email != "a@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@example.com")
	}
	if claims.TokenType != TypeAccess {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, TypeAccess)
	}
}

func TestCodec_ParseExpired(t *testing.T) {
	codec := newTestCodec(t)

	tokenString, err := codec.Issue("user-1", "", TypeAccess, -time.Second)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = codec.Parse(tokenString)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("Parse() error = %v, want ErrExpired", err)
	}
}

func TestCodec_ParseMissingExpiry(t *testing.T) {
	codec := newTestCodec(t)

	// Sign claims carrying no exp at all; a token without an expiry is
	// never time-bounded and must be rejected outright.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		TokenType:        TypeRefresh,
	}
	tokenString, err := jwt.NewWithClaims(codec.method, claims).SignedString(codec.secret)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := codec.Parse(tokenString); !errors.Is(err, ErrMalformed) {
		t.Errorf("Parse() error = %v, want ErrMalformed", err)
	}
}

func TestCodec_ParseWrongKey(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("another-secret", "HS256")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	tokenString, err := other.Issue("user-1", "", TypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = codec.Parse(tokenString)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Parse() error = %v, want ErrSignatureInvalid", err)
	}
}

func TestCodec_ParseMalformed(t *testing.T) {
	codec := newTestCodec(t)

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Parse(tokenString); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", tokenString)
		}
	}
}

func TestCodec_ParseTyped(t *testing.T) {
	codec := newTestCodec(t)

	access, err := codec.Issue("user-1", "", TypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	refresh, err := codec.Issue("user-1", "", TypeRefresh, time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := codec.ParseTyped(access, TypeAccess); err != nil {
		t.Errorf("ParseTyped(access, TypeAccess) error = %v", err)
	}
	if _, err := codec.ParseTyped(refresh, TypeRefresh); err != nil {
		t.Errorf("ParseTyped(refresh, TypeRefresh) error = %v", err)
	}

	// An access token never grants refresh semantics and vice versa
	if _, err := codec.ParseTyped(access, TypeRefresh); !errors.Is(err, ErrWrongType) {
		t.Errorf("ParseTyped(access, TypeRefresh) error = %v, want ErrWrongType", err)
	}
	if _, err := codec.ParseTyped(refresh, TypeAccess); !errors.Is(err, ErrWrongType) {
		t.Errorf("ParseTyped(refresh, TypeAccess) error = %v, want ErrWrongType", err)
	}
}
