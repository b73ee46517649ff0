package dto

import (
	"strings"
	"testing"
)

func TestRegisterRequest_ValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"plainaddress", false},
		{"@example.com", false},
		{"user@", false},
		{"user@nodot", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			req := &RegisterRequest{Email: tt.email}
			valid, _ := req.ValidateEmail()
			if valid != tt.valid {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, valid, tt.valid)
			}
		})
	}
}

func TestRegisterRequest_ValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "minimum length", password: "12345678", valid: true},
		{name: "plain lowercase accepted", password: "longenoughpassword", valid: true},
		{name: "too short", password: "1234567", valid: false},
		{name: "empty", password: "", valid: false},
		{name: "bcrypt ceiling", password: strings.Repeat("a", 72), valid: true},
		{name: "over bcrypt ceiling", password: strings.Repeat("a", 73), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &RegisterRequest{Password: tt.password}
			valid, _ := req.ValidatePassword()
			if valid != tt.valid {
				t.Errorf("ValidatePassword() = %v, want %v", valid, tt.valid)
			}
		})
	}
}
