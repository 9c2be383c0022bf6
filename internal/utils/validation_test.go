package utils

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "parent@example.com", wantErr: false},
		{name: "valid with plus", email: "parent+kids@example.co.uk", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
		{name: "missing domain", email: "parent@", wantErr: true},
		{name: "missing at", email: "parent.example.com", wantErr: true},
		{name: "missing tld", email: "parent@example", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "longenough", wantErr: false},
		{name: "exactly eight", password: "12345678", wantErr: false},
		{name: "too short", password: "1234567", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "generated style", username: "happy-dragon", wantErr: false},
		{name: "with digits", username: "star42", wantErr: false},
		{name: "with underscore", username: "brave_fox", wantErr: false},
		{name: "empty", username: "", wantErr: true},
		{name: "too short", username: "ab", wantErr: true},
		{name: "uppercase rejected", username: "Happy-Dragon", wantErr: true},
		{name: "leading dash rejected", username: "-dragon", wantErr: true},
		{name: "spaces rejected", username: "happy dragon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateScore(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name    string
		score   *int
		wantErr bool
	}{
		{name: "nil is valid", score: nil, wantErr: false},
		{name: "zero", score: intPtr(0), wantErr: false},
		{name: "hundred", score: intPtr(100), wantErr: false},
		{name: "negative", score: intPtr(-1), wantErr: true},
		{name: "over hundred", score: intPtr(101), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScore(tt.score)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScore(%v) error = %v, wantErr %v", tt.score, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorType(t *testing.T) {
	err := ValidateEmail("")

	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ValidateEmail(\"\") error type = %T, want ValidationError", err)
	}
	if vErr.Field != "email" {
		t.Errorf("ValidationError.Field = %q, want %q", vErr.Field, "email")
	}
}
