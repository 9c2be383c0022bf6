package security

import (
	"errors"
	"testing"
	"time"
)

func TestStudentTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"

	token, err := IssueStudentToken(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("IssueStudentToken() error = %v", err)
	}

	userID, err := ParseStudentToken(secret, token)
	if err != nil {
		t.Fatalf("ParseStudentToken() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("ParseStudentToken() = %d, want 42", userID)
	}
}

func TestParseStudentTokenRejects(t *testing.T) {
	const secret = "test-secret"

	valid, err := IssueStudentToken(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("IssueStudentToken() error = %v", err)
	}

	expired, err := IssueStudentToken(secret, 42, -time.Minute)
	if err != nil {
		t.Fatalf("IssueStudentToken() error = %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "other-secret", token: valid},
		{name: "expired", secret: secret, token: expired},
		{name: "garbage", secret: secret, token: "not.a.token"},
		{name: "empty", secret: secret, token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStudentToken(tt.secret, tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseStudentToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
