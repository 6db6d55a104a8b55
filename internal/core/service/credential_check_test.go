package service

import (
	"errors"
	"testing"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "alice@example.com", "s3cret-pass", false},
		{"empty email", "", "s3cret-pass", true},
		{"empty password", "alice@example.com", "", true},
		{"not an email", "alice", "s3cret-pass", true},
		{"script tag in email", "<script>@example.com", "pw", true},
		{"javascript scheme in password", "alice@example.com", "javascript:alert(1)", true},
		{"union select in password", "alice@example.com", "x' UNION SELECT password FROM users", true},
		{"drop table in password", "alice@example.com", "x; DROP TABLE users", true},
		{"quoted or clause", "alice@example.com", "' OR 1=1", true},
		{"comment terminator", "alice@example.com", "x'; --", true},
		{"password with quote only", "alice@example.com", "it's fine", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.email, tc.password)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("want ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
