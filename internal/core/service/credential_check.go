package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// suspiciousPatterns are naive injection heuristics. Input matching any of
// them is rejected locally with a generic error before any network or
// storage round-trip.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bunion\b[\s\S]+\bselect\b`),
	regexp.MustCompile(`(?i)\bdrop\s+table\b`),
	regexp.MustCompile(`(?i)'\s*(or|and)\s+.+=`),
	regexp.MustCompile(`(?i);\s*--`),
}

var credentialValidator = validator.New()

// ValidateCredentials performs the local checks that gate every sign-in:
// both fields non-empty, identifier shaped like an email, and neither field
// matching the suspicious-pattern set. Returns domain.ErrInvalidInput on any
// violation so callers cannot distinguish which check failed.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return domain.ErrInvalidInput
	}
	if err := credentialValidator.Var(email, "email"); err != nil {
		return domain.ErrInvalidInput
	}
	for _, p := range suspiciousPatterns {
		if p.MatchString(email) || p.MatchString(password) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
