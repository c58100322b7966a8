// Package validator gates submissions before any outbound call is made.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/healthmatters-clinic/board-intake/internal/models"
)

// ErrAbuseDetected marks a submission caught by the honeypot. The caller
// must report success to the client while performing no side effects, so
// automated abuse is not tipped off.
var ErrAbuseDetected = errors.New("abuse detected")

// FieldError reports a missing or blank required field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Validator checks a raw submission against the anti-abuse honeypot and the
// configured required fields.
type Validator struct {
	honeypot string
	required []string
}

// New builds a Validator. honeypot is the concealed form field a human
// never fills; required lists mandatory field names checked in order.
func New(honeypot string, required ...string) *Validator {
	return &Validator{
		honeypot: honeypot,
		required: required,
	}
}

// Check runs both gates. The honeypot check runs first; a non-empty value
// yields ErrAbuseDetected. Then each required field must be non-empty after
// trimming; the first failure yields a *FieldError.
func (v *Validator) Check(raw *models.RawSubmission) error {
	if v.honeypot != "" && strings.TrimSpace(raw.Field(v.honeypot)) != "" {
		return ErrAbuseDetected
	}

	for _, field := range v.required {
		if strings.TrimSpace(raw.Field(field)) == "" {
			return &FieldError{Field: field}
		}
	}

	return nil
}
