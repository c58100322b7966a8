package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmatters-clinic/board-intake/internal/models"
)

func raw(fields map[string][]string) *models.RawSubmission {
	return &models.RawSubmission{Fields: fields}
}

func TestCheck_Valid(t *testing.T) {
	v := New("website", "name", "email")

	err := v.Check(raw(map[string][]string{
		"name":  {"Jane Doe"},
		"email": {"jane@x.org"},
	}))

	assert.NoError(t, err)
}

func TestCheck_HoneypotPopulated(t *testing.T) {
	v := New("website", "name", "email")

	err := v.Check(raw(map[string][]string{
		"name":    {"Jane Doe"},
		"email":   {"jane@x.org"},
		"website": {"http://spam.example"},
	}))

	assert.True(t, errors.Is(err, ErrAbuseDetected))
}

func TestCheck_HoneypotRunsBeforeRequiredFields(t *testing.T) {
	v := New("website", "name", "email")

	// Both gates would fire; the honeypot wins so the bot sees "success".
	err := v.Check(raw(map[string][]string{
		"website": {"http://spam.example"},
	}))

	assert.True(t, errors.Is(err, ErrAbuseDetected))
}

func TestCheck_MissingRequiredField(t *testing.T) {
	v := New("website", "name", "email")

	tests := []struct {
		name    string
		fields  map[string][]string
		missing string
	}{
		{
			name:    "absent name",
			fields:  map[string][]string{"email": {"jane@x.org"}},
			missing: "name",
		},
		{
			name: "whitespace-only email",
			fields: map[string][]string{
				"name":  {"Jane"},
				"email": {"   "},
			},
			missing: "email",
		},
		{
			name:    "empty submission reports first required field",
			fields:  map[string][]string{},
			missing: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(raw(tt.fields))
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.missing, fe.Field)
		})
	}
}

func TestCheck_ConfigurableRequiredSet(t *testing.T) {
	v := New("website", "name", "email", "role")

	err := v.Check(raw(map[string][]string{
		"name":  {"Jane"},
		"email": {"jane@x.org"},
	}))

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "role", fe.Field)
}

func TestFieldError_Message(t *testing.T) {
	err := &FieldError{Field: "email"}
	assert.Equal(t, "missing required field: email", err.Error())
}
