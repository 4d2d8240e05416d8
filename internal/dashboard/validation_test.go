package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationForm_Validate(t *testing.T) {
	tests := []struct {
		name string
		form RegistrationForm
		want map[string]string
	}{
		{
			name: "valid",
			form: RegistrationForm{Name: "Alice", Email: "alice@example.com"},
		},
		{
			name: "exactly three characters",
			form: RegistrationForm{Name: "Bob", Email: "bob@example.com"},
		},
		{
			name: "three multibyte characters",
			form: RegistrationForm{Name: "Zoë", Email: "zoe@example.com"},
		},
		{
			name: "empty form",
			form: RegistrationForm{},
			want: map[string]string{
				FieldName:  "The name field is required.",
				FieldEmail: "The email field is required.",
			},
		},
		{
			name: "short name",
			form: RegistrationForm{Name: "Al", Email: "al@example.com"},
			want: map[string]string{
				FieldName: "The name field must be at least 3 characters.",
			},
		},
		{
			name: "malformed email",
			form: RegistrationForm{Name: "Alice", Email: "alice-at-example"},
			want: map[string]string{
				FieldEmail: "The email field must be a valid email address.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Map())
		})
	}
}

func TestValidationError_FieldOrderIsStable(t *testing.T) {
	err := RegistrationForm{}.Validate()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, FieldName, verr.Fields[0].Field)
	assert.Equal(t, FieldEmail, verr.Fields[1].Field)
	assert.Equal(t, "validation failed: The name field is required. The email field is required.", verr.Error())
}

func TestValidationError_MessageOnNil(t *testing.T) {
	var verr *ValidationError
	msg, ok := verr.Message(FieldName)
	assert.False(t, ok)
	assert.Empty(t, msg)
}
