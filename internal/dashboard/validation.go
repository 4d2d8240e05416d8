package dashboard

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form field names, as posted by the registration form.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

var validate = validator.New()

// fieldRule pairs one form field with its validator tag and the message shown
// for each failing tag.
type fieldRule struct {
	field    string
	tag      string
	messages map[string]string
}

// registrationRules is the whole schema of the registration form. Rules are
// checked in order so error output is stable.
var registrationRules = []fieldRule{
	{
		field: FieldName,
		tag:   "required,min=3",
		messages: map[string]string{
			"required": "The name field is required.",
			"min":      "The name field must be at least 3 characters.",
		},
	},
	{
		field: FieldEmail,
		tag:   "required,email",
		messages: map[string]string{
			"required": "The email field is required.",
			"email":    "The email field must be a valid email address.",
		},
	},
}

// RegistrationForm is the record validated by Save.
type RegistrationForm struct {
	Name  string
	Email string
}

func (f RegistrationForm) value(field string) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	}
	return ""
}

// Validate checks every field and returns a *ValidationError listing one
// message per invalid field, or nil.
func (f RegistrationForm) Validate() error {
	var verr ValidationError
	for _, rule := range registrationRules {
		err := validate.Var(f.value(rule.field), rule.tag)
		if err == nil {
			continue
		}
		verr.Fields = append(verr.Fields, FieldError{
			Field:   rule.field,
			Message: rule.message(err),
		})
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return &verr
}

func (r fieldRule) message(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := r.messages[fieldErrs[0].Tag()]; ok {
			return msg
		}
	}
	return "The " + r.field + " field is invalid."
}

// FieldError is one (field, message) pair.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by Save when the form is invalid. It is a
// recoverable, per-field condition meant for display next to the inputs.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

// Message returns the message for field, if the field failed.
func (e *ValidationError) Message(field string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// Map returns the errors keyed by field.
func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}
