package resume

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gookit/validate"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

// ValidationError reports a manually entered field that was rejected.
// The caller re-prompts for the same field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var (
	manualEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	manualPhone = regexp.MustCompile(`^\+?(\d[\s-]?){9,14}\d$`)
)

// Field names accepted by ValidateField.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// ValidateField checks one manually entered value and returns it cleaned:
// trimmed, and digits only for a phone.
func ValidateField(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch field {
	case FieldName:
		if value == "" {
			return "", &ValidationError{Field: field, Message: "cannot be empty"}
		}
		return value, nil
	case FieldEmail:
		if !manualEmail.MatchString(value) || !validate.IsEmail(value) {
			return "", &ValidationError{Field: field, Message: "that doesn't look like a valid email"}
		}
		return value, nil
	case FieldPhone:
		if !manualPhone.MatchString(value) {
			return "", &ValidationError{Field: field, Message: "that doesn't look like a valid phone number"}
		}
		return session.NormalizePhone(value), nil
	default:
		return "", fmt.Errorf("resume: unknown field %q", field)
	}
}

type contactForm struct {
	Name  string `validate:"required"`
	Email string `validate:"required|email"`
	Phone string `validate:"required|minLen:7"`
}

// ValidateInfo checks a complete CandidateInfo, for example one loaded
// from the restart cache.
func ValidateInfo(info session.CandidateInfo) error {
	v := validate.Struct(&contactForm{Name: info.Name, Email: info.Email, Phone: info.Phone})
	if v.Validate() {
		return nil
	}
	for field, msgs := range v.Errors.All() {
		for _, msg := range msgs {
			return &ValidationError{Field: strings.ToLower(field), Message: msg}
		}
	}
	return &ValidationError{Field: "candidate", Message: v.Errors.One()}
}

// Missing lists the fields of info still to be collected, in the order
// they are asked for.
func Missing(info session.CandidateInfo) []string {
	var out []string
	if info.Name == "" {
		out = append(out, FieldName)
	}
	if info.Email == "" {
		out = append(out, FieldEmail)
	}
	if info.Phone == "" {
		out = append(out, FieldPhone)
	}
	return out
}
