package core

import (
	"net/mail"
	"strings"
	"time"
)

const (
	MinUsernameLength = 5
	BirthdayLayout    = "2006-01-02"
)

// FieldError describes one rejected input field
type FieldError struct {
	Field   string `json:"path"`
	Message string `json:"msg"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors accumulates every violation of a request rather than
// stopping at the first one
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}

func (v *ValidationErrors) add(field, message, value string) {
	*v = append(*v, FieldError{Field: field, Message: message, Value: value})
}

// ValidateRegistration checks a registration request
func ValidateRegistration(in RegisterInput) error {
	var errs ValidationErrors
	validateUsername(&errs, in.Username)
	if in.Password == "" {
		errs.add("Password", "Password is required", "")
	}
	validateEmail(&errs, in.Email)
	validateBirthday(&errs, in.Birthday)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateUpdate checks a profile update. Password may be left empty.
func ValidateUpdate(in UpdateInput) error {
	var errs ValidationErrors
	validateUsername(&errs, in.Username)
	validateEmail(&errs, in.Email)
	validateBirthday(&errs, in.Birthday)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateLogin checks that both credentials are present
func ValidateLogin(in LoginInput) error {
	var errs ValidationErrors
	if in.Username == "" {
		errs.add("Username", "Username is required", "")
	}
	if in.Password == "" {
		errs.add("Password", "Password is required", "")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseBirthday parses an optional YYYY-MM-DD date. Empty input yields nil.
func ParseBirthday(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func validateUsername(errs *ValidationErrors, username string) {
	if len(username) < MinUsernameLength {
		errs.add("Username", "Username is required and must be at least 5 characters", username)
	}
	if !isAlphanumeric(username) {
		errs.add("Username", "Username contains non-alphanumeric characters - not allowed.", username)
	}
}

func validateEmail(errs *ValidationErrors, email string) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs.add("Email", "Email does not appear to be valid", email)
	}
}

func validateBirthday(errs *ValidationErrors, birthday string) {
	if _, err := ParseBirthday(birthday); err != nil {
		errs.add("Birthday", "Birthday must be a date formatted as YYYY-MM-DD", birthday)
	}
}

// isAlphanumeric reports whether s is non-empty ASCII letters and digits only
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
