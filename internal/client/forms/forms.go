// Package forms validates user input before it is sent to the backend. The
// rules are the basic ones a browser form would enforce: required fields,
// e-mail shape, minimum password length and matching confirmations.
package forms

import (
	"bytes"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// MinPasswordLength applies to newly chosen passwords.
const MinPasswordLength = 6

var ErrInvalid = errors.New("invalid input")

// FieldError reports the first field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "%s is required", field)
	}
	return nil
}

func requiredSecret(field string, value []byte) error {
	if len(bytes.TrimSpace(value)) == 0 {
		return invalid(field, "%s is required", field)
	}
	return nil
}

// validEmail accepts a bare address such as "a@b.com". Display names and
// angle brackets are rejected.
func validEmail(value string) error {
	if err := required("Email", value); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return invalid("Email", "please enter a valid email address")
	}
	return nil
}

type LoginForm struct {
	Email    string
	Password []byte
}

func (f LoginForm) Validate() error {
	if err := validEmail(f.Email); err != nil {
		return err
	}
	return requiredSecret("Password", f.Password)
}

// SignupForm is the registration form. ConfirmPassword must repeat Password.
type SignupForm struct {
	Name            string
	Email           string
	Password        []byte
	ConfirmPassword []byte
}

func (f SignupForm) Validate() error {
	if err := required("Name", f.Name); err != nil {
		return err
	}
	if err := validEmail(f.Email); err != nil {
		return err
	}
	if err := requiredSecret("Password", f.Password); err != nil {
		return err
	}
	if len(f.Password) < MinPasswordLength {
		return invalid("Password", "password must be at least %d characters", MinPasswordLength)
	}
	if !bytes.Equal(f.Password, f.ConfirmPassword) {
		return invalid("ConfirmPassword", "Passwords do not match")
	}
	return nil
}

type ProfileForm struct {
	Name string
}

func (f ProfileForm) Validate() error {
	return required("Name", f.Name)
}

// PasswordForm changes the password of the signed-in user.
type PasswordForm struct {
	Current []byte
	New     []byte
	Confirm []byte
}

func (f PasswordForm) Validate() error {
	if err := requiredSecret("Current password", f.Current); err != nil {
		return err
	}
	if err := requiredSecret("New password", f.New); err != nil {
		return err
	}
	if !bytes.Equal(f.New, f.Confirm) {
		return invalid("Confirm", "New passwords do not match")
	}
	if len(f.New) < MinPasswordLength {
		return invalid("New password", "new password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
