package service

import (
	"errors"

	"github.com/emzola/bookworm/internal/validator"
)

var (
	ErrFailedValidation = errors.New("failed validation")
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrNotPermitted     = errors.New("not permitted")
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrImageTooLarge    = errors.New("image too large")
)

// ValidationError carries the field errors of a rejected input. It matches
// ErrFailedValidation with errors.Is.
type ValidationError struct {
	Errors map[string]string
	msg    string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Unwrap() error {
	return ErrFailedValidation
}

// failedValidation converts the errors collected by v into a ValidationError.
func failedValidation(v *validator.Validator) error {
	return &ValidationError{Errors: v.Errors, msg: v.Error()}
}

// invalid reports a single-field validation failure with a custom message.
func invalid(message string) error {
	return &ValidationError{Errors: map[string]string{}, msg: message}
}
