package domain

import (
	"errors"
	"fmt"
)

// Error kinds for remote document-store operations. Callers use these to
// separate "omit the field and continue" failures from ones that must
// abort the archive call.
var (
	ErrNotConfigured = errors.New("client not configured")
	ErrTransport     = errors.New("transport failure")
	ErrDecode        = errors.New("decode failure")
	ErrConflict      = errors.New("name conflict")
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("invalid input")
	ErrTemporary     = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// NewError builds a typed error from a plain message.
func NewError(kind error, operation, message string) error {
	return fmt.Errorf("%s: %w: %s", operation, kind, message)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
