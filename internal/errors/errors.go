// Package errors defines the domain error vocabulary shared by every module.
//
// Use cases return one of the sentinels below, usually wrapped with Wrap, and
// the HTTP layer turns it into a status through Code.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the resource does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the write collides with existing data, such as a taken email.
	ErrConflict = errors.New("conflict")

	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized means credentials are missing, expired or wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is known but may not act on the resource.
	ErrForbidden = errors.New("forbidden")

	ErrPayloadTooLarge = errors.New("payload too large")
)

// codes is ordered: the first sentinel found in the chain wins.
var codes = []struct {
	sentinel error
	code     string
}{
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrInvalidInput, "invalid_input"},
	{ErrPayloadTooLarge, "payload_too_large"},
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
}

// CodeInternal is returned by Code for errors outside the vocabulary.
const CodeInternal = "internal_error"

// Code returns the machine-readable code of the first sentinel in err's chain,
// CodeInternal when there is none, and "" for a nil err.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.sentinel) {
			return c.code
		}
	}
	return CodeInternal
}

func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message; nil stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}
