// Package errs contains sentinel errors shared by the storage, service and HTTP layers.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidInput indicates a request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotEligible indicates a toggle was rejected because the account is still new.
	// It is a business-rule outcome, not a fault.
	ErrNotEligible = errors.New("account is not eligible for use yet")
)

// StorageError wraps any failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err into a StorageError unless it is nil or already a sentinel
// that callers need to match on.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotEligible) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err originates from the backing store.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Invalid returns an ErrInvalidInput carrying a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
