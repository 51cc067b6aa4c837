package report

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller input that is missing required fields.
	ErrValidation = errors.New("invalid report request")
	// ErrExhaustedRetries means no unique short ID was found within the retry budget.
	ErrExhaustedRetries = errors.New("exhausted short id retries")
	// ErrNotFound means no report exists for the short ID.
	ErrNotFound = errors.New("report not found")
	// ErrExpired means the report exists but is past its expiration.
	ErrExpired = errors.New("report expired")
	// ErrDuplicateID is returned by repositories when an insert hits an existing short ID.
	ErrDuplicateID = errors.New("short id already exists")
)

// StoreError wraps a failure talking to the report store.
// It carries the operation and short ID for diagnosis but never the payload.
type StoreError struct {
	Op      string
	ShortID ShortID
	Err     error
}

func (e *StoreError) Error() string {
	if e.ShortID != "" {
		return fmt.Sprintf("report store %s %s: %v", e.Op, e.ShortID, e.Err)
	}

	return fmt.Sprintf("report store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, id ShortID, err error) error {
	return &StoreError{Op: op, ShortID: id, Err: err}
}

func validationError(field string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, field)
}
