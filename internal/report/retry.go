package report

import (
	"errors"

	"github.com/Rican7/retry"
)

var errCollision = errors.New("collision")

// attemptFunc makes one attempt. It returns ok=false to ask for another try and a
// non-nil error to abort the whole loop.
type attemptFunc[T any] func(attempt int) (value T, ok bool, err error)

// retryBounded runs fn until it succeeds, fails, or budget attempts were made.
// It returns the produced value, the number of attempts used and ErrExhaustedRetries
// when the budget ran out.
func retryBounded[T any](budget int, fn attemptFunc[T]) (T, int, error) {
	var (
		value    T
		done     bool
		fatal    error
		attempts int
	)

	_ = retry.Retry(func(uint) error {
		attempts++

		v, ok, err := fn(attempts)
		if err != nil {
			fatal = err

			return nil
		}

		if !ok {
			return errCollision
		}

		value, done = v, true

		return nil
	}, func(uint) bool {
		return attempts < budget
	})

	if fatal != nil {
		return value, attempts, fatal
	}

	if !done {
		return value, attempts, ErrExhaustedRetries
	}

	return value, attempts, nil
}
