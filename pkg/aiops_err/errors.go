// pkg/aiops_err/errors.go

package aiops_err

import (
	"errors"
)

// UserError marks an error as expected and user-fixable: bad input, a
// declined confirmation prompt, an unreadable plan file. Expected errors
// are reported softly and do not produce a non-zero exit on their own.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}

// NewExpectedError wraps an error for softer UX handling.
func NewExpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// ExitCode maps an error to the process exit status. Expected user errors
// (cancelled prompts and the like) keep exit code 0; fatal setup errors
// exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if IsExpectedUserError(err) {
		return 0
	}
	return 1
}
