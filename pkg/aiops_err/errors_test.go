// pkg/aiops_err/errors_test.go

package aiops_err

import (
	"errors"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewExpectedError(t *testing.T) {
	assert.Nil(t, NewExpectedError(nil))

	base := errors.New("plan file missing")
	wrapped := NewExpectedError(base)
	assert.True(t, IsExpectedUserError(wrapped))
	assert.Equal(t, "plan file missing", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
}

func TestIsExpectedUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "expected", err: NewExpectedError(errors.New("cancelled")), want: true},
		{name: "expected wrapped again", err: cerr.Wrap(NewExpectedError(errors.New("cancelled")), "outer"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpectedUserError(tt.err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 0, ExitCode(NewExpectedError(errors.New("operation cancelled"))))
	assert.Equal(t, 1, ExitCode(errors.New("invalid plan JSON")))
}
