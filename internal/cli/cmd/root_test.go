package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"courtiq/internal/model"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"client setup", model.NewError(model.ErrClientSetup, "bad file"), ExitInvalidFile},
		{"network", model.NewError(model.ErrNetworkUnreachable, "no response"), ExitNetworkError},
		{"rejected", model.NewError(model.ErrServerRejected, "no file part"), ExitServerError},
		{"server failure", model.NewError(model.ErrServerFailure, "boom"), ExitServerError},
		{"wrapped", fmt.Errorf("context: %w", model.NewError(model.ErrClientSetup, "x")), ExitInvalidFile},
		{"plain error", errors.New("other"), ExitCLIError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "", (&ExitError{Code: ExitCLIError}).Error())
	assert.Equal(t, "nope", (&ExitError{Code: ExitServerError, Err: errors.New("nope")}).Error())
}
