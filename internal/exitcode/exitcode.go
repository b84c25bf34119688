// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"context"
	"errors"

	"github.com/imkarma/taskdeck/internal/gateway"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, bad config, unknown task).
	UserError = 1

	// BackendError indicates the task backend failed or was unreachable.
	BackendError = 3

	// Interrupted indicates the run was cancelled by a signal.
	Interrupted = 130
)

// For maps an error returned by a command to its exit code.
func For(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, context.Canceled):
		return Interrupted
	case errors.Is(err, gateway.ErrRequestFailed):
		return BackendError
	default:
		return UserError
	}
}
