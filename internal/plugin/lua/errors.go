package lua

import "errors"

var (
	// ErrExecutorClosed is returned when using a closed executor.
	ErrExecutorClosed = errors.New("lua executor is closed")

	// ErrNoHandler is returned when a script does not define the
	// on_autocmd entry point.
	ErrNoHandler = errors.New("lua script defines no on_autocmd function")
)
