package domain

import "errors"

// Domain errors represent error conditions in the logship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrClosed is returned when an operation is attempted on a client that
	// has been closed or aborted.
	ErrClosed = errors.New("logship: client closed")

	// ErrAborted is returned by Flush (and Close) when the pipeline was
	// aborted before the flush barrier was confirmed; delivery of messages
	// submitted before the barrier is not guaranteed.
	ErrAborted = errors.New("logship: pipeline aborted before flush completed")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("logship: invalid configuration")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("logship: shutdown timeout")
)
