package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoHandler is returned when Run has nothing to submit through.
	ErrNoHandler = errors.New("tui: submission handler is required")
)
