package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoOutput is reported when a preview save is given an empty path.
	ErrNoOutput = errors.New("prompt: output path is required")
)
