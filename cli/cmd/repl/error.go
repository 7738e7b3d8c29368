package repl

import "errors"

// Sentinel errors.
var (
	ErrNoSession    = errors.New("no session")
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
)
