package repl

import "errors"

var (
	ErrOutOfBounds  = errors.New("history index out of range")
	ErrEditDeclined = errors.New("edit declined")
	ErrNoSession    = errors.New("no interpreter session")
)
