package repository

import "errors"

// Sentinel kinds for document errors.
var (
	ErrNotFound = errors.New("document not found")
	ErrCorrupt  = errors.New("document is malformed")
)
