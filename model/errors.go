package model

import "errors"

// Storage error taxonomy. Lookup misses and uniqueness violations are
// recoverable and checked with errors.Is by the caller; anything else coming
// out of the repository is a backend failure wrapped with %w.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
