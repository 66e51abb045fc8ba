package repository

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidRecord = errors.New("invalid record")
)
