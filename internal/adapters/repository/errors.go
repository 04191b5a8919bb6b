package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrInvalidUserID     = errors.New("user id is required")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
	ErrClosed            = errors.New("store is closed")
)
