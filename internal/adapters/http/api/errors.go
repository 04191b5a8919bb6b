package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMissingUserID    = errors.New("userId is required")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Client-facing messages.
const (
	msgNotFound       = "No data found for this user"
	msgScoreFailed    = "Error processing limit increase: "
	msgActivityFailed = "Error fetching user activity: "
)
