package forest

import "errors"

// Sentinel errors for forest fitting and prediction.
var (
	ErrEmptyInput    = errors.New("empty training input")
	ErrShapeMismatch = errors.New("feature shape mismatch")
	ErrInvalidParam  = errors.New("invalid forest parameter")
	ErrNotFitted     = errors.New("forest has no trees")
)
