package training

import "errors"

// Sentinel errors for a training run.
var (
	ErrDatasetMissing = errors.New("training dataset not found")
	ErrEncoderDrift   = errors.New("fitted categorical codes differ from the canonical encoding")
	ErrTooFewRows     = errors.New("not enough rows to split into train and test sets")
)
