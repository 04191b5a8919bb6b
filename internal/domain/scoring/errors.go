package scoring

import "errors"

// Sentinel errors for artifact handling and inference.
var (
	ErrNoRecords      = errors.New("no records to score")
	ErrSchemaMismatch = errors.New("artifact feature schema does not match")
	ErrArtifact       = errors.New("invalid scoring artifact")
	ErrPredict        = errors.New("model prediction failed")
)
