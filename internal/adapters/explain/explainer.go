// Package explain produces the human-readable reason attached to a score.
package explain

import (
	"context"
	"errors"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Explainer turns a score and the records behind it into free text.
type Explainer interface {
	Explain(ctx context.Context, score int, records []fingerprint.Record) (string, error)
}

// Sentinel errors.
var (
	ErrUpstream      = errors.New("explanation service error")
	ErrEmptyResponse = errors.New("explanation service returned no text")
	ErrNoAPIKey      = errors.New("explanation api key is required")
)
