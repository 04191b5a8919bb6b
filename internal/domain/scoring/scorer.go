// Package scoring turns a user's fingerprint records into a single sharpness
// score using a trained artifact.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/sharpscore/internal/domain/encoding"
	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Result is the aggregated score and the clipped per-record predictions it
// was derived from, in record order.
type Result struct {
	Score       int
	Predictions []float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithEncoder replaces the canonical encoder.
func WithEncoder(enc *encoding.Encoder) Option {
	return func(s *Scorer) {
		if enc != nil {
			s.encoder = enc
		}
	}
}

// Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	artifact *Artifact
	encoder  *encoding.Encoder
}

// NewScorer validates a and binds it to the canonical encoder.
func NewScorer(a *Artifact, opts ...Option) (*Scorer, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil artifact", ErrArtifact)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{artifact: a, encoder: encoding.Canonical()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Artifact returns the loaded artifact.
func (s *Scorer) Artifact() *Artifact { return s.artifact }

// Predict normalizes, encodes and predicts every record. The whole batch
// fails on the first bad record.
func (s *Scorer) Predict(ctx context.Context, records []fingerprint.Record) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := features.NormalizeAll(records)
	if err != nil {
		return nil, err
	}
	encoded, err := s.encoder.EncodeRows(rows)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(encoded))
	for i, row := range encoded {
		v := row.Vector()
		p, err := s.artifact.Forest.Predict(v[:])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrPredict, i, err)
		}
		out[i] = Clip(p)
	}
	return out, nil
}

// Score predicts every record and aggregates the predictions.
func (s *Scorer) Score(ctx context.Context, records []fingerprint.Record) (Result, error) {
	if len(records) == 0 {
		return Result{}, ErrNoRecords
	}
	preds, err := s.Predict(ctx, records)
	if err != nil {
		return Result{}, err
	}
	score, err := Aggregate(preds)
	if err != nil {
		return Result{}, err
	}
	return Result{Score: score, Predictions: preds}, nil
}

// Aggregate returns the arithmetic mean of preds truncated toward zero and
// clamped to [MinScore, MaxScore].
func Aggregate(preds []float64) (int, error) {
	if len(preds) == 0 {
		return 0, ErrNoRecords
	}
	var sum float64
	for _, p := range preds {
		sum += p
	}
	mean := math.Trunc(sum / float64(len(preds)))
	return int(Clip(mean)), nil
}

// Clip bounds v to [MinScore, MaxScore].
func Clip(v float64) float64 {
	return math.Min(MaxScore, math.Max(MinScore, v))
}
