package testutil

import (
	"context"
	"math/rand"
	"time"

	"github.com/okian/sharpscore/internal/domain/encoding"
	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/domain/forest"
	"github.com/okian/sharpscore/internal/domain/labeling"
	"github.com/okian/sharpscore/internal/domain/scoring"
	"github.com/okian/sharpscore/internal/domain/traits"
)

// Artifact fits a small forest on n heuristically labelled synthetic records.
// It is deterministic for a given n and trees.
func Artifact(n, trees int) (*scoring.Artifact, error) {
	r := rand.New(rand.NewSource(forest.DefaultSeed))
	profile := traits.Training()
	enc := encoding.Canonical()
	now := time.UnixMilli(1735689600000)

	x := make([][]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		row, err := features.Normalize(profile.Generate(r, "fixture", now))
		if err != nil {
			return nil, err
		}
		target, err := labeling.Target(labeling.Label(labeling.TraitsFromRow(row)))
		if err != nil {
			return nil, err
		}
		encoded, err := enc.EncodeRow(row)
		if err != nil {
			return nil, err
		}
		v := encoded.Vector()
		x = append(x, v[:])
		y = append(y, target)
	}

	f, err := forest.Fit(context.Background(), x, y, forest.WithTrees(trees), forest.WithMaxDepth(6))
	if err != nil {
		return nil, err
	}
	return scoring.NewArtifact(f, scoring.Evaluation{TrainRows: n}, now), nil
}
