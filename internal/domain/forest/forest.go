// Package forest implements a bagged ensemble of CART regression trees.
//
// Each tree is grown on a bootstrap sample of the training rows, considering
// every feature at every split. Predictions are the mean of all trees. A
// fitted Forest is read-only and safe for concurrent use.
package forest

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Forest is a fitted random forest regressor. All fields are exported so the
// value round-trips through encoding/gob unchanged.
type Forest struct {
	Params      Params
	NumFeatures int
	Trees       []Tree
	Importances []float64
}

// Fit grows the ensemble over x (one row per sample) and targets y. Trees are
// grown concurrently; ctx cancels the remaining work.
func Fit(ctx context.Context, x [][]float64, y []float64, opts ...Option) (*Forest, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.params.validate(); err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrShapeMismatch, len(x), len(y))
	}
	width := len(x[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: rows have no features", ErrShapeMismatch)
	}
	for i := range x {
		if len(x[i]) != width {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(x[i]), width)
		}
	}

	p := cfg.params
	trees := make([]Tree, p.Trees)
	importances := make([][]float64, p.Trees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for t := 0; t < p.Trees; t++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trees[t], importances[t] = growTree(x, y, p, p.Seed+int64(t))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{
		Params:      p,
		NumFeatures: width,
		Trees:       trees,
		Importances: averageImportances(importances, width),
	}, nil
}

func growTree(x [][]float64, y []float64, p Params, seed int64) (Tree, []float64) {
	n := len(x)
	r := rand.New(rand.NewSource(seed))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = r.Intn(n)
	}

	b := newBuilder(x, y, p, n)
	b.grow(idx, 0)
	return Tree{Nodes: b.nodes}, b.importance
}

// averageImportances normalizes each tree's impurity decreases to sum to one,
// then averages across trees.
func averageImportances(perTree [][]float64, width int) []float64 {
	out := make([]float64, width)
	counted := 0
	for _, imp := range perTree {
		var total float64
		for _, v := range imp {
			total += v
		}
		if total == 0 {
			continue
		}
		for f, v := range imp {
			out[f] += v / total
		}
		counted++
	}
	if counted == 0 {
		return out
	}
	for f := range out {
		out[f] /= float64(counted)
	}
	return out
}

// Predict returns the mean prediction of every tree for x.
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(x) != f.NumFeatures {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrShapeMismatch, len(x), f.NumFeatures)
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

// PredictBatch predicts every row of x.
func (f *Forest) PredictBatch(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i := range x {
		v, err := f.Predict(x[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
