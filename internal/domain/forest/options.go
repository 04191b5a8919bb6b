package forest

import (
	"fmt"
	"runtime"
)

// Default hyperparameters of the production model.
const (
	DefaultTrees           = 100
	DefaultMaxDepth        = 10
	DefaultMinSamplesSplit = 2
	DefaultMinSamplesLeaf  = 1
	DefaultSeed            = 42
)

// Params are the ensemble hyperparameters. They are stored with the fitted
// forest.
type Params struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64
}

// Option configures a fit.
type Option func(*fitConfig)

type fitConfig struct {
	params  Params
	workers int
}

func defaultConfig() fitConfig {
	return fitConfig{
		params: Params{
			Trees:           DefaultTrees,
			MaxDepth:        DefaultMaxDepth,
			MinSamplesSplit: DefaultMinSamplesSplit,
			MinSamplesLeaf:  DefaultMinSamplesLeaf,
			Seed:            DefaultSeed,
		},
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithTrees sets the number of trees.
func WithTrees(n int) Option {
	return func(c *fitConfig) { c.params.Trees = n }
}

// WithMaxDepth sets the maximum depth of every tree. The root is depth 0.
func WithMaxDepth(d int) Option {
	return func(c *fitConfig) { c.params.MaxDepth = d }
}

// WithMinSamplesSplit sets the minimum node size that may be split.
func WithMinSamplesSplit(n int) Option {
	return func(c *fitConfig) { c.params.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum size of each child after a split.
func WithMinSamplesLeaf(n int) Option {
	return func(c *fitConfig) { c.params.MinSamplesLeaf = n }
}

// WithSeed sets the base seed. Tree i is grown from Seed+i, so results do not
// depend on the worker count.
func WithSeed(seed int64) Option {
	return func(c *fitConfig) { c.params.Seed = seed }
}

// WithWorkers bounds how many trees are grown concurrently.
func WithWorkers(n int) Option {
	return func(c *fitConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

func (p Params) validate() error {
	switch {
	case p.Trees < 1:
		return fmt.Errorf("%w: trees=%d", ErrInvalidParam, p.Trees)
	case p.MaxDepth < 1:
		return fmt.Errorf("%w: max_depth=%d", ErrInvalidParam, p.MaxDepth)
	case p.MinSamplesSplit < 2:
		return fmt.Errorf("%w: min_samples_split=%d", ErrInvalidParam, p.MinSamplesSplit)
	case p.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min_samples_leaf=%d", ErrInvalidParam, p.MinSamplesLeaf)
	}
	return nil
}
