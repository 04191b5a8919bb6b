// Package training fits the scoring artifact from a labelled dataset.
package training

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/okian/sharpscore/internal/dataset"
	"github.com/okian/sharpscore/internal/domain/encoding"
	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/domain/forest"
	"github.com/okian/sharpscore/internal/domain/labeling"
	"github.com/okian/sharpscore/internal/domain/scoring"
	"github.com/okian/sharpscore/pkg/logger"
	"github.com/okian/sharpscore/pkg/metrics"
)

// Defaults of a training run.
const (
	DefaultTestFraction = 0.2
	DefaultSplitSeed    = 42
	DefaultSamples      = 5
)

// Importance is one feature's share of the total impurity decrease.
type Importance struct {
	Feature string
	Value   float64
}

// Sample pairs a clipped test prediction with its true target.
type Sample struct {
	Predicted float64
	Actual    float64
}

// Report summarises a training run.
type Report struct {
	Rows        int
	Duration    time.Duration
	Evaluation  scoring.Evaluation
	Importances []Importance
	Samples     []Sample
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithTestFraction sets the held-out share of rows.
func WithTestFraction(f float64) Option {
	return func(t *Trainer) {
		if f > 0 && f < 1 {
			t.testFraction = f
		}
	}
}

// WithSplitSeed sets the seed of the train/test shuffle.
func WithSplitSeed(seed int64) Option {
	return func(t *Trainer) { t.splitSeed = seed }
}

// WithForestOptions passes options through to forest.Fit.
func WithForestOptions(opts ...forest.Option) Option {
	return func(t *Trainer) { t.forestOpts = append(t.forestOpts, opts...) }
}

// WithLogger sets the run logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock sets the time recorded in the artifact.
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) {
		if now != nil {
			t.now = now
		}
	}
}

// Trainer runs the offline fit. It is not safe for concurrent use.
type Trainer struct {
	testFraction float64
	splitSeed    int64
	forestOpts   []forest.Option
	logger       logger.Logger
	now          func() time.Time
}

// NewTrainer returns a Trainer with the default hyperparameters: 100 trees,
// depth 10, seed 42, 80/20 split.
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		testFraction: DefaultTestFraction,
		splitSeed:    DefaultSplitSeed,
		logger:       logger.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TrainFile loads the dataset at datasetPath, trains, and writes the
// artifact to modelPath. A missing dataset is fatal; nothing is regenerated.
func (t *Trainer) TrainFile(ctx context.Context, datasetPath, modelPath string) (Report, error) {
	const op = "training.TrainFile"

	t.logger.Info(ctx, "loading data", logger.String("path", datasetPath))
	examples, err := dataset.ReadFile(datasetPath)
	if err != nil {
		if errors.Is(err, dataset.ErrMissing) {
			return Report{}, fmt.Errorf("%s: %w: %w", op, ErrDatasetMissing, err)
		}
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}

	artifact, report, err := t.Train(ctx, examples)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := scoring.Save(modelPath, artifact); err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}
	t.logger.Info(ctx, "model saved", logger.String("path", modelPath))
	return report, nil
}

// Train fits an artifact on examples and evaluates it on a held-out split.
func (t *Trainer) Train(ctx context.Context, examples []dataset.Example) (*scoring.Artifact, Report, error) {
	n := len(examples)
	nTest := int(math.Ceil(float64(n) * t.testFraction))
	if n < 2 || nTest < 1 || nTest >= n {
		return nil, Report{}, fmt.Errorf("%w: %d rows", ErrTooFewRows, n)
	}

	enc, err := fitEncoder(examples)
	if err != nil {
		return nil, Report{}, err
	}

	x := make([][]float64, n)
	y := make([]float64, n)
	for i, ex := range examples {
		row, err := enc.EncodeRow(ex.Row)
		if err != nil {
			return nil, Report{}, fmt.Errorf("row %d: %w", i, err)
		}
		v := row.Vector()
		x[i] = v[:]
		if y[i], err = labeling.Target(ex.Label); err != nil {
			return nil, Report{}, fmt.Errorf("row %d: %w", i, err)
		}
	}

	perm := rand.New(rand.NewSource(t.splitSeed)).Perm(n)
	xTest, yTest := gather(x, y, perm[:nTest])
	xTrain, yTrain := gather(x, y, perm[nTest:])

	t.logger.Info(ctx, "training random forest regressor",
		logger.Int("train_rows", len(xTrain)),
		logger.Int("test_rows", len(xTest)))

	start := time.Now()
	model, err := forest.Fit(ctx, xTrain, yTrain, t.forestOpts...)
	if err != nil {
		return nil, Report{}, fmt.Errorf("fit forest: %w", err)
	}
	elapsed := time.Since(start)
	t.logger.Info(ctx, "training completed", logger.Duration("elapsed", elapsed))

	pred, err := model.PredictBatch(xTest)
	if err != nil {
		return nil, Report{}, fmt.Errorf("evaluate: %w", err)
	}
	for i := range pred {
		pred[i] = scoring.Clip(pred[i])
	}

	ev := scoring.Evaluation{
		TrainRows: len(xTrain),
		TestRows:  len(xTest),
		MSE:       MeanSquaredError(yTest, pred),
		R2:        R2(yTest, pred),
	}
	report := Report{
		Rows:        n,
		Duration:    elapsed,
		Evaluation:  ev,
		Importances: rankImportances(model.Importances),
		Samples:     samples(yTest, pred, DefaultSamples),
	}

	t.logger.Info(ctx, "evaluation",
		logger.Float64("mse", ev.MSE),
		logger.Float64("r2", ev.R2))
	for _, imp := range report.Importances {
		t.logger.Debug(ctx, "feature importance",
			logger.String("feature", imp.Feature),
			logger.Float64("importance", imp.Value))
	}
	for i, s := range report.Samples {
		t.logger.Info(ctx, "sample prediction",
			logger.Int("sample", i+1),
			logger.Float64("predicted", s.Predicted),
			logger.Float64("actual", s.Actual))
	}
	metrics.RecordTraining(len(xTrain), elapsed.Seconds(), ev.MSE, ev.R2)

	return scoring.NewArtifact(model, ev, t.now()), report, nil
}

// fitEncoder fits the categorical encoder on the dataset's own columns and
// requires it to match the canonical encoding used at inference.
func fitEncoder(examples []dataset.Example) (*encoding.Encoder, error) {
	cols := make(map[string][]float64, len(features.CategoricalNames()))
	for _, name := range features.CategoricalNames() {
		values := make([]float64, len(examples))
		for i := range examples {
			values[i], _ = examples[i].Row.Get(name)
		}
		cols[name] = values
	}
	enc, err := encoding.Fit(cols)
	if err != nil {
		return nil, fmt.Errorf("fit encoder: %w", err)
	}
	if !enc.Equal(encoding.Canonical()) {
		for _, name := range features.CategoricalNames() {
			classes, _ := enc.Classes(name)
			if len(classes) != 2 {
				return nil, fmt.Errorf("%w: %s has classes %v", ErrEncoderDrift, name, classes)
			}
		}
		return nil, ErrEncoderDrift
	}
	return enc, nil
}

func gather(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	gx := make([][]float64, len(idx))
	gy := make([]float64, len(idx))
	for i, j := range idx {
		gx[i] = x[j]
		gy[i] = y[j]
	}
	return gx, gy
}

func rankImportances(values []float64) []Importance {
	names := features.Names()
	out := make([]Importance, len(values))
	for i, v := range values {
		out[i] = Importance{Feature: names[i], Value: v}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

func samples(actual, pred []float64, n int) []Sample {
	n = min(n, len(pred))
	out := make([]Sample, n)
	for i := range out {
		out[i] = Sample{Predicted: pred[i], Actual: actual[i]}
	}
	return out
}

// MeanSquaredError returns the mean of (actual-pred)^2.
func MeanSquaredError(actual, pred []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i := range actual {
		d := actual[i] - pred[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}

// R2 returns the coefficient of determination. A constant target scores 1
// for a perfect fit and 0 otherwise.
func R2(actual, pred []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		r := actual[i] - pred[i]
		d := actual[i] - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
