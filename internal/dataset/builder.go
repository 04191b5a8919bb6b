package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/domain/fingerprint"
	"github.com/okian/sharpscore/internal/domain/labeling"
	"github.com/okian/sharpscore/internal/domain/traits"
	"github.com/okian/sharpscore/pkg/logger"
	"github.com/okian/sharpscore/pkg/metrics"
)

// Default builder configuration.
const (
	DefaultRows          = 500_000
	DefaultProgressEvery = 50_000
	DefaultSeed          = 42
)

// Summary describes a finished generation run.
type Summary struct {
	Rows     int
	Sharp    int
	Square   int
	Duration time.Duration
}

// Option configures a Builder.
type Option func(*Builder)

// WithRows sets how many rows to generate.
func WithRows(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.rows = n
		}
	}
}

// WithProgressEvery sets the progress reporting interval in rows. It is also
// the unit of parallel work.
func WithProgressEvery(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.progressEvery = n
		}
	}
}

// WithSeed sets the base seed. Chunk i is generated from seed+i.
func WithSeed(seed int64) Option {
	return func(b *Builder) { b.seed = seed }
}

// WithWorkers bounds how many chunks are generated ahead of the writer.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithProfile replaces the training profile.
func WithProfile(p traits.Profile) Option {
	return func(b *Builder) { b.profile = p }
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets the progress logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder generates labelled synthetic rows and streams them as CSV. Output
// is deterministic for a given seed, row count, interval and clock.
type Builder struct {
	rows          int
	progressEvery int
	seed          int64
	workers       int
	profile       traits.Profile
	now           func() time.Time
	logger        logger.Logger
}

// NewBuilder returns a Builder generating DefaultRows rows from DefaultSeed.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		rows:          DefaultRows,
		progressEvery: DefaultProgressEvery,
		seed:          DefaultSeed,
		workers:       runtime.GOMAXPROCS(0),
		profile:       traits.Training(),
		now:           time.Now,
		logger:        logger.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildFile writes the dataset to path, creating parent directories.
func (b *Builder) BuildFile(ctx context.Context, path string) (Summary, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Summary{}, fmt.Errorf("create dataset dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return Summary{}, fmt.Errorf("create dataset: %w", err)
	}
	bw := bufio.NewWriter(f)
	sum, err := b.Build(ctx, bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return Summary{}, err
	}
	b.logger.Info(ctx, "dataset written",
		logger.String("path", path),
		logger.Int("rows", sum.Rows),
		logger.Duration("elapsed", sum.Duration))
	return sum, nil
}

// Build generates every row and writes the CSV to w. Chunks are generated
// concurrently and written in order.
func (b *Builder) Build(ctx context.Context, w io.Writer) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	start := time.Now()
	now := b.now()
	chunks := (b.rows + b.progressEvery - 1) / b.progressEvery

	b.logger.Info(ctx, "generating dataset", logger.Int("rows", b.rows))

	out := NewWriter(w)
	if err := out.WriteHeader(); err != nil {
		return Summary{}, fmt.Errorf("write header: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	pending := make(chan chan []Example, b.workers)

	g.Go(func() error {
		defer close(pending)
		for c := 0; c < chunks; c++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			size := min(b.progressEvery, b.rows-c*b.progressEvery)
			result := make(chan []Example, 1)
			select {
			case pending <- result:
			case <-gctx.Done():
				return gctx.Err()
			}
			g.Go(func() error {
				result <- b.chunk(b.seed+int64(c), size, now)
				return nil
			})
		}
		return nil
	})

	var sum Summary
	g.Go(func() error {
		for result := range pending {
			var rows []Example
			select {
			case rows = <-result:
			case <-gctx.Done():
				return gctx.Err()
			}
			for _, ex := range rows {
				if err := out.Write(ex); err != nil {
					return fmt.Errorf("write row %d: %w", sum.Rows, err)
				}
				sum.Rows++
				if ex.Label == labeling.Sharp {
					sum.Sharp++
				} else {
					sum.Square++
				}
			}
			metrics.AddRowsGenerated(len(rows))
			elapsed := time.Since(start)
			b.logger.Info(gctx, "generated records",
				logger.Int("rows", sum.Rows),
				logger.Float64("percent", float64(sum.Rows)/float64(b.rows)*100),
				logger.Duration("elapsed", elapsed))
		}
		return out.Flush()
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	sum.Duration = time.Since(start)
	return sum, nil
}

func (b *Builder) chunk(seed int64, size int, now time.Time) []Example {
	r := rand.New(rand.NewSource(seed))
	out := make([]Example, size)
	for i := range out {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			id = uuid.New()
		}
		out[i] = NewExample(b.profile.Generate(r, id.String(), now))
	}
	return out
}

// NewExample flattens rec and labels it with the heuristic. Generated
// records always carry every field.
func NewExample(rec fingerprint.Record) Example {
	row, _ := features.Normalize(rec)
	ex := Example{
		Meta: Meta{
			UserID:          rec.UserID,
			Timestamp:       rec.Timestamp,
			Timezone:        rec.Timezone,
			Language:        rec.Language,
			ServerTimestamp: rec.ServerTimestamp,
		},
		Row:   row,
		Label: labeling.Label(labeling.TraitsFromRow(row)),
	}
	if rec.IPDetails != nil {
		ex.Meta.Country = rec.IPDetails.Country
		ex.Meta.ASN = rec.IPDetails.ASN
	}
	if rec.Screen != nil {
		ex.Meta.Orientation = rec.Screen.Orientation
	}
	return ex
}
