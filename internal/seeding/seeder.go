package seeding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
	"github.com/okian/sharpscore/pkg/logger"
)

// Seeder defaults.
const (
	DefaultInterval = time.Second
)

// Store is the write side of a record store.
type Store interface {
	Insert(ctx context.Context, rec fingerprint.Record) (string, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Summary reports what a run did.
type Summary struct {
	Removed  int64
	Inserted int
	Failed   int
	Cycles   int
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithInterval sets the pause after each insert. Zero disables pausing.
func WithInterval(d time.Duration) Option {
	return func(s *Seeder) {
		if d >= 0 {
			s.interval = d
		}
	}
}

// WithCycles stops after n passes over the personas. Zero runs until the
// context is cancelled.
func WithCycles(n int) Option {
	return func(s *Seeder) {
		if n >= 0 {
			s.cycles = n
		}
	}
}

// WithReset clears the store before seeding.
func WithReset(reset bool) Option {
	return func(s *Seeder) { s.reset = reset }
}

// WithSeed fixes the random source.
func WithSeed(seed int64) Option {
	return func(s *Seeder) { s.seed = seed }
}

// WithPersonas replaces the default personas.
func WithPersonas(ps []Persona) Option {
	return func(s *Seeder) {
		if len(ps) > 0 {
			s.personas = ps
		}
	}
}

// WithClock replaces the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Seeder) {
		if l != nil {
			s.logger = l
		}
	}
}

// Seeder inserts one record per persona per interval.
type Seeder struct {
	store    Store
	personas []Persona
	interval time.Duration
	cycles   int
	reset    bool
	seed     int64
	now      func() time.Time
	logger   logger.Logger
}

// New constructs a Seeder over store.
func New(store Store, opts ...Option) *Seeder {
	s := &Seeder{
		store:    store,
		personas: Personas(),
		interval: DefaultInterval,
		seed:     time.Now().UnixNano(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	return s
}

// Run seeds until the cycle budget is spent or ctx is cancelled. Cancellation
// ends the run without an error. A failed insert is logged and counted; the
// run continues with the next persona.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	const op = "seeding.run"
	var sum Summary

	if s.reset {
		n, err := s.store.DeleteAll(ctx)
		if err != nil {
			return sum, fmt.Errorf("%s: reset: %w", op, err)
		}
		sum.Removed = n
		s.logger.Info(ctx, "cleared existing records", logger.Int64("removed", n))
	}

	r := rand.New(rand.NewSource(s.seed))
	// Device identity is fixed for the whole run.
	pinned := make([]Persona, len(s.personas))
	for i, p := range s.personas {
		p.Profile = p.Profile.Pin(r)
		pinned[i] = p
	}

	s.logger.Info(ctx, "seeding started",
		logger.Int("personas", len(pinned)),
		logger.Duration("interval", s.interval),
		logger.Int("cycles", s.cycles),
	)
	for s.cycles == 0 || sum.Cycles < s.cycles {
		for _, p := range pinned {
			if ctx.Err() != nil {
				return s.done(ctx, sum), nil
			}
			rec := p.Profile.Generate(r, p.UserID, s.now())
			id, err := s.store.Insert(ctx, rec)
			if err != nil {
				sum.Failed++
				s.logger.Error(ctx, "insert failed",
					logger.String("op", op), logger.String("persona", p.Name), logger.Error(err))
			} else {
				sum.Inserted++
				s.logger.Debug(ctx, "inserted record",
					logger.String("persona", p.Name),
					logger.String("id", id),
					logger.Float64("pageLoadTime", *rec.PageLoadTime),
				)
			}
			if !s.wait(ctx) {
				return s.done(ctx, sum), nil
			}
		}
		sum.Cycles++
	}
	return s.done(ctx, sum), nil
}

// wait pauses for the interval and reports whether to continue.
func (s *Seeder) wait(ctx context.Context) bool {
	if s.interval == 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(s.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Seeder) done(ctx context.Context, sum Summary) Summary {
	s.logger.Info(ctx, "seeding stopped",
		logger.Int("inserted", sum.Inserted),
		logger.Int("failed", sum.Failed),
		logger.Int("cycles", sum.Cycles),
	)
	return sum
}
