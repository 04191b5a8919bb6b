// Package service provides the scoring facade used by the HTTP API and the
// command line tools.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/okian/sharpscore/internal/adapters/explain"
	"github.com/okian/sharpscore/internal/domain/fingerprint"
	"github.com/okian/sharpscore/internal/domain/scoring"
	"github.com/okian/sharpscore/pkg/logger"
	"github.com/okian/sharpscore/pkg/metrics"
)

// RecordFinder reads a user's records.
type RecordFinder interface {
	FindByUser(ctx context.Context, userID string) ([]fingerprint.Record, error)
}

// Scorer scores a user's records with a loaded artifact.
type Scorer interface {
	Score(ctx context.Context, records []fingerprint.Record) (scoring.Result, error)
	Artifact() *scoring.Artifact
}

// Decision is the scoring outcome for one user.
type Decision struct {
	UserID  string `json:"userId"`
	Score   int    `json:"score"`
	Reason  string `json:"reason"`
	Records int    `json:"records"`
}

// Service scores users from their stored fingerprints. It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	store     RecordFinder
	scorer    Scorer
	explainer explain.Explainer
	logger    logger.Logger
	now       func() time.Time
	startedAt time.Time
	storeName string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the clock used for latency and uptime.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreName labels the store in Stats.
func WithStoreName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.storeName = name
		}
	}
}

// New constructs a Service. The defaults explain with the static template.
func New(store RecordFinder, scorer Scorer, opts ...Option) *Service {
	s := &Service{
		store:     store,
		scorer:    scorer,
		explainer: explain.NewStaticExplainer(),
		now:       time.Now,
		storeName: "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	s.startedAt = s.now()
	return s
}

// WithExplainer sets the explanation collaborator.
func WithExplainer(e explain.Explainer) Option {
	return func(s *Service) {
		if e != nil {
			s.explainer = e
		}
	}
}

// Score fetches every record for userID, scores them and asks the explainer
// for a reason. A user without records is ErrNotFound and the model is not
// invoked.
func (s *Service) Score(ctx context.Context, userID string) (Decision, error) {
	const op = "service.score"

	userID = strings.TrimSpace(userID)
	if userID == "" {
		metrics.RecordScoreRequest(metrics.OutcomeInvalid)
		return Decision{}, newError(op, ErrValidation, ErrMissingUserID)
	}

	records, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return Decision{}, s.fail(ctx, op, userID, ErrStore, err)
	}
	if len(records) == 0 {
		metrics.RecordScoreRequest(metrics.OutcomeNotFound)
		s.logger.Debug(ctx, "no records for user", logger.String("userId", userID))
		return Decision{}, newError(op, ErrNotFound, nil)
	}

	start := s.now()
	result, err := s.scorer.Score(ctx, records)
	if err != nil {
		return Decision{}, s.fail(ctx, op, userID, classifyScoring(err), err)
	}
	metrics.RecordPrediction(msSince(s.now, start), len(records), result.Score)

	start = s.now()
	reason, err := s.explainer.Explain(ctx, result.Score, records)
	metrics.RecordExplanation(msSince(s.now, start), err != nil)
	if err != nil {
		return Decision{}, s.fail(ctx, op, userID, ErrCollaborator, err)
	}

	metrics.RecordScoreRequest(metrics.OutcomeSuccess)
	s.logger.Debug(ctx, "scored user",
		logger.String("userId", userID),
		logger.Int("records", len(records)),
		logger.Int("score", result.Score),
	)
	return Decision{UserID: userID, Score: result.Score, Reason: reason, Records: len(records)}, nil
}

// Activity returns the user's records ordered by timestamp. A user without
// records yields an empty, non-nil list.
func (s *Service) Activity(ctx context.Context, userID string) ([]fingerprint.Record, error) {
	const op = "service.activity"

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, newError(op, ErrValidation, ErrMissingUserID)
	}
	records, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "activity lookup failed",
			logger.String("op", op), logger.String("userId", userID), logger.Error(err))
		return nil, newError(op, ErrStore, err)
	}
	if records == nil {
		records = []fingerprint.Record{}
	}
	return records, nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]any {
	stats := map[string]any{
		"store":         s.storeName,
		"uptimeSeconds": int64(s.now().Sub(s.startedAt).Seconds()),
	}
	if s.scorer == nil {
		return stats
	}
	if a := s.scorer.Artifact(); a != nil {
		model := map[string]any{
			"version":   a.Version,
			"features":  len(a.Features),
			"trainedAt": a.TrainedAt.UTC().Format(time.RFC3339),
			"trainRows": a.Evaluation.TrainRows,
			"testRows":  a.Evaluation.TestRows,
			"mse":       a.Evaluation.MSE,
			"r2":        a.Evaluation.R2,
		}
		if a.Forest != nil {
			model["trees"] = len(a.Forest.Trees)
		}
		stats["model"] = model
	}
	return stats
}

func (s *Service) fail(ctx context.Context, op, userID string, kind, err error) error {
	metrics.RecordScoreRequest(metrics.OutcomeFailed)
	s.logger.Error(ctx, "scoring failed",
		logger.String("op", op),
		logger.String("userId", userID),
		logger.String("kind", kind.Error()),
		logger.Error(err),
	)
	return newError(op, kind, err)
}

func msSince(now func() time.Time, start time.Time) float64 {
	return float64(now().Sub(start).Microseconds()) / 1000
}
