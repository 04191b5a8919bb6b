// Package probe exercises a running scoring API end to end: it checks health,
// requests a score for every persona and verifies the answers.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/sharpscore/internal/seeding"
	"github.com/okian/sharpscore/pkg/logger"
)

// Probe defaults.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
	DefaultWorkers = 4
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Workers int           // Concurrent score requests
	Users   []User        // Users to score; the seeded personas when empty
}

// User is one id to score with a display name.
type User struct {
	Name   string
	UserID string
}

// Result is the outcome for one user.
type Result struct {
	User    User
	Status  int
	Score   int
	Reason  string
	Message string
	Latency time.Duration
}

// Report summarizes a run. Results are sorted by score ascending, so the
// sharpest users come first.
type Report struct {
	Results  []Result
	Scored   int
	NotFound int
	Failed   int
	Warnings []string
	Duration time.Duration
}

// Personas returns the seeded personas as probe users.
func Personas() []User {
	ps := seeding.Personas()
	out := make([]User, len(ps))
	for i, p := range ps {
		out[i] = User{Name: p.Name, UserID: p.UserID}
	}
	return out
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type scoreData struct {
	Score  *int   `json:"score"`
	Reason string `json:"reason"`
}

// Run checks /health and then requests /limit-increase for every user.
// Transport failures and malformed answers are errors; not-found users are
// counted, not failed.
func Run(ctx context.Context, cfg Config) (Report, error) {
	start := time.Now()
	cfg = withDefaults(cfg)
	client := &http.Client{Timeout: cfg.Timeout}
	log := logger.Default().Named("probe")

	if err := checkHealth(ctx, client, cfg.BaseURL); err != nil {
		return Report{}, fmt.Errorf("service health check failed: %w", err)
	}
	log.Info(ctx, "service is healthy", logger.String("baseURL", cfg.BaseURL))

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(cfg.Users))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, u := range cfg.Users {
		g.Go(func() error {
			res, err := score(gctx, client, cfg.BaseURL, u)
			if err != nil {
				return fmt.Errorf("score %s: %w", u.Name, err)
			}
			log.Debug(gctx, "scored",
				logger.String("name", u.Name),
				logger.Int("status", res.Status),
				logger.Int("score", res.Score),
				logger.Duration("latency", res.Latency),
			)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep := summarize(results)
	rep.Duration = time.Since(start)
	for _, w := range rep.Warnings {
		log.Warn(ctx, "probe warning", logger.String("warning", w))
	}
	log.Info(ctx, "probe completed",
		logger.Int("scored", rep.Scored),
		logger.Int("notFound", rep.NotFound),
		logger.Int("failed", rep.Failed),
		logger.Duration("duration", rep.Duration),
	)
	return rep, nil
}

func withDefaults(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if len(cfg.Users) == 0 {
		cfg.Users = Personas()
	}
	return cfg
}

func checkHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if body.Status != "healthy" {
		return fmt.Errorf("reported %q", body.Status)
	}
	return nil
}

func score(ctx context.Context, client *http.Client, baseURL string, u User) (Result, error) {
	payload, err := json.Marshal(map[string]string{"userId": u.UserID})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/limit-increase", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	res := Result{User: u, Status: resp.StatusCode, Latency: time.Since(start)}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Result{}, fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err)
	}
	res.Message = env.Message

	switch resp.StatusCode {
	case http.StatusOK:
		var data scoreData
		if env.Status != "success" {
			return Result{}, fmt.Errorf("status 200 with envelope %q", env.Status)
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.Score == nil {
			return Result{}, fmt.Errorf("missing score in response")
		}
		res.Score, res.Reason = *data.Score, data.Reason
	default:
		if env.Status != "error" || env.Message == "" {
			return Result{}, fmt.Errorf("status %d without an error message", resp.StatusCode)
		}
	}
	return res, nil
}

// summarize counts outcomes and checks score bounds and persona ordering.
func summarize(results []Result) Report {
	rep := Report{Results: results}
	byID := map[string]Result{}
	for _, r := range results {
		switch r.Status {
		case http.StatusOK:
			rep.Scored++
			byID[r.User.UserID] = r
			if r.Score < 0 || r.Score > 100 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s scored %d outside [0,100]", r.User.Name, r.Score))
			}
			if strings.TrimSpace(r.Reason) == "" {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s has an empty reason", r.User.Name))
			}
		case http.StatusNotFound:
			rep.NotFound++
		default:
			rep.Failed++
		}
	}

	sharp, okSharp := byID[seeding.SharpUserID]
	square, okSquare := byID[seeding.SquareUserID]
	if okSharp && okSquare && sharp.Score > square.Score {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("sharp persona scored %d above square persona %d", sharp.Score, square.Score))
	}

	sort.SliceStable(rep.Results, func(i, j int) bool {
		return rep.Results[i].Score < rep.Results[j].Score
	})
	return rep
}
