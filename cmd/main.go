package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/sharpscore/internal/adapters/http/api"
	"github.com/okian/sharpscore/internal/adapters/http/swagger"
	"github.com/okian/sharpscore/internal/adapters/repository"
	app "github.com/okian/sharpscore/internal/app"
	"github.com/okian/sharpscore/internal/config"
	"github.com/okian/sharpscore/internal/domain/scoring"
	"github.com/okian/sharpscore/pkg/logger"
)

// HTTP server timeout constants. The write timeout covers a full scoring
// request including the explanation call.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

// setupLogging re-initializes the global logger with the configured format
// and level. An invalid level falls back to info.
func setupLogging(ctx context.Context, cfg *config.Config) error {
	if err := logger.InitWithFormat(cfg.LogFormat, os.Stdout); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// run loads the artifact, connects the store and serves until ctx is done.
func run(ctx context.Context, cfg *config.Config) error {
	if err := setupLogging(ctx, cfg); err != nil {
		return err
	}
	log := logger.Get()

	artifact, err := scoring.Load(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}
	scorer, err := scoring.NewScorer(artifact)
	if err != nil {
		return err
	}
	log.Info(ctx, "model loaded",
		logger.String("path", cfg.ModelPath),
		logger.Int("trees", len(artifact.Forest.Trees)),
		logger.Float64("r2", artifact.Evaluation.R2),
	)

	store, err := repository.Open(ctx, cfg.Store())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error(ctx, "store close failed", logger.Error(err))
		}
	}()

	explainer, err := cfg.Explainer()
	if err != nil {
		return err
	}

	svc := app.New(store, scorer,
		app.WithExplainer(explainer),
		app.WithLogger(log.Named("service")),
		app.WithStoreName(cfg.Store().Driver),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.StoreDriver),
			logger.String("explainer", cfg.ExplainerProvider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newHandler registers the docs and business routes on a fresh mux.
func newHandler(ctx context.Context, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}
