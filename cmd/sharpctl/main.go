// Command sharpctl runs the offline side of the scoring pipeline: dataset
// generation, model training, seeding a record store, one-off scoring and
// probing a running API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/okian/sharpscore/internal/config"
	"github.com/okian/sharpscore/pkg/logger"
)

var (
	name    = "sharpctl"
	version = "v0.0.1-default"
)

const debugFlag = "debug"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logger.Default().Error(ctx, "fatal error", logger.Error(err))
		os.Exit(1)
	}
}

// newApp builds a fresh command tree. Flags keep parse state, so every run
// needs its own.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    name,
		Version: version,
		Usage:   "Offline tooling for the sharpness score",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs (optional, default: false)",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			trainCommand(),
			seedCommand(),
			scoreCommand(),
			probeCommand(),
		},
	}
}

// setup loads layered configuration and initializes logging for a command.
// --debug overrides the configured level.
func setup(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWithFormat(cfg.LogFormat, os.Stderr); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	level := cfg.LogLevel
	if cmd.Bool(debugFlag) {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// stringOr returns the flag value when set, otherwise fallback.
func stringOr(cmd *cli.Command, flag, fallback string) string {
	if v := cmd.String(flag); v != "" {
		return v
	}
	return fallback
}
