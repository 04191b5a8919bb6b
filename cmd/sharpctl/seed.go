package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/okian/sharpscore/internal/adapters/repository"
	"github.com/okian/sharpscore/internal/seeding"
	"github.com/okian/sharpscore/pkg/logger"
)

const (
	resetFlag    = "reset"
	intervalFlag = "interval"
	countFlag    = "count"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:   "seed",
		Usage:  "Insert persona records into the configured store",
		Action: cmdSeed,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  resetFlag,
				Usage: "Delete every stored record before seeding",
			},
			&cli.DurationFlag{
				Name:  intervalFlag,
				Usage: "Pause after each insert",
				Value: seeding.DefaultInterval,
			},
			&cli.IntFlag{
				Name:  countFlag,
				Usage: "Passes over the personas; 0 runs until interrupted",
			},
			&cli.IntFlag{
				Name:  seedFlag,
				Usage: "Random seed (optional, defaults to the current time)",
			},
		},
	}
}

func cmdSeed(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(ctx, cmd)
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg.Store())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	opts := []seeding.Option{
		seeding.WithReset(cmd.Bool(resetFlag)),
		seeding.WithInterval(cmd.Duration(intervalFlag)),
		seeding.WithCycles(int(cmd.Int(countFlag))),
		seeding.WithLogger(logger.Get().Named("seeding")),
	}
	if cmd.IsSet(seedFlag) {
		opts = append(opts, seeding.WithSeed(int64(cmd.Int(seedFlag))))
	}

	start := time.Now()
	sum, err := seeding.New(store, opts...).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "inserted %d records (%d failed, %d removed, %d cycles) in %s\n",
		sum.Inserted, sum.Failed, sum.Removed, sum.Cycles, time.Since(start).Round(time.Millisecond))
	return nil
}
