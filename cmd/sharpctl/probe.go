package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/okian/sharpscore/internal/probe"
)

const (
	urlFlag     = "url"
	workersFlag = "workers"
	timeoutFlag = "timeout"
	strictFlag  = "strict"
)

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:   "probe",
		Usage:  "Score every seeded persona against a running API",
		Action: cmdProbe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  urlFlag,
				Usage: "Base URL of the service",
				Value: probe.DefaultBaseURL,
			},
			&cli.IntFlag{
				Name:  workersFlag,
				Usage: "Concurrent score requests",
				Value: probe.DefaultWorkers,
			},
			&cli.DurationFlag{
				Name:  timeoutFlag,
				Usage: "HTTP request timeout",
				Value: probe.DefaultTimeout,
			},
			&cli.BoolFlag{
				Name:  strictFlag,
				Usage: "Fail when the probe reports warnings",
			},
		},
	}
}

func cmdProbe(ctx context.Context, cmd *cli.Command) error {
	if _, err := setup(ctx, cmd); err != nil {
		return err
	}

	rep, err := probe.Run(ctx, probe.Config{
		BaseURL: cmd.String(urlFlag),
		Timeout: cmd.Duration(timeoutFlag),
		Workers: int(cmd.Int(workersFlag)),
	})
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	for _, r := range rep.Results {
		if r.Status != http.StatusOK {
			fmt.Fprintf(w, "%-14s %s  %d %s\n", r.User.Name, r.User.UserID, r.Status, r.Message)
			continue
		}
		fmt.Fprintf(w, "%-14s %s  score=%3d  %s\n", r.User.Name, r.User.UserID, r.Score, r.Reason)
	}
	fmt.Fprintf(w, "scored=%d not_found=%d failed=%d in %s\n", rep.Scored, rep.NotFound, rep.Failed, rep.Duration)
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	if cmd.Bool(strictFlag) && len(rep.Warnings) > 0 {
		return fmt.Errorf("probe reported %d warnings", len(rep.Warnings))
	}
	return nil
}
