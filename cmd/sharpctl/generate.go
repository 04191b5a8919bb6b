package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/okian/sharpscore/internal/dataset"
	"github.com/okian/sharpscore/pkg/logger"
)

const (
	rowsFlag = "rows"
	outFlag  = "out"
	seedFlag = "seed"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:   "generate",
		Usage:  "Generate the synthetic labelled dataset",
		Action: cmdGenerate,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  rowsFlag,
				Usage: "Number of rows to generate",
				Value: dataset.DefaultRows,
			},
			&cli.StringFlag{
				Name:  outFlag,
				Usage: "Output CSV path (optional, defaults to dataset_path)",
			},
			&cli.IntFlag{
				Name:  seedFlag,
				Usage: "Random seed",
				Value: dataset.DefaultSeed,
			},
		},
	}
}

func cmdGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	out := stringOr(cmd, outFlag, cfg.DatasetPath)

	b := dataset.NewBuilder(
		dataset.WithRows(int(cmd.Int(rowsFlag))),
		dataset.WithSeed(int64(cmd.Int(seedFlag))),
		dataset.WithLogger(logger.Get().Named("dataset")),
	)
	sum, err := b.BuildFile(ctx, out)
	if err != nil {
		return fmt.Errorf("generate dataset: %w", err)
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "wrote %d rows to %s in %s\n", sum.Rows, out, sum.Duration)
	fmt.Fprintf(w, "label distribution: sharp=%d square=%d\n", sum.Sharp, sum.Square)
	return nil
}
