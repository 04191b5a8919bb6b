package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/okian/sharpscore/internal/training"
	"github.com/okian/sharpscore/pkg/logger"
)

const (
	datasetFlag = "dataset"
	modelFlag   = "model"
)

func modelPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  modelFlag,
		Usage: "Model artifact path (optional, defaults to model_path)",
	}
}

func trainCommand() *cli.Command {
	return &cli.Command{
		Name:   "train",
		Usage:  "Train the random forest and write the model artifact",
		Action: cmdTrain,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  datasetFlag,
				Usage: "Labelled CSV to train on (optional, defaults to dataset_path)",
			},
			modelPathFlag(),
		},
	}
}

func cmdTrain(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	ds := stringOr(cmd, datasetFlag, cfg.DatasetPath)
	model := stringOr(cmd, modelFlag, cfg.ModelPath)

	t := training.NewTrainer(training.WithLogger(logger.Get().Named("training")))
	rep, err := t.TrainFile(ctx, ds, model)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	ev := rep.Evaluation
	fmt.Fprintf(w, "trained on %d rows (%d train / %d test) in %s\n", rep.Rows, ev.TrainRows, ev.TestRows, rep.Duration)
	fmt.Fprintf(w, "test MSE: %.2f\n", ev.MSE)
	fmt.Fprintf(w, "R2 score: %.4f\n", ev.R2)
	fmt.Fprintln(w, "feature importances:")
	for _, imp := range rep.Importances {
		fmt.Fprintf(w, "  %-24s %.4f\n", imp.Feature, imp.Value)
	}
	fmt.Fprintln(w, "sample predictions:")
	for _, s := range rep.Samples {
		fmt.Fprintf(w, "  predicted %6.2f actual %6.2f\n", s.Predicted, s.Actual)
	}
	fmt.Fprintf(w, "model saved to %s\n", model)
	return nil
}
