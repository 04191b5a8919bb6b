package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/okian/sharpscore/internal/adapters/repository"
	app "github.com/okian/sharpscore/internal/app"
	"github.com/okian/sharpscore/internal/domain/scoring"
	"github.com/okian/sharpscore/pkg/logger"
)

const userFlag = "user"

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:   "score",
		Usage:  "Score one user against the configured store and model",
		Action: cmdScore,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     userFlag,
				Usage:    "User id to score",
				Required: true,
			},
			modelPathFlag(),
		},
	}
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	modelPath := stringOr(cmd, modelFlag, cfg.ModelPath)

	artifact, err := scoring.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model %s: %w", modelPath, err)
	}
	scorer, err := scoring.NewScorer(artifact)
	if err != nil {
		return err
	}
	explainer, err := cfg.Explainer()
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg.Store())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	svc := app.New(store, scorer,
		app.WithExplainer(explainer),
		app.WithLogger(logger.Get().Named("service")),
		app.WithStoreName(cfg.StoreDriver),
	)
	userID := cmd.String(userFlag)
	dec, err := svc.Score(ctx, userID)
	if errors.Is(err, app.ErrNotFound) {
		return fmt.Errorf("no data found for user %q", userID)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(dec)
}
