package main

import (
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/server"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the wizard interactively in the terminal",
	Long: `Prompts for every field step by step, validating each step before it
lets you continue, then submits to the prediction service and prints the
estimated price with a summary of your answers.`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	def, err := loadDefinition(ctx)
	if err != nil {
		return err
	}

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	predictor := server.NewPredictor(server.PredictorConfig{
		Endpoint: predictURL(def),
		Timeout:  cfg.Predict.Timeout,
		Store:    store,
		TTL:      cfg.Cache.TTL,
	}, logger)
	handler := submission.NewHandler(def, predictor, submission.WithHandlerLogger(logger))

	w := tui.New(
		tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
		tui.WithLogger(logger),
	)
	out, err := w.Run(ctx, def, handler, model.Defaults(def))
	if errors.Is(err, tui.ErrAborted) {
		logger.Debug("wizard aborted")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("wizard finished", zap.String("status", string(out.Status)))
	return nil
}
