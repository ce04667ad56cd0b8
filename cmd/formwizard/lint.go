package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/definition"
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Lint OpenAPI documents for unsupported x-wizard extensions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	total := 0
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		violations, err := definition.Lint(cmd.Context(), raw)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		for _, v := range violations {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, v)
		}
		total += len(violations)
	}
	if total > 0 {
		return fmt.Errorf("%d extension violation(s)", total)
	}
	return nil
}
