package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the wizard steps and their fields",
	RunE:  runFields,
}

func runFields(cmd *cobra.Command, args []string) error {
	def, err := loadDefinition(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "STEP\tFIELD\tKIND\tREQUIRED\tCONSTRAINT\n")
	for _, step := range def.Steps {
		for _, field := range step.Fields {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", step.Index, field.ID, field.Kind, field.Required, constraint(field))
		}
	}
	return tw.Flush()
}

func constraint(field model.Field) string {
	switch field.Kind {
	case model.FieldKindNumber:
		lo, hi := model.BoundString(field.Min), model.BoundString(field.Max)
		if lo == "" && hi == "" {
			return "-"
		}
		return "[" + lo + ", " + hi + "]"
	case model.FieldKindSelect:
		values := make([]string, 0, len(field.Options))
		for _, opt := range field.Options {
			values = append(values, opt.Value)
		}
		return strings.Join(values, "|")
	default:
		return "-"
	}
}
