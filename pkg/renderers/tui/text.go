package tui

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// TextRenderer prints a static plain-text snapshot of a page: the progress
// bar, the active step's fields with their values and flags, and the outcome.
type TextRenderer struct {
	barWidth int
}

var _ render.Renderer = (*TextRenderer)(nil)

// NewTextRenderer returns a text renderer drawing bars barWidth cells wide.
func NewTextRenderer(barWidth int) *TextRenderer {
	if barWidth <= 0 {
		barWidth = 30
	}
	return &TextRenderer{barWidth: barWidth}
}

func (r *TextRenderer) Name() string { return "text" }

func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the page as text.
func (r *TextRenderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := page.View
	msgs := page.Messages()

	var b bytes.Buffer
	if page.Definition.Title != "" {
		fmt.Fprintln(&b, page.Definition.Title)
	}
	fmt.Fprintf(&b, "%s Paso %d de %d %s\n", wizard.ProgressBar(view.Progress, r.barWidth), view.Step, view.Total, view.ProgressWidth)

	if active, ok := view.Active(); ok {
		if active.Title != "" {
			fmt.Fprintf(&b, "\n%s\n", active.Title)
		}
		for _, field := range active.Fields {
			value := field.Value
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(&b, "  %s: %s", field.Field.DisplayLabel(), value)
			if field.Field.Unit != "" && field.Value != "" {
				fmt.Fprintf(&b, " %s", field.Field.Unit)
			}
			if field.Invalid {
				fmt.Fprintf(&b, "  [%s]", field.Message)
			}
			b.WriteByte('\n')
		}
	}

	if page.Outcome.Alert != "" {
		fmt.Fprintf(&b, "\n%s\n", page.Outcome.Alert)
	}
	loading, success, failure := page.Outcome.Visible()
	switch {
	case loading:
		fmt.Fprintf(&b, "\n%s\n", msgs.Loading)
	case success:
		fmt.Fprintf(&b, "\n%s: %s\n%s:\n", msgs.Success, page.Outcome.Amount, msgs.Summary)
		for _, item := range page.Outcome.Summary {
			fmt.Fprintf(&b, "  %s: %s\n", item.Label, item.Value)
		}
	case failure:
		fmt.Fprintf(&b, "\nError: %s\n", page.Outcome.Message)
	}
	return b.Bytes(), nil
}
