package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Form control names shared by renderers and the HTTP front-end.
const (
	FieldStep   = "_step"
	FieldAction = "_action"
)

// Navigation actions carried by the FieldAction control.
const (
	ActionNext   = "next"
	ActionPrev   = "prev"
	ActionSubmit = "submit"
)

// Page is everything a renderer needs for one response: the definition, the
// controller's view of it and the latest submission outcome.
type Page struct {
	Definition model.Definition
	View       wizard.View
	Outcome    submission.Outcome
	// Action is the URL the form posts navigation and submission to.
	Action string
	Hidden []HiddenField
	// Theme carries resolved tokens and asset URLs. Nil renders unthemed.
	Theme *theme.RendererConfig
}

// Messages returns the definition copy with defaults applied.
func (p Page) Messages() model.Messages {
	return p.Definition.Messages.WithDefaults()
}

// StepHidden returns the hidden fields with the current step appended.
func (p Page) StepHidden() []HiddenField {
	merged := MergeHiddenFields(nil, p.Hidden...)
	merged = MergeHiddenFields(merged, StepField(p.View.Step))
	return SortedHiddenFields(merged)
}
