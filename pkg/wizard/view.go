package wizard

import "github.com/goliatone/go-formwizard/pkg/model"

// Controls is the enabled state of the navigation controls. Next is shown on
// every step but the last, Submit only on the last.
type Controls struct {
	PrevDisabled   bool `json:"prevDisabled"`
	NextDisabled   bool `json:"nextDisabled"`
	SubmitDisabled bool `json:"submitDisabled"`
	ShowNext       bool `json:"showNext"`
	ShowSubmit     bool `json:"showSubmit"`
}

// FieldView pairs a field with its current value and error flag.
type FieldView struct {
	Field   model.Field `json:"field"`
	Value   string      `json:"value"`
	Invalid bool        `json:"invalid"`
	Message string      `json:"message,omitempty"`
}

// StepView is one step region. Exactly one StepView in a View is Active.
type StepView struct {
	Index       int         `json:"index"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Active      bool        `json:"active"`
	Fields      []FieldView `json:"fields"`
}

// View is the renderer-facing snapshot of the wizard.
type View struct {
	Step          int        `json:"step"`
	Total         int        `json:"total"`
	Progress      float64    `json:"progress"`
	ProgressWidth string     `json:"progressWidth"`
	Controls      Controls   `json:"controls"`
	Steps         []StepView `json:"steps"`
}

// Active returns the active step region.
func (v View) Active() (StepView, bool) {
	for _, step := range v.Steps {
		if step.Active {
			return step, true
		}
	}
	return StepView{}, false
}
