package wizard

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes navigation and validation traces to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStep positions the controller on step instead of step 1. The value is
// clamped into range, which lets front-ends restore a step carried by a
// request without trusting it.
func WithStep(step int) Option {
	return func(c *Controller) {
		c.initial = step
	}
}

// WithBusy installs a predicate reporting whether a submission is in flight.
// While it returns true the submit control is disabled.
func WithBusy(busy func() bool) Option {
	return func(c *Controller) {
		c.busy = busy
	}
}

// WithoutLiveGating stops Controls from disabling next/submit on an invalid
// step. Front-ends that cannot re-evaluate controls as the user types use it
// and rely on Advance and the submission handler rejecting invalid steps.
func WithoutLiveGating() Option {
	return func(c *Controller) {
		c.ungated = true
	}
}

// Controller owns the wizard State and gates navigation on validation.
type Controller struct {
	def     model.Definition
	state   *State
	logger  *zap.Logger
	busy    func() bool
	initial int
	ungated bool
}

// NewController builds a controller positioned on step 1 of def.
func NewController(def model.Definition, options ...Option) *Controller {
	c := &Controller{
		def:     def,
		logger:  zap.NewNop(),
		initial: 1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.state = NewState(def.TotalSteps())
	c.state.Set(c.initial)
	return c
}

// State exposes the owned state for read access.
func (c *Controller) State() *State {
	return c.state
}

// Definition returns the definition the controller walks through.
func (c *Controller) Definition() model.Definition {
	return c.def
}

// Validate checks the active step against values.
func (c *Controller) Validate(values model.Snapshot) validation.Result {
	return c.validateStep(c.state.Current(), values)
}

// Advance moves forward one step when the active step validates. On failure
// the step is unchanged and the returned result carries the fields to flag.
func (c *Controller) Advance(values model.Snapshot) validation.Result {
	from := c.state.Current()
	res := c.validateStep(from, values)
	if !res.Valid {
		c.logger.Debug("advance rejected",
			zap.Int("step", from),
			zap.Strings("invalid", res.Invalid()),
		)
		return res
	}
	to := c.state.increment()
	c.logger.Debug("advance accepted", zap.Int("from", from), zap.Int("to", to))
	return res
}

// Retreat moves back one step without validating, saturating at step 1.
func (c *Controller) Retreat() int {
	from := c.state.Current()
	to := c.state.decrement()
	c.logger.Debug("retreat", zap.Int("from", from), zap.Int("to", to))
	return to
}

// Goto jumps to step, clamped into range.
func (c *Controller) Goto(step int) int {
	return c.state.Set(step)
}

// Controls derives the enabled state of the navigation controls for the
// active step.
func (c *Controller) Controls(values model.Snapshot) Controls {
	valid := c.ungated || c.Validate(values).Valid
	busy := c.busy != nil && c.busy()
	last := c.state.IsLast()

	controls := Controls{
		PrevDisabled: c.state.IsFirst(),
		ShowNext:     !last,
		ShowSubmit:   last,
	}
	if last {
		controls.SubmitDisabled = !valid || busy
	} else {
		controls.NextDisabled = !valid
	}
	return controls
}

// Render builds the view for the active step. Only the step matching the
// current index is active. Field error flags are taken from marks, so a
// zero Result renders a clean step; callers pass the result of a rejected
// advance or submission to surface it.
func (c *Controller) Render(values model.Snapshot, marks validation.Result) View {
	current := c.state.Current()
	total := c.state.Total()
	c.logger.Debug("render step", zap.Int("step", current), zap.Int("total", total))

	view := View{
		Step:     current,
		Total:    total,
		Progress: Progress(current, total),
		Controls: c.Controls(values),
		Steps:    make([]StepView, 0, total),
	}
	view.ProgressWidth = ProgressWidth(view.Progress)

	for _, step := range c.def.Steps {
		sv := StepView{
			Index:       step.Index,
			Title:       step.Title,
			Description: step.Description,
			Active:      step.Index == current,
			Fields:      make([]FieldView, 0, len(step.Fields)),
		}
		flagged := sv.Active && marks.Marks() && marks.Step == step.Index
		for _, field := range step.Fields {
			fv := FieldView{Field: field, Value: values.Value(field.ID)}
			if flagged {
				if res := marks.Field(field.ID); !res.Valid {
					fv.Invalid = true
					fv.Message = res.Message
				}
			}
			sv.Fields = append(sv.Fields, fv)
		}
		view.Steps = append(view.Steps, sv)
	}
	return view
}

func (c *Controller) validateStep(index int, values model.Snapshot) validation.Result {
	step, ok := c.def.Step(index)
	if !ok {
		return validation.Result{Step: index, Valid: true}
	}
	res := validation.Validate(step, values)
	for _, id := range res.Invalid() {
		field := res.Fields[id]
		c.logger.Debug("field invalid",
			zap.Int("step", index),
			zap.String("field", id),
			zap.String("reason", string(field.Reason)),
			zap.String("value", values.Value(id)),
		)
	}
	return res
}
