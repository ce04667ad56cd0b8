package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Wizard walks a definition step by step in the terminal and submits the
// collected values through a submission.Handler.
type Wizard struct {
	driver   PromptDriver
	theme    Theme
	logger   *zap.Logger
	barWidth int
}

// New constructs a terminal wizard. Without WithPromptDriver it prompts
// through survey on stdout.
func New(options ...Option) *Wizard {
	w := &Wizard{
		logger:   zap.NewNop(),
		barWidth: 30,
		theme:    Theme{InfoPrefix: "", ErrorPrefix: "✗ "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	if w.driver == nil {
		w.driver = NewSurveyDriver(nil)
	}
	return w
}

// Run prompts every field of the current step, then offers navigation. It
// returns the first successful outcome, or the last failed one when the user
// declines to retry. initial pre-fills answers; missing values fall back to
// field defaults.
func (w *Wizard) Run(ctx context.Context, def model.Definition, handler *submission.Handler, initial model.Snapshot) (submission.Outcome, error) {
	if handler == nil {
		return submission.Outcome{}, ErrNoHandler
	}
	msgs := def.Messages.WithDefaults()
	values := model.Defaults(def)
	for id, value := range initial {
		values[id] = value
	}
	c := wizard.NewController(def, wizard.WithLogger(w.logger), wizard.WithBusy(handler.Busy))

	for {
		if err := ctx.Err(); err != nil {
			return submission.Outcome{}, err
		}
		state := c.State()
		step, _ := def.Step(state.Current())
		w.info(ctx, w.header(step, state))

		for _, field := range step.Fields {
			value, err := w.promptField(ctx, field, values.Value(field.ID))
			if err != nil {
				return submission.Outcome{}, err
			}
			values = values.With(field.ID, value)
		}

		choice, err := w.navigate(ctx, state, msgs)
		if err != nil {
			return submission.Outcome{}, err
		}

		switch choice {
		case actionPrev:
			c.Retreat()
		case actionNext:
			if res := c.Advance(values); !res.Valid {
				w.reportInvalid(ctx, def, res)
			}
		case actionSubmit:
			w.info(ctx, msgs.Loading)
			out, err := handler.Submit(ctx, values)
			if errors.Is(err, submission.ErrInvalidForm) {
				w.fail(ctx, out.Alert)
				w.reportInvalid(ctx, def, out.Validation)
				continue
			}
			if err != nil {
				return out, err
			}
			w.report(ctx, out, msgs)
			if out.Status == submission.StatusSuccess {
				return out, nil
			}
			retry, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "¿Intentar de nuevo?", Default: true})
			if err != nil {
				return out, err
			}
			if !retry {
				return out, nil
			}
		}
	}
}

type navAction int

const (
	actionPrev navAction = iota
	actionNext
	actionSubmit
)

func (w *Wizard) navigate(ctx context.Context, state *wizard.State, msgs model.Messages) (navAction, error) {
	var (
		labels  []string
		actions []navAction
	)
	if !state.IsFirst() {
		labels = append(labels, msgs.Previous)
		actions = append(actions, actionPrev)
	}
	if state.IsLast() {
		labels = append(labels, msgs.Submit)
		actions = append(actions, actionSubmit)
	} else {
		labels = append(labels, msgs.Next)
		actions = append(actions, actionNext)
	}

	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      "¿Qué quieres hacer?",
		Options:      labels,
		DefaultIndex: len(labels) - 1,
	})
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(actions) {
		return actions[len(actions)-1], nil
	}
	return actions[idx], nil
}

func (w *Wizard) promptField(ctx context.Context, field model.Field, current string) (string, error) {
	label := field.DisplayLabel()
	if field.Unit != "" {
		label += " (" + field.Unit + ")"
	}

	if field.Kind == model.FieldKindSelect {
		options := make([]string, len(field.Options))
		def := -1
		for i, opt := range field.Options {
			options[i] = opt.DisplayLabel()
			if opt.Value == current {
				def = i
			}
		}
		for {
			idx, err := w.driver.Select(ctx, SelectConfig{
				Message:      label,
				Options:      options,
				DefaultIndex: def,
				Help:         field.Help,
				PageSize:     10,
			})
			if err != nil {
				return "", err
			}
			if idx >= 0 && idx < len(field.Options) {
				return field.Options[idx].Value, nil
			}
			w.fail(ctx, "Selecciona una opción")
		}
	}

	validate := func(raw string) error {
		if res := validation.ValidateField(field, raw); !res.Valid {
			return errors.New(res.Message)
		}
		return nil
	}
	for {
		answer, err := w.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   current,
			Help:      fieldHelp(field),
			Validator: validate,
		})
		if err != nil {
			return "", err
		}
		if err := validate(answer); err != nil {
			w.fail(ctx, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		return strings.TrimSpace(answer), nil
	}
}

func (w *Wizard) header(step model.Step, state *wizard.State) string {
	pct := wizard.Progress(state.Current(), state.Total())
	line := fmt.Sprintf("%s Paso %d de %d %s", wizard.ProgressBar(pct, w.barWidth), state.Current(), state.Total(), wizard.ProgressWidth(pct))
	if step.Title != "" {
		line += "\n" + step.Title
	}
	return line
}

func (w *Wizard) report(ctx context.Context, out submission.Outcome, msgs model.Messages) {
	switch out.Status {
	case submission.StatusSuccess:
		w.info(ctx, fmt.Sprintf("%s: %s", msgs.Success, out.Amount))
		w.info(ctx, msgs.Summary+":")
		for _, item := range out.Summary {
			w.info(ctx, fmt.Sprintf("  %s: %s", item.Label, item.Value))
		}
	case submission.StatusFailure:
		w.fail(ctx, out.Message)
	}
}

func (w *Wizard) reportInvalid(ctx context.Context, def model.Definition, res validation.Result) {
	for _, id := range res.Invalid() {
		label := id
		if field, ok := def.Field(id); ok {
			label = field.DisplayLabel()
		}
		w.fail(ctx, fmt.Sprintf("%s: %s", label, res.Field(id).Message))
	}
}

func (w *Wizard) info(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	_ = w.driver.Info(ctx, w.theme.InfoPrefix+msg)
}

func (w *Wizard) fail(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	_ = w.driver.Info(ctx, w.theme.ErrorPrefix+msg)
}

func fieldHelp(field model.Field) string {
	parts := make([]string, 0, 2)
	if field.Help != "" {
		parts = append(parts, field.Help)
	}
	lo, hi := model.BoundString(field.Min), model.BoundString(field.Max)
	if lo != "" && hi != "" {
		parts = append(parts, fmt.Sprintf("Entre %s y %s %s", lo, hi, field.Unit))
	}
	return strings.TrimSpace(strings.Join(parts, ". "))
}
