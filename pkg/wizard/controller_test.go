package wizard_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func bound(v float64) *float64 { return &v }

func threeSteps() model.Definition {
	return model.Definition{
		Name: "test",
		Steps: []model.Step{
			{Index: 1, Title: "Presupuesto", Fields: []model.Field{
				{ID: "budget", Kind: model.FieldKindNumber, Required: true, Min: bound(1000), Max: bound(5000)},
			}},
			{Index: 2, Title: "Marca", Fields: []model.Field{
				{ID: "company", Kind: model.FieldKindSelect, Required: true, Options: []model.Option{{Value: "Dell"}, {Value: "HP"}}},
			}},
			{Index: 3, Title: "Pantalla", Fields: []model.Field{
				{ID: "inches", Kind: model.FieldKindNumber, Required: true, Min: bound(10), Max: bound(18)},
			}},
		},
	}
}

func validValues() model.Snapshot {
	return model.Snapshot{"budget": "2500", "company": "Dell", "inches": "15.6"}
}

func TestNextStepScenario(t *testing.T) {
	c := wizard.NewController(threeSteps())

	res := c.Advance(model.Snapshot{"budget": "500"})
	if res.Valid {
		t.Fatalf("500 must not validate")
	}
	if res.Fields["budget"].Valid {
		t.Fatalf("budget must be flagged")
	}
	if c.State().Current() != 1 {
		t.Fatalf("current = %d, want 1", c.State().Current())
	}

	res = c.Advance(model.Snapshot{"budget": "2500"})
	if !res.Valid {
		t.Fatalf("2500 must validate: %+v", res)
	}
	if c.State().Current() != 2 {
		t.Fatalf("current = %d, want 2", c.State().Current())
	}
}

func TestAdvanceSaturatesAtLastStep(t *testing.T) {
	c := wizard.NewController(threeSteps(), wizard.WithStep(3))
	c.Advance(validValues())
	if got := c.State().Current(); got != 3 {
		t.Fatalf("current = %d, want 3", got)
	}
}

func TestRetreatIgnoresValidation(t *testing.T) {
	c := wizard.NewController(threeSteps(), wizard.WithStep(3))
	if got := c.Retreat(); got != 2 {
		t.Fatalf("retreat = %d, want 2", got)
	}
	if got := c.Retreat(); got != 1 {
		t.Fatalf("retreat = %d, want 1", got)
	}
	if got := c.Retreat(); got != 1 {
		t.Fatalf("retreat must floor at 1, got %d", got)
	}
}

func TestWithStepClamps(t *testing.T) {
	if got := wizard.NewController(threeSteps(), wizard.WithStep(99)).State().Current(); got != 3 {
		t.Fatalf("current = %d, want 3", got)
	}
	if got := wizard.NewController(threeSteps(), wizard.WithStep(-4)).State().Current(); got != 1 {
		t.Fatalf("current = %d, want 1", got)
	}
}

func TestRandomWalkStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := wizard.NewController(threeSteps())
	inputs := []model.Snapshot{validValues(), {}, {"budget": "1"}}

	for i := 0; i < 500; i++ {
		before := c.State().Current()
		values := inputs[rng.Intn(len(inputs))]
		if rng.Intn(2) == 0 {
			res := c.Advance(values)
			if !res.Valid && c.State().Current() != before {
				t.Fatalf("invalid advance moved from %d to %d", before, c.State().Current())
			}
		} else {
			c.Retreat()
		}
		if cur := c.State().Current(); cur < 1 || cur > 3 {
			t.Fatalf("current %d out of range", cur)
		}
	}
}

func TestControls(t *testing.T) {
	c := wizard.NewController(threeSteps())

	got := c.Controls(model.Snapshot{})
	want := wizard.Controls{PrevDisabled: true, NextDisabled: true, ShowNext: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("step 1 controls mismatch (-want +got):\n%s", diff)
	}

	got = c.Controls(validValues())
	want = wizard.Controls{PrevDisabled: true, ShowNext: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("valid step 1 controls mismatch (-want +got):\n%s", diff)
	}

	c.Goto(3)
	got = c.Controls(model.Snapshot{"inches": "25"})
	want = wizard.Controls{SubmitDisabled: true, ShowSubmit: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("invalid step 3 controls mismatch (-want +got):\n%s", diff)
	}
}

func TestControlsDisableSubmitWhileBusy(t *testing.T) {
	busy := true
	c := wizard.NewController(threeSteps(), wizard.WithStep(3), wizard.WithBusy(func() bool { return busy }))
	if !c.Controls(validValues()).SubmitDisabled {
		t.Fatalf("submit must be disabled while a request is in flight")
	}
	busy = false
	if c.Controls(validValues()).SubmitDisabled {
		t.Fatalf("submit must be enabled once idle")
	}
}

func TestWithoutLiveGatingStillRejectsAdvance(t *testing.T) {
	busy := false
	c := wizard.NewController(threeSteps(), wizard.WithoutLiveGating(), wizard.WithBusy(func() bool { return busy }))

	got := c.Controls(model.Snapshot{})
	want := wizard.Controls{PrevDisabled: true, ShowNext: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ungated controls mismatch (-want +got):\n%s", diff)
	}
	if res := c.Advance(model.Snapshot{"budget": "500"}); res.Valid || c.State().Current() != 1 {
		t.Fatalf("advance must still validate, got valid=%v step=%d", res.Valid, c.State().Current())
	}

	c.Goto(3)
	busy = true
	if !c.Controls(model.Snapshot{}).SubmitDisabled {
		t.Fatalf("submit must be disabled while busy even when ungated")
	}
}

func TestRenderActivatesExactlyOneStep(t *testing.T) {
	c := wizard.NewController(threeSteps(), wizard.WithStep(2))
	view := c.Render(validValues(), validation.Result{})

	active := 0
	for _, step := range view.Steps {
		if step.Active {
			active++
			if step.Index != 2 {
				t.Fatalf("wrong step active: %d", step.Index)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active step, got %d", active)
	}
	if view.Progress != 50 || view.ProgressWidth != "50%" {
		t.Fatalf("progress = %v (%s)", view.Progress, view.ProgressWidth)
	}
	if view.Steps[0].Fields[0].Value != "2500" {
		t.Fatalf("values must flow into every step region")
	}
}

func TestRenderFlagsOnlyMarkedActiveStep(t *testing.T) {
	c := wizard.NewController(threeSteps())
	values := model.Snapshot{"budget": "500"}

	clean := c.Render(values, validation.Result{})
	if clean.Steps[0].Fields[0].Invalid {
		t.Fatalf("zero marks must render a clean step")
	}

	res := c.Advance(values)
	view := c.Render(values, res)
	field := view.Steps[0].Fields[0]
	if !field.Invalid || field.Message == "" {
		t.Fatalf("expected flagged budget field, got %+v", field)
	}

	c.Goto(2)
	moved := c.Render(values, res)
	if moved.Steps[0].Fields[0].Invalid {
		t.Fatalf("marks for an inactive step must not render")
	}
}

func TestRenderIgnoresResultWithoutFieldMarks(t *testing.T) {
	c := wizard.NewController(threeSteps())
	values := model.Snapshot{"budget": "500"}
	bare := validation.Result{Step: 1, Valid: false}

	if bare.Marks() {
		t.Fatalf("a result without field entries carries no marks")
	}
	view := c.Render(values, bare)
	if view.Steps[0].Fields[0].Invalid {
		t.Fatalf("bare result must not flag fields")
	}
	if res := c.Validate(values); !res.Marks() {
		t.Fatalf("a validation pass always carries marks")
	}
}
