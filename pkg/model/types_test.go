package model_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func bound(v float64) *float64 { return &v }

func sampleDefinition() model.Definition {
	return model.Definition{
		Name: "sample",
		Steps: []model.Step{
			{Index: 1, Fields: []model.Field{
				{ID: "ram", Kind: model.FieldKindNumber, Required: true, Min: bound(2), Max: bound(64)},
				{ID: "company", Kind: model.FieldKindSelect, Required: true, Options: []model.Option{{Value: "Dell"}}},
			}},
			{Index: 2, Fields: []model.Field{
				{ID: "cpu_frequency", Kind: model.FieldKindNumber, Default: "2.5"},
			}},
		},
	}
}

func TestHumanizeName(t *testing.T) {
	cases := map[string]string{
		"ram":                  "RAM",
		"cpu_type":             "CPU TYPE",
		"scres_is_touchscreen": "SCRES IS TOUCHSCREEN",
		"  ssd_capacity ":      "SSD CAPACITY",
	}
	for in, want := range cases {
		if got := model.HumanizeName(in); got != want {
			t.Fatalf("HumanizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefinitionLookups(t *testing.T) {
	def := sampleDefinition()

	if def.TotalSteps() != 2 {
		t.Fatalf("expected 2 steps, got %d", def.TotalSteps())
	}
	if _, ok := def.Step(0); ok {
		t.Fatalf("step 0 must not resolve")
	}
	if _, ok := def.Step(3); ok {
		t.Fatalf("step 3 must not resolve")
	}
	step, ok := def.Step(2)
	if !ok || step.Fields[0].ID != "cpu_frequency" {
		t.Fatalf("unexpected step 2: %+v", step)
	}

	var ids []string
	for _, field := range def.Fields() {
		ids = append(ids, field.ID)
	}
	if diff := cmp.Diff([]string{"ram", "company", "cpu_frequency"}, ids); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	if _, ok := def.Field("company"); !ok {
		t.Fatalf("expected company field")
	}
}

func TestSnapshotFromFormKeepsKnownFields(t *testing.T) {
	def := sampleDefinition()
	form := url.Values{
		"ram":     {" 16 "},
		"company": {"Dell"},
		"_step":   {"2"},
		"unknown": {"x"},
	}

	got := model.SnapshotFromForm(def, form)
	want := model.Snapshot{"ram": "16", "company": "Dell"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotWithDoesNotMutate(t *testing.T) {
	base := model.Snapshot{"ram": "8"}
	next := base.With("ram", "16")
	if base.Value("ram") != "8" || next.Value("ram") != "16" {
		t.Fatalf("With mutated the receiver: base=%v next=%v", base, next)
	}
	if got := model.Defaults(sampleDefinition()); got.Value("cpu_frequency") != "2.5" {
		t.Fatalf("expected default seeded, got %v", got)
	}
}

func TestDefinitionCheck(t *testing.T) {
	if err := sampleDefinition().Check(); err != nil {
		t.Fatalf("sample definition should be valid: %v", err)
	}

	broken := model.Definition{
		Steps: []model.Step{
			{Index: 1, Fields: []model.Field{
				{ID: "ram", Kind: model.FieldKindNumber, Min: bound(10), Max: bound(2)},
				{ID: "company", Kind: model.FieldKindSelect},
			}},
			{Index: 3, Fields: []model.Field{
				{ID: "ram", Kind: model.FieldKindNumber},
				{Kind: model.FieldKindText},
			}},
		},
	}
	err := broken.Check()
	if !errors.Is(err, model.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
	for _, fragment := range []string{
		"min 10 exceeds max 2",
		"select-one without options",
		"declares index 3",
		"declared in steps 1 and 2",
		"without id",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
}
