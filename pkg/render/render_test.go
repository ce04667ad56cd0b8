package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.Page) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistryDefaultsToFirstRegistered(t *testing.T) {
	registry := render.NewRegistry()
	if _, err := registry.Resolve(""); err == nil {
		t.Fatalf("empty registry must not resolve")
	}
	registry.MustRegister(namedRenderer("vanilla"))
	registry.MustRegister(namedRenderer("json"))

	got, err := registry.Resolve("")
	if err != nil || got.Name() != "vanilla" {
		t.Fatalf("resolve default = %v, %v", got, err)
	}
	if err := registry.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := registry.Resolve("  "); got.Name() != "json" {
		t.Fatalf("default = %s, want json", got.Name())
	}
	if err := registry.SetDefault("missing"); err == nil {
		t.Fatalf("unknown default must fail")
	}
	if err := registry.Register(namedRenderer("json")); err == nil {
		t.Fatalf("duplicate names must fail")
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" existing ": "keep", "": "ignored"},
		render.CSRFToken("_csrf", "token123"),
		render.Hidden("  ", "skip"),
		render.StepField(2),
	)
	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "_step", Value: "2"},
		{Name: "existing", Value: "keep"},
	}
	if diff := cmp.Diff(want, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPageStepHiddenOverridesStaleStep(t *testing.T) {
	page := render.Page{
		View:   wizard.View{Step: 3},
		Hidden: []render.HiddenField{render.StepField(1), render.CSRFToken("_csrf", "x")},
	}
	want := []render.HiddenField{
		{Name: "_csrf", Value: "x"},
		{Name: "_step", Value: "3"},
	}
	if diff := cmp.Diff(want, page.StepHidden()); diff != "" {
		t.Fatalf("step hidden mismatch (-want +got):\n%s", diff)
	}
	if page.Messages().Next != "Siguiente" {
		t.Fatalf("messages must carry defaults")
	}
}
