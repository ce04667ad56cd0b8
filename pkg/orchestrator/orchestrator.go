package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector resolves Request.Theme and Request.Variant.
func WithThemeSelector(selector *vanilla.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// WithLogger routes controller traces to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator renders a single wizard step from a definition source. It
// applies sensible defaults (vanilla and text renderers, bundled theme)
// while remaining open to dependency injection.
type Orchestrator struct {
	registry        *render.Registry
	themes          *vanilla.ThemeSelector
	defaultRenderer string
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// DefaultRegistry holds the vanilla HTML renderer, which is also the
// default, and the plain text renderer.
func DefaultRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if err := registry.Register(tui.NewTextRenderer(0)); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return registry, nil
}

// Request describes one rendering of a wizard step.
type Request struct {
	// Source identifies the definition. Ignored when Definition is set.
	Source Source
	// Definition bypasses the source when the caller already loaded one.
	Definition *model.Definition
	// Step is the step to render, clamped into range. Zero renders step 1.
	Step int
	// Values prefill the fields. Nil uses the declared defaults.
	Values model.Snapshot
	// Validate flags the invalid fields of the rendered step.
	Validate bool
	// Renderer names the renderer. Blank uses the default renderer.
	Renderer string
	// Theme and Variant select the go-theme manifest.
	Theme   string
	Variant string
	// Action is the URL the rendered form posts to.
	Action string
	// Outcome is shown in the outcome regions.
	Outcome submission.Outcome
}

// Generate resolves the definition, positions a controller on the requested
// step and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := o.Page(ctx, req)
	if err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Page builds the render.Page Generate would hand to the renderer.
func (o *Orchestrator) Page(ctx context.Context, req Request) (render.Page, error) {
	if err := o.initialiseErr; err != nil {
		return render.Page{}, err
	}
	def, err := o.resolveDefinition(ctx, req)
	if err != nil {
		return render.Page{}, err
	}

	values := req.Values
	if values == nil {
		values = model.Defaults(def)
	}
	step := req.Step
	if step == 0 {
		step = 1
	}
	ctrl := wizard.NewController(def, wizard.WithStep(step), wizard.WithLogger(o.logger))

	var marks validation.Result
	if req.Validate {
		marks = ctrl.Validate(values)
	}

	page := render.Page{
		Definition: def,
		View:       ctrl.Render(values, marks),
		Outcome:    req.Outcome,
		Action:     req.Action,
	}
	if page.Outcome.Status == "" {
		page.Outcome.Status = submission.StatusIdle
	}
	if o.themes != nil {
		selection, err := o.themes.Select(req.Theme, req.Variant)
		if err != nil {
			return render.Page{}, fmt.Errorf("orchestrator: %w", err)
		}
		page.Theme = vanilla.RendererConfig(selection)
	}
	return page, nil
}

func (o *Orchestrator) resolveDefinition(ctx context.Context, req Request) (model.Definition, error) {
	if req.Definition != nil {
		if err := req.Definition.Check(); err != nil {
			return model.Definition{}, fmt.Errorf("orchestrator: %w", err)
		}
		return *req.Definition, nil
	}
	return req.Source.Load(ctx)
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			o.initialiseErr = err
		} else {
			o.registry = registry
		}
	}
	if o.themes == nil {
		selector, err := vanilla.NewThemeSelector("", "")
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default theme: %w", err)
		} else {
			o.themes = selector
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
