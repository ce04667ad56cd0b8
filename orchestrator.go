package formwizard

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/server"
	"github.com/goliatone/go-formwizard/pkg/cache"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

// Source aliases orchestrator.Source for callers selecting a definition.
type Source = orchestrator.Source

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Definition aliases model.Definition.
type Definition = model.Definition

// Snapshot aliases model.Snapshot.
type Snapshot = model.Snapshot

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// LoadDefinition resolves a source into a checked definition. The zero Source
// is the bundled laptop wizard.
func LoadDefinition(ctx context.Context, source Source) (Definition, error) {
	return source.Load(ctx)
}

// GenerateHTML renders step of the wizard described by source with the
// vanilla renderer. It is the simplest entry point for callers that just
// want HTML output.
func GenerateHTML(ctx context.Context, source Source, step int, values Snapshot, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		Step:     step,
		Values:   values,
		Renderer: "vanilla",
	})
}

// NewPredictor builds the prediction client used by the server: endpoint
// requests bounded by timeout, successful answers cached in store for ttl
// when store is non-nil, and identical concurrent payloads collapsed.
func NewPredictor(endpoint string, timeout time.Duration, store cache.Store, ttl time.Duration, logger *zap.Logger) submission.Predictor {
	return server.NewPredictor(server.PredictorConfig{
		Endpoint: endpoint,
		Timeout:  timeout,
		Store:    store,
		TTL:      ttl,
	}, logger)
}

// Submit validates the final step of def and posts every field to predictor,
// returning the outcome a front-end would render.
func Submit(ctx context.Context, def Definition, predictor submission.Predictor, values Snapshot) (submission.Outcome, error) {
	return submission.NewHandler(def, predictor).Submit(ctx, values)
}

// Payload is the form body Submit posts for values.
func Payload(def Definition, values Snapshot) url.Values {
	return submission.Payload(def, values)
}
