package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// Source identifies where a wizard definition lives. The zero value is the
// bundled laptop wizard.
type Source struct {
	// Path is a JSON or YAML definition file.
	Path string
	// OpenAPI is an OpenAPI document whose form-encoded POST operation is
	// turned into a wizard. Ignored when Path is set.
	OpenAPI string
	// Operation selects the operation id inside OpenAPI. Blank picks the
	// first POST operation.
	Operation string
}

// SourceFromFile returns a Source reading a definition file.
func SourceFromFile(path string) Source {
	return Source{Path: strings.TrimSpace(path)}
}

// SourceFromOpenAPI returns a Source importing operationID from an OpenAPI
// document.
func SourceFromOpenAPI(path, operationID string) Source {
	return Source{OpenAPI: strings.TrimSpace(path), Operation: strings.TrimSpace(operationID)}
}

// Embedded reports whether the source resolves to the bundled wizard.
func (s Source) Embedded() bool {
	return strings.TrimSpace(s.Path) == "" && strings.TrimSpace(s.OpenAPI) == ""
}

func (s Source) String() string {
	switch {
	case strings.TrimSpace(s.Path) != "":
		return "file:" + s.Path
	case strings.TrimSpace(s.OpenAPI) != "":
		if s.Operation != "" {
			return "openapi:" + s.OpenAPI + "#" + s.Operation
		}
		return "openapi:" + s.OpenAPI
	default:
		return "embedded:laptop"
	}
}

// Load resolves the source into a checked definition.
func (s Source) Load(ctx context.Context) (model.Definition, error) {
	switch {
	case strings.TrimSpace(s.Path) != "":
		def, err := definition.LoadFile(strings.TrimSpace(s.Path))
		if err != nil {
			return model.Definition{}, fmt.Errorf("orchestrator: load %s: %w", s, err)
		}
		return def, nil
	case strings.TrimSpace(s.OpenAPI) != "":
		def, err := definition.FromOpenAPIFile(ctx, strings.TrimSpace(s.OpenAPI), s.Operation)
		if err != nil {
			return model.Definition{}, fmt.Errorf("orchestrator: load %s: %w", s, err)
		}
		return def, nil
	default:
		def, err := definition.Default()
		if err != nil {
			return model.Definition{}, fmt.Errorf("orchestrator: load %s: %w", s, err)
		}
		return def, nil
	}
}
