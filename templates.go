package formwizard

import (
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedDefinitions exposes the bundled wizard definitions.
func EmbeddedDefinitions() fs.FS {
	return definition.EmbeddedFS()
}
