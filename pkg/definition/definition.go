package definition

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

//go:embed defaults/*.yaml
var embedded embed.FS

const defaultFile = "defaults/laptop.yaml"

var (
	defaultOnce sync.Once
	defaultDef  model.Definition
	defaultErr  error
)

// Default returns the bundled laptop price wizard. The embedded document is
// parsed once; callers receive their own copy of the step slice.
func Default() (model.Definition, error) {
	defaultOnce.Do(func() {
		data, err := embedded.ReadFile(defaultFile)
		if err != nil {
			defaultErr = fmt.Errorf("definition: read embedded default: %w", err)
			return
		}
		defaultDef, defaultErr = Load(data, defaultFile)
	})
	if defaultErr != nil {
		return model.Definition{}, defaultErr
	}
	return clone(defaultDef), nil
}

// MustDefault is Default for callers that cannot recover from a broken build.
func MustDefault() model.Definition {
	def, err := Default()
	if err != nil {
		panic(err)
	}
	return def
}

// EmbeddedFS exposes the bundled definitions so callers can pass them to LoadFS.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load parses a JSON or YAML definition and checks its structure. source
// names the document in error messages.
func Load(data []byte, source string) (model.Definition, error) {
	if strings.TrimSpace(string(data)) == "" {
		return model.Definition{}, fmt.Errorf("definition: %s is empty", source)
	}

	var def model.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		def = model.Definition{}
		if yerr := yaml.Unmarshal(data, &def); yerr != nil {
			return model.Definition{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
		}
	}

	normalise(&def)
	if err := def.Check(); err != nil {
		return model.Definition{}, fmt.Errorf("definition: %s: %w", source, err)
	}
	return def, nil
}

// LoadFile reads a definition from disk.
func LoadFile(path string) (model.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Definition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Load(data, path)
}

// LoadFS reads a definition from fsys.
func LoadFS(fsys fs.FS, path string) (model.Definition, error) {
	if fsys == nil {
		return model.Definition{}, fmt.Errorf("definition: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return model.Definition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Load(data, path)
}

// IsDefinitionFile reports whether path has an extension Load understands.
func IsDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func normalise(def *model.Definition) {
	def.Name = strings.TrimSpace(def.Name)
	def.Endpoint = strings.TrimSpace(def.Endpoint)
	for i := range def.Steps {
		step := &def.Steps[i]
		if step.Index == 0 {
			step.Index = i + 1
		}
		for j := range step.Fields {
			field := &step.Fields[j]
			field.ID = strings.TrimSpace(field.ID)
			if field.Kind == "" {
				if len(field.Options) > 0 {
					field.Kind = model.FieldKindSelect
				} else {
					field.Kind = model.FieldKindText
				}
			}
		}
	}
}

func clone(def model.Definition) model.Definition {
	out := def
	out.Steps = make([]model.Step, len(def.Steps))
	for i, step := range def.Steps {
		step.Fields = append([]model.Field(nil), step.Fields...)
		out.Steps[i] = step
	}
	return out
}
