package definition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Vendor extensions read from request body properties and operations.
const (
	extStep      = "x-wizard-step"
	extOrder     = "x-wizard-order"
	extLabel     = "x-wizard-label"
	extUnit      = "x-wizard-unit"
	extIncrement = "x-wizard-increment"
	extSteps     = "x-wizard-steps"
)

const formMediaType = "application/x-www-form-urlencoded"

// ErrOperationNotFound is returned when the requested operation id is absent.
var ErrOperationNotFound = errors.New("definition: operation not found")

// FromOpenAPIFile reads an OpenAPI document from disk and converts it.
func FromOpenAPIFile(ctx context.Context, path, operationID string) (model.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Definition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return FromOpenAPI(ctx, data, operationID)
}

// FromOpenAPI builds a definition from the form-encoded request body of the
// POST operation identified by operationID. Properties are assigned to steps
// with x-wizard-step (default 1) and ordered by x-wizard-order then name.
// Numeric schemas become number fields carrying minimum/maximum; enums become
// select-one fields.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (model.Definition, error) {
	if err := ctx.Err(); err != nil {
		return model.Definition{}, err
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return model.Definition{}, fmt.Errorf("definition: load openapi: %w", err)
	}
	if doc.Paths == nil {
		return model.Definition{}, fmt.Errorf("%w: %q (document has no paths)", ErrOperationNotFound, operationID)
	}

	items := doc.Paths.Map()
	paths := make([]string, 0, len(items))
	for path := range items {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		item := items[path]
		if item == nil || item.Post == nil {
			continue
		}
		if operationID != "" && item.Post.OperationID != operationID {
			continue
		}
		return fromOperation(path, item.Post)
	}
	return model.Definition{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
}

type stepMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type placed struct {
	step  int
	order float64
	field model.Field
}

func fromOperation(path string, op *openapi3.Operation) (model.Definition, error) {
	id := op.OperationID
	if id == "" {
		id = "post:" + path
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return model.Definition{}, fmt.Errorf("definition: operation %q has no request body", id)
	}
	media := op.RequestBody.Value.Content[formMediaType]
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return model.Definition{}, fmt.Errorf("definition: operation %q does not accept %s", id, formMediaType)
	}
	schema := media.Schema.Value

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var fields []placed
	maxStep := 1
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		step := intExtension(prop.Extensions, extStep, 1)
		if step < 1 {
			return model.Definition{}, fmt.Errorf("definition: property %q declares %s %d", name, extStep, step)
		}
		if step > maxStep {
			maxStep = step
		}
		fields = append(fields, placed{
			step:  step,
			order: floatExtension(prop.Extensions, extOrder, 0),
			field: fieldFromSchema(name, prop, required[name]),
		})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].step != fields[j].step {
			return fields[i].step < fields[j].step
		}
		if fields[i].order != fields[j].order {
			return fields[i].order < fields[j].order
		}
		return fields[i].field.ID < fields[j].field.ID
	})

	metas := stepMetas(op.Extensions)
	def := model.Definition{
		Name:        id,
		Title:       op.Summary,
		Description: op.Description,
		Endpoint:    path,
		Steps:       make([]model.Step, maxStep),
	}
	for i := range def.Steps {
		def.Steps[i].Index = i + 1
		if i < len(metas) {
			def.Steps[i].Title = metas[i].Title
			def.Steps[i].Description = metas[i].Description
		}
	}
	for _, p := range fields {
		def.Steps[p.step-1].Fields = append(def.Steps[p.step-1].Fields, p.field)
	}

	if err := def.Check(); err != nil {
		return model.Definition{}, fmt.Errorf("definition: operation %q: %w", id, err)
	}
	return def, nil
}

func fieldFromSchema(name string, prop *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		ID:        name,
		Label:     stringExtension(prop.Extensions, extLabel, prop.Title),
		Help:      prop.Description,
		Unit:      stringExtension(prop.Extensions, extUnit, ""),
		Required:  required,
		Increment: stringExtension(prop.Extensions, extIncrement, ""),
	}
	if prop.Default != nil {
		field.Default = scalarString(prop.Default)
	}

	numeric := prop.Type != nil && (prop.Type.Is("number") || prop.Type.Is("integer"))
	switch {
	case len(prop.Enum) > 0:
		field.Kind = model.FieldKindSelect
		for _, value := range prop.Enum {
			field.Options = append(field.Options, model.Option{Value: scalarString(value)})
		}
	case numeric:
		field.Kind = model.FieldKindNumber
		if prop.Min != nil {
			lo := *prop.Min
			field.Min = &lo
		}
		if prop.Max != nil {
			hi := *prop.Max
			field.Max = &hi
		}
		if field.Increment == "" && prop.Type.Is("integer") {
			field.Increment = "1"
		}
	default:
		field.Kind = model.FieldKindText
	}
	return field
}

func stepMetas(ext map[string]any) []stepMeta {
	raw, ok := ext[extSteps]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var metas []stepMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil
	}
	return metas
}

func floatExtension(ext map[string]any, key string, fallback float64) float64 {
	switch v := ext[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func intExtension(ext map[string]any, key string, fallback int) int {
	return int(floatExtension(ext, key, float64(fallback)))
}

func stringExtension(ext map[string]any, key, fallback string) string {
	if v, ok := ext[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func scalarString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
