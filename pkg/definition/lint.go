package definition

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const extensionNamespace = "x-wizard-"

var (
	propertyExtensions  = []string{extIncrement, extLabel, extOrder, extStep, extUnit}
	operationExtensions = []string{extSteps}
)

// Violation is one unsupported or malformed wizard extension.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint reports every x-wizard-* extension in an OpenAPI document that the
// importer would ignore or misread. Violations are sorted by location.
func Lint(ctx context.Context, raw []byte) ([]Violation, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("definition: load openapi: %w", err)
	}
	if doc.Paths == nil {
		return nil, nil
	}

	var result []Violation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			base := []string{"paths", path, strings.ToLower(method)}
			result = append(result, lintExtensions(base, op.Extensions, operationExtensions)...)
			if op.RequestBody == nil || op.RequestBody.Value == nil {
				continue
			}
			for mime, media := range op.RequestBody.Value.Content {
				if media == nil || media.Schema == nil || media.Schema.Value == nil {
					continue
				}
				for name, prop := range media.Schema.Value.Properties {
					if prop == nil || prop.Value == nil {
						continue
					}
					loc := appendPath(base, "requestBody", mime, "properties."+name)
					result = append(result, lintExtensions(loc, prop.Value.Extensions, propertyExtensions)...)
				}
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result, nil
}

func lintExtensions(path []string, extensions map[string]any, allowed []string) []Violation {
	var result []Violation
	for key, value := range extensions {
		if !strings.HasPrefix(key, extensionNamespace) {
			continue
		}
		loc := formatLocation(path)
		if !contains(allowed, key) {
			result = append(result, Violation{
				Location: loc,
				Message:  fmt.Sprintf("unsupported extension %q (supported here: %s)", key, strings.Join(allowed, ", ")),
			})
			continue
		}
		if msg := checkExtensionValue(key, value); msg != "" {
			result = append(result, Violation{Location: loc, Message: msg})
		}
	}
	return result
}

func checkExtensionValue(key string, value any) string {
	switch key {
	case extStep:
		f := floatExtension(map[string]any{key: value}, key, math.NaN())
		if math.IsNaN(f) || f < 1 || f != math.Trunc(f) {
			return fmt.Sprintf("%s must be a positive integer (got %v)", key, value)
		}
	case extOrder:
		if math.IsNaN(floatExtension(map[string]any{key: value}, key, math.NaN())) {
			return fmt.Sprintf("%s must be a number (got %T)", key, value)
		}
	case extLabel, extUnit, extIncrement:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be a string (got %T)", key, value)
		}
	case extSteps:
		items, ok := value.([]any)
		if !ok {
			return fmt.Sprintf("%s must be a list of {title, description} objects (got %T)", key, value)
		}
		for i, item := range items {
			if _, ok := item.(map[string]any); !ok {
				return fmt.Sprintf("%s[%d] must be an object (got %T)", key, i, item)
			}
		}
	}
	return ""
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func appendPath(path []string, segments ...string) []string {
	next := append([]string(nil), path...)
	return append(next, segments...)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
