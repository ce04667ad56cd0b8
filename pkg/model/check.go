package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDefinition wraps every structural problem reported by Check.
var ErrInvalidDefinition = errors.New("model: invalid definition")

// Check verifies the structural invariants renderers and the controller rely
// on: at least one step, contiguous 1-based step indices, unique non-empty
// field ids, ordered numeric bounds and options on every select-one field.
func (d Definition) Check() error {
	var problems []error
	if len(d.Steps) == 0 {
		problems = append(problems, errors.New("definition declares no steps"))
	}

	seen := make(map[string]int)
	for pos, step := range d.Steps {
		if step.Index != pos+1 {
			problems = append(problems, fmt.Errorf("step %d declares index %d", pos+1, step.Index))
		}
		for _, field := range step.Fields {
			id := strings.TrimSpace(field.ID)
			if id == "" {
				problems = append(problems, fmt.Errorf("step %d has a field without id", pos+1))
				continue
			}
			if prev, ok := seen[id]; ok {
				problems = append(problems, fmt.Errorf("field %q declared in steps %d and %d", id, prev, pos+1))
				continue
			}
			seen[id] = pos + 1

			switch field.Kind {
			case FieldKindNumber:
				if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
					problems = append(problems, fmt.Errorf("field %q min %s exceeds max %s", id, BoundString(field.Min), BoundString(field.Max)))
				}
			case FieldKindSelect:
				if len(field.Options) == 0 {
					problems = append(problems, fmt.Errorf("field %q is select-one without options", id))
				}
			case FieldKindText, "":
			default:
				problems = append(problems, fmt.Errorf("field %q has unknown kind %q", id, field.Kind))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(problems...))
}
