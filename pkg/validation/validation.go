package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Reason classifies why a field failed validation.
type Reason string

const (
	ReasonMissing     Reason = "missing"
	ReasonNotANumber  Reason = "not_a_number"
	ReasonOutOfRange  Reason = "out_of_range"
	ReasonNoSelection Reason = "no_selection"
)

// FieldResult captures the outcome for a single field.
type FieldResult struct {
	ID      string `json:"id"`
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result captures the outcome for every field inspected in a step. Order
// preserves the step's field order so renderers and logs stay deterministic.
type Result struct {
	Step   int                    `json:"step"`
	Valid  bool                   `json:"valid"`
	Order  []string               `json:"order,omitempty"`
	Fields map[string]FieldResult `json:"fields,omitempty"`
}

// Field returns the result recorded for id. Fields that were not inspected
// report as valid.
func (r Result) Field(id string) FieldResult {
	if res, ok := r.Fields[id]; ok {
		return res
	}
	return FieldResult{ID: id, Valid: true}
}

// Invalid lists the ids of failing fields in step order.
func (r Result) Invalid() []string {
	var out []string
	for _, id := range r.Order {
		if !r.Fields[id].Valid {
			out = append(out, id)
		}
	}
	return out
}

// Marks reports whether the result carries any per-field flags.
func (r Result) Marks() bool {
	return len(r.Fields) > 0
}

// Validate inspects every field contained in step against the snapshot. The
// aggregate is the logical AND of each field; fields of other steps are never
// looked at.
func Validate(step model.Step, values model.Snapshot) Result {
	result := Result{
		Step:   step.Index,
		Valid:  true,
		Order:  make([]string, 0, len(step.Fields)),
		Fields: make(map[string]FieldResult, len(step.Fields)),
	}
	for _, field := range step.Fields {
		res := ValidateField(field, values.Value(field.ID))
		result.Order = append(result.Order, field.ID)
		result.Fields[field.ID] = res
		if !res.Valid {
			result.Valid = false
		}
	}
	return result
}

// ValidateField checks a single value against the field's declared
// constraints. Numeric bounds are inclusive; an absent bound does not
// constrain. Optional fields and kinds other than number/select-one always
// pass.
func ValidateField(field model.Field, raw string) FieldResult {
	ok := FieldResult{ID: field.ID, Valid: true}
	if !field.Required {
		return ok
	}

	value := strings.TrimSpace(raw)
	switch field.Kind {
	case model.FieldKindNumber:
		if value == "" {
			return fail(field.ID, ReasonMissing, "Este campo es obligatorio")
		}
		number, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
			return fail(field.ID, ReasonNotANumber, "Introduce un número válido")
		}
		if (field.Min != nil && number < *field.Min) || (field.Max != nil && number > *field.Max) {
			return fail(field.ID, ReasonOutOfRange, rangeMessage(field))
		}
	case model.FieldKindSelect:
		if value == "" {
			return fail(field.ID, ReasonNoSelection, "Selecciona una opción")
		}
	}
	return ok
}

func fail(id string, reason Reason, message string) FieldResult {
	return FieldResult{ID: id, Valid: false, Reason: reason, Message: message}
}

func rangeMessage(field model.Field) string {
	lo, hi := model.BoundString(field.Min), model.BoundString(field.Max)
	unit := ""
	if field.Unit != "" {
		unit = " " + field.Unit
	}
	switch {
	case lo != "" && hi != "":
		return fmt.Sprintf("Debe estar entre %s y %s%s", lo, hi, unit)
	case lo != "":
		return fmt.Sprintf("Debe ser como mínimo %s%s", lo, unit)
	default:
		return fmt.Sprintf("Debe ser como máximo %s%s", hi, unit)
	}
}
