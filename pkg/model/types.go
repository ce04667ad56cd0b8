package model

import (
	"strconv"
	"strings"
)

// FieldKind mirrors the control type a field is rendered with. Only numeric and
// single-choice kinds carry constraints; everything else is accepted as typed.
type FieldKind string

const (
	FieldKindNumber FieldKind = "number"
	FieldKindSelect FieldKind = "select-one"
	FieldKindText   FieldKind = "text"
)

// Option is a single choice offered by a select-one field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayLabel falls back to the raw value when no label was declared.
func (o Option) DisplayLabel() string {
	if strings.TrimSpace(o.Label) != "" {
		return o.Label
	}
	return o.Value
}

// Field models an individual input inside a wizard step. Struct fields are
// annotated so definitions can be read from JSON or YAML and renderers can
// serialise them directly when needed.
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Help        string    `json:"help,omitempty" yaml:"help,omitempty"`
	Unit        string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool      `json:"required" yaml:"required"`
	Min         *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	// Increment maps onto the HTML step attribute ("any", "0.1", ...).
	Increment string   `json:"increment,omitempty" yaml:"increment,omitempty"`
	Default   string   `json:"default,omitempty" yaml:"default,omitempty"`
	Options   []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// DisplayLabel returns the declared label or a humanised identifier.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return HumanizeName(f.ID)
}

// HasOption reports whether value is one of the declared choices.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// BoundString formats a numeric bound for HTML attributes and messages. Nil
// bounds format as an empty string.
func BoundString(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'f', -1, 64)
}

// Step groups the fields rendered together under one wizard step.
type Step struct {
	Index       int     `json:"index" yaml:"index"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Messages holds the user-facing copy the wizard emits outside of field
// labels.
type Messages struct {
	InvalidForm     string `json:"invalidForm,omitempty" yaml:"invalidForm,omitempty"`
	ConnectionError string `json:"connectionError,omitempty" yaml:"connectionError,omitempty"`
	Loading         string `json:"loading,omitempty" yaml:"loading,omitempty"`
	Success         string `json:"success,omitempty" yaml:"success,omitempty"`
	Summary         string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Previous        string `json:"previous,omitempty" yaml:"previous,omitempty"`
	Next            string `json:"next,omitempty" yaml:"next,omitempty"`
	Submit          string `json:"submit,omitempty" yaml:"submit,omitempty"`
}

const (
	DefaultInvalidFormMessage     = "Por favor, corrige los errores en el formulario antes de continuar."
	DefaultConnectionErrorMessage = "Error en la conexión. Intenta de nuevo."
)

// WithDefaults fills unset messages with the built-in copy.
func (m Messages) WithDefaults() Messages {
	set := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}
	set(&m.InvalidForm, DefaultInvalidFormMessage)
	set(&m.ConnectionError, DefaultConnectionErrorMessage)
	set(&m.Loading, "Calculando precio...")
	set(&m.Success, "Precio estimado")
	set(&m.Summary, "Resumen de especificaciones")
	set(&m.Previous, "Anterior")
	set(&m.Next, "Siguiente")
	set(&m.Submit, "Calcular precio")
	return m
}

// Definition is the top-level description of a wizard: its ordered steps,
// the prediction endpoint submissions are posted to, and its copy.
type Definition struct {
	Name        string   `json:"name" yaml:"name"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Endpoint    string   `json:"endpoint" yaml:"endpoint"`
	Steps       []Step   `json:"steps" yaml:"steps"`
	Messages    Messages `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// TotalSteps reports how many steps the wizard walks through.
func (d Definition) TotalSteps() int {
	return len(d.Steps)
}

// Step returns the step with the 1-based index.
func (d Definition) Step(index int) (Step, bool) {
	if index < 1 || index > len(d.Steps) {
		return Step{}, false
	}
	return d.Steps[index-1], true
}

// Fields flattens every step's fields in presentation order.
func (d Definition) Fields() []Field {
	var out []Field
	for _, step := range d.Steps {
		out = append(out, step.Fields...)
	}
	return out
}

// Field looks a field up by id across all steps.
func (d Definition) Field(id string) (Field, bool) {
	for _, step := range d.Steps {
		for _, field := range step.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// HumanizeName turns a field name into the upper-case label used in
// submission summaries: every underscore becomes a space.
func HumanizeName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
}
