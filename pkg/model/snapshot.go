package model

import (
	"net/url"
	"strings"
)

// Snapshot is an immutable-by-convention view of field values keyed by field
// id. Callers clone before mutating.
type Snapshot map[string]string

// Value returns the raw value for id, or an empty string.
func (s Snapshot) Value(id string) string {
	if s == nil {
		return ""
	}
	return s[id]
}

// With returns a copy of the snapshot with id set to value.
func (s Snapshot) With(id, value string) Snapshot {
	out := s.Clone()
	out[id] = value
	return out
}

// Clone copies the snapshot. A nil snapshot clones into an empty one.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for key, value := range s {
		out[key] = value
	}
	return out
}

// SnapshotFromForm extracts the values of the definition's fields from a
// decoded form body. Unknown keys are dropped and values are trimmed.
func SnapshotFromForm(def Definition, form url.Values) Snapshot {
	out := make(Snapshot)
	for _, field := range def.Fields() {
		values, ok := form[field.ID]
		if !ok || len(values) == 0 {
			continue
		}
		out[field.ID] = strings.TrimSpace(values[0])
	}
	return out
}

// Defaults returns a snapshot seeded with every declared field default.
func Defaults(def Definition) Snapshot {
	out := make(Snapshot)
	for _, field := range def.Fields() {
		if field.Default != "" {
			out[field.ID] = field.Default
		}
	}
	return out
}
