// Package model defines the typed wizard definition consumed by the
// controller, the validator, the submission handler and every renderer. A
// Definition owns an ordered list of Steps; each Step owns the Fields rendered
// under it, so the step a field belongs to is derived from containment rather
// than stored on the field. Numeric fields express their inclusive bounds
// through Min/Max and single-choice fields enumerate their Options. Values are
// never stored on the definition: they travel in a Snapshot keyed by field id,
// which keeps validation a pure function of (Step, Snapshot).
package model
