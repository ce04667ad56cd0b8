// Package validation checks the fields of one wizard step against a value
// snapshot. It never touches rendered state: callers receive a Result with
// per-field flags and decide how to surface them.
package validation
