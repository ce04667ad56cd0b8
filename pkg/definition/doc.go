// Package definition loads wizard definitions.
//
// A definition is read from JSON or YAML (Load, LoadFile, LoadFS) or derived
// from the form-encoded request body of an OpenAPI operation (FromOpenAPI).
// Default returns the bundled laptop price wizard.
package definition
