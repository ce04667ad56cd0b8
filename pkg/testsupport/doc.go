// Package testsupport holds fixtures shared by package tests: the bundled
// definition, a complete laptop submission, a fake prediction service and
// golden-file helpers.
package testsupport
