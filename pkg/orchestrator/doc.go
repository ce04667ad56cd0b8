// Package orchestrator wires definition source → controller → renderer into a
// single call, for callers that want a rendered wizard step without running
// the HTTP server.
package orchestrator
