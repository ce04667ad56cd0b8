// Package cache stores prediction responses keyed by a hash of the submitted
// payload. Memory keeps entries in process; Redis shares them across server
// replicas.
package cache
