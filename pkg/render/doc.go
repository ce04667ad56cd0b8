// Package render defines the Renderer contract front-ends implement and the
// Page they receive, plus a name-keyed Registry and hidden-field helpers.
package render
