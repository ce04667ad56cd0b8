// Package vanilla renders the wizard as a server-side HTML page using pongo2
// templates. Every step region is emitted inside one form so values persist
// across navigation; only the active step is visible. Navigation buttons post
// an _action of prev, next or submit.
package vanilla
