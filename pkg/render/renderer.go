package render

import (
	"context"
)

// Renderer turns a wizard Page into a byte representation (HTML, terminal
// text, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page) ([]byte, error)
}
