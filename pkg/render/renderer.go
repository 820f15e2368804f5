package render

import (
	"context"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// Renderer converts a CV record into a printable document. Every
// implementation consumes the View built by BuildView so that switching
// templates changes presentation only.
type Renderer interface {
	Name() cv.Template
	ContentType() string
	Render(ctx context.Context, record cv.Record, options RenderOptions) ([]byte, error)
}
