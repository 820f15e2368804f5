// Package cvbuilder re-exports the pieces most callers need to edit drafts
// and render CVs without importing each subpackage.
package cvbuilder

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
	"github.com/goliatone/go-cvbuilder/pkg/orchestrator"
	"github.com/goliatone/go-cvbuilder/pkg/render"
	"github.com/goliatone/go-cvbuilder/pkg/renderers/html"
)

// Record is the editable CV.
type Record = cv.Record

// Draft is a stored, named record.
type Draft = draft.Draft

// RenderOptions carries page size, toolbar and theme overrides.
type RenderOptions = render.RenderOptions

// PageSize names a printable paper format.
type PageSize = render.PageSize

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *render.Registry
	defaultRegistryErr  error
)

// NewOrchestrator starts a session over store on the welcome screen.
func NewOrchestrator(store orchestrator.DraftStore, options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(store, options...)
}

// RenderHTML renders record with the built-in template it names.
func RenderHTML(ctx context.Context, record Record, options RenderOptions) ([]byte, error) {
	defaultRegistryOnce.Do(func() {
		registry := render.NewRegistry()
		if err := html.Register(registry); err != nil {
			defaultRegistryErr = fmt.Errorf("cvbuilder: register renderers: %w", err)
			return
		}
		defaultRegistry = registry
	})
	if defaultRegistryErr != nil {
		return nil, defaultRegistryErr
	}
	return defaultRegistry.Render(ctx, record, options)
}

// WithThemeSelector forwards a go-theme selector so template tokens can come
// from an external theme catalogue.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// EmbeddedTemplates exposes the built-in CV templates so callers can copy or
// extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheets the templates inline. Typical mount:
//
//	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServerFS(cvbuilder.AssetsFS())))
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
