package render

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// Registry stores renderers by template, providing discovery and duplication
// safeguards.
type Registry struct {
	mu        sync.RWMutex
	renderers map[cv.Template]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[cv.Template]Renderer),
	}
}

// Register adds a renderer by its Name(). Duplicate or unknown templates
// return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}
	if !name.Valid() {
		return fmt.Errorf("render: unknown template %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}

	r.renderers[name] = renderer
	return nil
}

// Get retrieves a renderer by template.
func (r *Registry) Get(name cv.Template) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns the registered templates in catalogue order.
func (r *Registry) List() []cv.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order := make(map[cv.Template]int, len(cv.Templates()))
	for i, info := range cv.Templates() {
		order[info.ID] = i
	}

	names := make([]cv.Template, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return order[names[i]] < order[names[j]]
	})
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name cv.Template) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

// Resolve picks the renderer for record.Template. Unknown or unregistered
// templates fall back to cv.DefaultTemplate.
func (r *Registry) Resolve(record cv.Record) (Renderer, error) {
	name := cv.ParseTemplate(string(record.Template))
	if r.Has(name) {
		return r.Get(name)
	}
	return r.Get(cv.DefaultTemplate)
}

// Render is the single dispatch point from a record to its document.
func (r *Registry) Render(ctx context.Context, record cv.Record, options RenderOptions) ([]byte, error) {
	renderer, err := r.Resolve(record)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, record, options)
}
