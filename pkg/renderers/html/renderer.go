package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-cvbuilder/pkg/render/template"
	gotemplate "github.com/goliatone/go-cvbuilder/pkg/render/template/gotemplate"
)

// ContentType is the media type of every rendered document.
const ContentType = "text/html; charset=utf-8"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	themes           *ThemeCatalog
	logger           *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeCatalog overrides the default per-template manifests.
func WithThemeCatalog(catalog *ThemeCatalog) Option {
	return func(cfg *config) {
		if catalog != nil {
			cfg.themes = catalog
		}
	}
}

// WithLogger sets the logger used for template failures.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders one template variant. Variants built by NewAll share a
// single template engine.
type Renderer struct {
	template  cv.Template
	templates rendertemplate.TemplateRenderer
	themes    *ThemeCatalog
	logger    *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer for tpl applying any provided options.
func New(tpl cv.Template, options ...Option) (*Renderer, error) {
	renderers, err := build([]cv.Template{tpl}, options...)
	if err != nil {
		return nil, err
	}
	return renderers[0], nil
}

// NewAll constructs all five variants in catalogue order.
func NewAll(options ...Option) ([]*Renderer, error) {
	templates := make([]cv.Template, 0, len(cv.Templates()))
	for _, info := range cv.Templates() {
		templates = append(templates, info.ID)
	}
	return build(templates, options...)
}

// Register adds every variant to registry.
func Register(registry *render.Registry, options ...Option) error {
	if registry == nil {
		return errors.New("html renderer: registry is required")
	}
	renderers, err := NewAll(options...)
	if err != nil {
		return err
	}
	for _, renderer := range renderers {
		if err := registry.Register(renderer); err != nil {
			return err
		}
	}
	return nil
}

func build(templates []cv.Template, options ...Option) ([]*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		goEngine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		engine = goEngine
	}
	if err := engine.RegisterFilter("richtext", richTextFilter); err != nil && !errors.Is(err, gotemplate.ErrFilterExists) {
		return nil, fmt.Errorf("html renderer: register richtext filter: %w", err)
	}

	themes := cfg.themes
	if themes == nil {
		catalog, err := NewThemeCatalog()
		if err != nil {
			return nil, fmt.Errorf("html renderer: load themes: %w", err)
		}
		themes = catalog
	}

	out := make([]*Renderer, 0, len(templates))
	for _, tpl := range templates {
		if !tpl.Valid() {
			return nil, fmt.Errorf("html renderer: unknown template %q", tpl)
		}
		out = append(out, &Renderer{
			template:  tpl,
			templates: engine,
			themes:    themes,
			logger:    cfg.logger,
		})
	}
	return out, nil
}

func (r *Renderer) Name() cv.Template {
	return r.template
}

func (r *Renderer) ContentType() string {
	return ContentType
}

// Render produces a standalone HTML document for record. The record's own
// template field is ignored; the renderer always draws its variant.
func (r *Renderer) Render(ctx context.Context, record cv.Record, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	view := render.BuildView(record)
	view.Template = r.template

	themeCfg := options.Theme
	if themeCfg == nil {
		resolved, err := r.themes.RendererConfig(r.template, "")
		if err != nil {
			r.logger.Warn("theme not resolved, rendering without tokens",
				zap.String("template", string(r.template)), zap.Error(err))
		}
		themeCfg = resolved
	}

	pageSize := options.PageSize
	if pageSize == "" {
		pageSize = render.DefaultPageSize
	}
	width, height := pageSize.Dimensions()

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = view.Header.FullName
	}
	if title == "" {
		title = "CV"
	}

	data := map[string]any{
		"view":        view,
		"title":       title,
		"actions":     options.Actions,
		"printButton": options.Print,
		"page": map[string]any{
			"size":   string(pageSize),
			"width":  width,
			"height": height,
		},
		"styles": map[string]string{
			"theme":    cssVarsStyle(themeVars(themeCfg)),
			"page":     pageStyle(width, height),
			"base":     readAsset(BaseStylesheetName) + "\n" + readAsset(PrintStylesheetName),
			"template": readAsset(string(r.template) + ".css"),
		},
	}

	result, err := r.templates.RenderTemplate(documentTemplate(r.template, themeCfg), data)
	if err != nil {
		r.logger.Error("render cv template", zap.String("template", string(r.template)), zap.Error(err))
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func documentTemplate(tpl cv.Template, cfg *theme.RendererConfig) string {
	if cfg != nil {
		if name := strings.TrimSpace(cfg.Partials[DocumentPartial]); name != "" {
			return name
		}
	}
	return string(tpl) + ".tmpl"
}

func themeVars(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil {
		return nil
	}
	return cfg.CSSVars
}

func pageStyle(width, height float64) string {
	return fmt.Sprintf(
		"@page { size: %gmm %gmm; margin: 0; }\n.cv-preview { width: %gmm; min-height: %gmm; max-width: 100%%; }\n.cv-toolbar { max-width: %gmm; }\n@media print { .cv-preview { width: %gmm; min-height: %gmm; } }",
		width, height, width, height, width, width, height,
	)
}
