package html

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

const (
	// DocumentPartial is the manifest template key naming the document template.
	DocumentPartial = "cv.document"
	// StylesheetAsset is the manifest asset key of the template stylesheet.
	StylesheetAsset = "cv.stylesheet"
	// PrintVariant swaps colours for ink-friendly greys.
	PrintVariant = "print"
	// AssetPrefix is where AssetsFS is expected to be mounted.
	AssetPrefix = "/assets/cv"

	themeVersion = "1.0.0"
	cssVarPrefix = "--cv-"
)

var palettes = map[cv.Template]map[string]string{
	cv.TemplateModern: {
		"accent": "#2563eb", "accent-soft": "#fde68a", "accent-strong": "#1d4ed8",
		"text": "#111827", "muted": "#4b5563", "surface": "#ffffff", "rule": "#111827", "chip": "#e0e7ff",
		"heading-font": "'Space Grotesk', 'Helvetica Neue', Arial, sans-serif",
		"body-font":    "'Inter', 'Helvetica Neue', Arial, sans-serif",
	},
	cv.TemplateClassic: {
		"accent": "#7c2d12", "accent-soft": "#fef3c7", "accent-strong": "#451a03",
		"text": "#1c1917", "muted": "#57534e", "surface": "#fffdf8", "rule": "#a8a29e", "chip": "transparent",
		"heading-font": "Georgia, 'Times New Roman', serif",
		"body-font":    "Georgia, 'Times New Roman', serif",
	},
	cv.TemplateMinimal: {
		"accent": "#111827", "accent-soft": "#f9fafb", "accent-strong": "#000000",
		"text": "#111827", "muted": "#6b7280", "surface": "#ffffff", "rule": "#e5e7eb", "chip": "transparent",
		"heading-font": "'Helvetica Neue', Arial, sans-serif",
		"body-font":    "'Helvetica Neue', Arial, sans-serif",
	},
	cv.TemplateProfessional: {
		"accent": "#1e3a8a", "accent-soft": "#dbeafe", "accent-strong": "#0f766e",
		"text": "#0f172a", "muted": "#475569", "surface": "#ffffff", "rule": "#cbd5e1", "chip": "#e2e8f0",
		"heading-font": "'Source Sans Pro', 'Segoe UI', Arial, sans-serif",
		"body-font":    "'Source Sans Pro', 'Segoe UI', Arial, sans-serif",
	},
	cv.TemplateATS: {
		"accent": "#000000", "accent-soft": "#ffffff", "accent-strong": "#000000",
		"text": "#000000", "muted": "#333333", "surface": "#ffffff", "rule": "#000000", "chip": "transparent",
		"heading-font": "Arial, Helvetica, sans-serif",
		"body-font":    "Arial, Helvetica, sans-serif",
	},
}

var printTokens = map[string]string{
	"accent":        "#000000",
	"accent-strong": "#333333",
	"accent-soft":   "#ffffff",
	"chip":          "transparent",
}

// Manifests returns one go-theme manifest per template. The theme name is the
// template id.
func Manifests() []*theme.Manifest {
	out := make([]*theme.Manifest, 0, len(palettes))
	for _, info := range cv.Templates() {
		out = append(out, manifestFor(info.ID))
	}
	return out
}

func manifestFor(tpl cv.Template) *theme.Manifest {
	return &theme.Manifest{
		Name:    string(tpl),
		Version: themeVersion,
		Tokens:  copyStringMap(palettes[tpl]),
		Templates: map[string]string{
			DocumentPartial: string(tpl) + ".tmpl",
		},
		Assets: theme.Assets{
			Prefix: AssetPrefix,
			Files: map[string]string{
				StylesheetAsset: string(tpl) + ".css",
			},
		},
		Variants: map[string]theme.Variant{
			PrintVariant: {
				Tokens: copyStringMap(printTokens),
			},
		},
	}
}

// ThemeCatalog resolves template themes. It satisfies theme.ThemeSelector and
// keeps a go-theme registry of the same manifests for callers that want to
// plug a provider into other go-theme consumers.
type ThemeCatalog struct {
	mu        sync.RWMutex
	provider  theme.ThemeProvider
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ThemeCatalog)(nil)

// NewThemeCatalog registers manifests, defaulting to Manifests().
func NewThemeCatalog(manifests ...*theme.Manifest) (*ThemeCatalog, error) {
	if len(manifests) == 0 {
		manifests = Manifests()
	}
	registry := theme.NewRegistry()
	catalog := &ThemeCatalog{
		provider:  registry,
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("html: register theme %q: %w", manifest.Name, err)
		}
		catalog.manifests[manifest.Name] = manifest
	}
	return catalog, nil
}

// Provider exposes the underlying go-theme registry.
func (c *ThemeCatalog) Provider() theme.ThemeProvider {
	return c.provider
}

// Names lists the registered themes.
func (c *ThemeCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a theme and variant. An unknown variant is an error; an
// empty variant selects the base tokens.
func (c *ThemeCatalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	manifest, ok := c.manifests[strings.TrimSpace(name)]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("html: theme %q not found", name)
	}

	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("html: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig resolves tpl (and an optional variant) into the config
// handed to renderers through render.RenderOptions.Theme.
func (c *ThemeCatalog) RendererConfig(tpl cv.Template, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(string(tpl), variant)
	if err != nil {
		return nil, err
	}
	return RendererConfigFromSelection(selection), nil
}

// RendererConfigFromSelection merges base and variant tokens, partials and
// assets. Variant values win.
func RendererConfigFromSelection(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStringMaps(manifest.Tokens, variant.Tokens)
	partials := mergeStringMaps(manifest.Templates, variant.Templates)
	files := mergeStringMaps(manifest.Assets.Files, variant.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars[cssVarPrefix+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return path.Join(prefix, file)
		},
	}
}

// cssVarsStyle renders CSS variables as a sorted :root rule.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func mergeStringMaps(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
