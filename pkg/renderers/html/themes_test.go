package html_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/renderers/html"
)

func TestThemeCatalog_OneManifestPerTemplate(t *testing.T) {
	catalog, err := html.NewThemeCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	want := []string{"ats", "classic", "minimal", "modern", "professional"}
	if diff := cmp.Diff(want, catalog.Names()); diff != "" {
		t.Fatalf("theme names mismatch (-want +got):\n%s", diff)
	}
	if catalog.Provider() == nil {
		t.Fatalf("expected go-theme provider")
	}
}

func TestThemeCatalog_RendererConfig(t *testing.T) {
	catalog, err := html.NewThemeCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	cfg, err := catalog.RendererConfig(cv.TemplateClassic, "")
	if err != nil {
		t.Fatalf("renderer config: %v", err)
	}
	if cfg.Theme != "classic" || cfg.Variant != "" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials[html.DocumentPartial] != "classic.tmpl" {
		t.Fatalf("unexpected document partial %q", cfg.Partials[html.DocumentPartial])
	}
	if got := cfg.AssetURL(html.StylesheetAsset); got != "/assets/cv/classic.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
	if cfg.CSSVars["--cv-heading-font"] == "" {
		t.Fatalf("expected css vars derived from tokens")
	}

	if _, err := catalog.RendererConfig(cv.TemplateClassic, "neon"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := catalog.Select("unknown", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}
