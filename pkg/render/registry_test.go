package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/render"
)

func register(t *testing.T, registry *render.Registry, templates ...cv.Template) {
	t.Helper()
	for _, tpl := range templates {
		if err := registry.Register(stubRenderer{name: tpl}); err != nil {
			t.Fatalf("register %s: %v", tpl, err)
		}
	}
}

type stubRenderer struct {
	name cv.Template
}

func (s stubRenderer) Name() cv.Template   { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(_ context.Context, record cv.Record, _ render.RenderOptions) ([]byte, error) {
	return []byte(string(s.name) + ":" + record.FullName), nil
}

func TestRegistry_RegisterAndList(t *testing.T) {
	registry := render.NewRegistry()
	register(t, registry, cv.TemplateATS, cv.TemplateModern)

	if err := registry.Register(stubRenderer{name: cv.TemplateATS}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(stubRenderer{name: "fancy"}); err == nil {
		t.Fatalf("expected unknown template error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}

	want := []cv.Template{cv.TemplateModern, cv.TemplateATS}
	if diff := cmp.Diff(want, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if _, err := registry.Get(cv.TemplateClassic); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestRegistry_RenderDispatchesOnTemplate(t *testing.T) {
	registry := render.NewRegistry()
	register(t, registry, cv.TemplateModern, cv.TemplateClassic)

	cases := map[cv.Template]string{
		cv.TemplateClassic: "classic:Ada",
		cv.TemplateModern:  "modern:Ada",
		cv.TemplateMinimal: "modern:Ada",
		"unknown":          "modern:Ada",
	}
	for tpl, want := range cases {
		record := cv.Record{FullName: "Ada", Template: tpl}
		got, err := registry.Render(context.Background(), record, render.RenderOptions{})
		if err != nil {
			t.Fatalf("render %q: %v", tpl, err)
		}
		if string(got) != want {
			t.Fatalf("render %q: want %q, got %q", tpl, want, got)
		}
	}
}

func TestParsePageSize(t *testing.T) {
	cases := map[string]render.PageSize{
		"":        render.PageA4,
		"letter":  render.PageLetter,
		" LEGAL ": render.PageLegal,
		"f4":      render.PageF4,
		"B5":      render.PageA4,
	}
	for raw, want := range cases {
		if got := render.ParsePageSize(raw); got != want {
			t.Fatalf("ParsePageSize(%q) = %q, want %q", raw, got, want)
		}
	}
	if w, h := render.PageLetter.Dimensions(); w != 215.9 || h != 279.4 {
		t.Fatalf("unexpected letter dimensions %vx%v", w, h)
	}
}
