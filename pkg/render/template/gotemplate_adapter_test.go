package template_test

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-cvbuilder/pkg/render/template/gotemplate"
	"github.com/goliatone/go-cvbuilder/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func TestEngineRenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("result mismatch\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", want, written)
	}
}

func TestEngineGlobals(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global.tmpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("globals mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngineGlobalsOption(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS(t)),
		gotemplate.WithGlobals(map[string]any{"settings": map[string]string{"env": "print"}}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(result, "Environment: print") {
		t.Fatalf("expected seeded global, got %q", result)
	}
}

func TestEngineRegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("filter mismatch\nwant: %q\n got: %q", want, result)
	}

	err = engine.RegisterFilter("shout", func(input any, _ any) (any, error) { return input, nil })
	if !errors.Is(err, gotemplate.ErrFilterExists) {
		t.Fatalf("expected ErrFilterExists, got %v", err)
	}
}

func TestEngineBuiltinFilters(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("builtin-filters", map[string]any{"name": "jane  doe smith"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "builtin-filters.golden"))
	if result != want {
		t.Fatalf("builtin filters mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngineUsesJSONFieldNames(t *testing.T) {
	engine := newEngine(t)

	type header struct {
		FullName string `json:"fullName"`
	}
	result, err := engine.Render("<h1>{{ header.fullName }}</h1>", map[string]any{
		"header": header{FullName: "Ada <Lovelace>"},
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := "<h1>Ada &lt;Lovelace&gt;</h1>"; result != want {
		t.Fatalf("render string mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngineDirSourceAndCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.html")
	if err := os.WriteFile(path, []byte("v1 {{ name }}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithDir(dir), gotemplate.WithExtension("html"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var buf bytes.Buffer
	if _, err := engine.RenderTemplate("cv", map[string]any{"name": "Ada"}, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "v1 Ada" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	if err := os.WriteFile(path, []byte("v2 {{ name }}"), 0o644); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	result, err := engine.RenderTemplate("cv.html", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "v1 Ada" {
		t.Fatalf("expected cached template, got %q", result)
	}
}

func TestEngineErrors(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without a template source")
	}

	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, err := engine.RenderTemplate("hello", []string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected error for non-object data")
	}
}

func templatesFS(t *testing.T) fs.FS {
	t.Helper()
	files, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return files
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS(t)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
