package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-cvbuilder/pkg/render/template"
)

// ErrFilterExists is returned by RegisterFilter when the name is taken.
// pongo2 filters are process-wide, so a second engine sees the first
// engine's filters.
var ErrFilterExists = errors.New("filter already exists")

const defaultExtension = ".tmpl"

// Option configures an Engine.
type Option func(*config)

type config struct {
	files     []fs.FS
	extension string
	globals   map[string]any
}

// WithFS adds a template source. Sources are searched in the order given.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.files = append(cfg.files, files)
		}
	}
}

// WithDir adds a directory on disk as a template source.
func WithDir(dir string) Option {
	return func(cfg *config) {
		if dir = strings.TrimSpace(dir); dir != "" {
			cfg.files = append(cfg.files, os.DirFS(dir))
		}
	}
}

// WithExtension sets the suffix appended to template names that lack it.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// Engine renders pongo2 templates. Parsed templates are cached by name.
type Engine struct {
	mu     sync.RWMutex
	set    *pongo2.TemplateSet
	cache  map[string]*pongo2.Template
	suffix string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine over at least one template source.
func New(options ...Option) (*Engine, error) {
	cfg := config{extension: defaultExtension}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.files) == 0 {
		return nil, errors.New("gotemplate: no template source configured")
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(cfg.files))
	for _, files := range cfg.files {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}

	e := &Engine{
		set:    pongo2.NewSet("cvbuilder", loaders...),
		cache:  make(map[string]*pongo2.Template),
		suffix: cfg.extension,
	}
	registerBuiltinFilters()

	if len(cfg.globals) > 0 {
		if err := e.GlobalContext(cfg.globals); err != nil {
			return nil, fmt.Errorf("gotemplate: globals: %w", err)
		}
	}
	return e, nil
}

// Render treats name as inline template source when it contains template
// tags, and as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if !strings.HasSuffix(name, e.suffix) {
		name += e.suffix
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out)
}

func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return e.execute(tmpl, "inline", data, out)
}

// RegisterFilter exposes fn to templates as a pongo2 filter.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q: %w", name, ErrFilterExists)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	values, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(values)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	values, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data for %q: %w", name, err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(values, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", name, err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// toContext flattens data into plain maps and slices through JSON, so
// templates address struct fields by their json names.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	values := pongo2.Context{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("template data must be an object: %w", err)
	}
	return values, nil
}

var builtinOnce sync.Once

func registerBuiltinFilters() {
	builtinOnce.Do(func() {
		if !pongo2.FilterExists("initials") {
			_ = pongo2.RegisterFilter("initials", filterInitials)
		}
	})
}

// filterInitials reduces a full name to at most two uppercase initials for
// the photo placeholder.
func filterInitials(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var initials []rune
	for _, word := range strings.Fields(in.String()) {
		r, _ := utf8.DecodeRuneInString(word)
		if r == utf8.RuneError {
			continue
		}
		if initials = append(initials, r); len(initials) == 2 {
			break
		}
	}
	return pongo2.AsValue(strings.ToUpper(string(initials))), nil
}
