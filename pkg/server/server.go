package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/apidoc"
	"github.com/goliatone/go-cvbuilder/pkg/orchestrator"
	"github.com/goliatone/go-cvbuilder/pkg/render"
	"github.com/goliatone/go-cvbuilder/pkg/render/template/gotemplate"
	"github.com/goliatone/go-cvbuilder/pkg/renderers/html"
)

//go:embed templates/*.tmpl
var embeddedPages embed.FS

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Store is the draft persistence the server reads and writes. *draft.Store
// satisfies it.
type Store = orchestrator.DraftStore

// Server wires sessions, the draft store and the renderers to HTTP.
type Server struct {
	store    Store
	registry *render.Registry
	sessions *orchestrator.Sessions
	doc      *apidoc.Document
	pages    *gotemplate.Engine
	opts     Options
	logger   *zap.Logger
}

// New builds a Server. A nil registry gets the built-in HTML renderers.
func New(store Store, registry *render.Registry, fns ...OptionFn) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("server: missing draft store")
	}
	opts := NewOptions(fns...)

	if registry == nil {
		registry = render.NewRegistry()
		if err := html.Register(registry, html.WithLogger(opts.Logger)); err != nil {
			return nil, fmt.Errorf("server: register renderers: %w", err)
		}
	}

	doc, err := apidoc.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("server: load api contract: %w", err)
	}

	pagesFS, err := fs.Sub(embeddedPages, "templates")
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}
	pages, err := gotemplate.New(gotemplate.WithFS(pagesFS))
	if err != nil {
		return nil, fmt.Errorf("server: page engine: %w", err)
	}

	s := &Server{
		store:    store,
		registry: registry,
		doc:      doc,
		pages:    pages,
		opts:     opts,
		logger:   opts.Logger,
	}
	s.sessions = orchestrator.NewSessions(s.newOrchestrator)
	return s, nil
}

func (s *Server) newOrchestrator() *orchestrator.Orchestrator {
	options := []orchestrator.Option{
		orchestrator.WithRegistry(s.registry),
		orchestrator.WithLogger(s.logger),
		orchestrator.WithFormOptions(s.opts.FormOptions...),
	}
	options = append(options, s.opts.OrchestratorOptions...)
	return orchestrator.New(s.store, options...)
}

// Handler serves every route at the root path.
func (s *Server) Handler() http.Handler {
	return s.handler("")
}

// RegisterRoutes mounts the server under basePath on mux and returns the
// registered pattern.
func (s *Server) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("server: missing mux")
	}
	prefix := mountPath(basePath)
	if prefix == "" {
		mux.Handle("/", s.handler(""))
		return "/", nil
	}
	pattern := prefix + "/"
	mux.Handle(pattern, http.StripPrefix(prefix, s.handler(prefix)))
	return pattern, nil
}

// Sessions exposes the live session table.
func (s *Server) Sessions() *orchestrator.Sessions {
	return s.sessions
}

// SweepSessions drops sessions idle for longer than maxIdle, or the default
// TTL when maxIdle is not positive.
func (s *Server) SweepSessions(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		maxIdle = sessionTTL
	}
	removed := s.sessions.Sweep(maxIdle)
	if removed > 0 {
		s.logger.Debug("swept idle sessions", zap.Int("removed", removed))
	}
	return removed
}

// Close tears down every session. Pending autosaves are dropped, so callers
// shutting down gracefully should stop accepting requests first.
func (s *Server) Close() {
	s.sessions.CloseAll()
}

func (s *Server) handler(base string) http.Handler {
	mux := http.NewServeMux()
	routes := &routes{server: s, base: base}
	routes.register(mux)
	return mux
}

func mountPath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}
