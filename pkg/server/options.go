package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/form"
	"github.com/goliatone/go-cvbuilder/pkg/orchestrator"
	"github.com/goliatone/go-cvbuilder/pkg/render"
)

// GuardFunc authorises API requests. Returning an HTTPError selects the
// response status.
type GuardFunc func(r *http.Request) error

type Options struct {
	CookieName      string
	CookieSecure    bool
	DefaultPageSize render.PageSize
	MaxUploadBytes  int64
	Guard           GuardFunc
	Logger          *zap.Logger

	FormOptions         []form.Option
	OrchestratorOptions []orchestrator.Option
}

type OptionFn func(*Options)

const (
	defaultCookieName = "cvb_session"
	// multipart framing on top of the photo itself
	uploadOverhead int64 = 64 * 1024
)

func DefaultOptions() Options {
	return Options{
		CookieName:      defaultCookieName,
		DefaultPageSize: render.DefaultPageSize,
		MaxUploadBytes:  form.MaxPhotoSize + uploadOverhead,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.DefaultPageSize == "" {
		opts.DefaultPageSize = render.DefaultPageSize
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = form.MaxPhotoSize + uploadOverhead
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FormOptions != nil {
		opts.FormOptions = append([]form.Option{}, opts.FormOptions...)
	}
	if opts.OrchestratorOptions != nil {
		opts.OrchestratorOptions = append([]orchestrator.Option{}, opts.OrchestratorOptions...)
	}
	return opts
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

func WithSecureCookie(secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieSecure = secure
	}
}

func WithDefaultPageSize(size render.PageSize) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultPageSize = size
	}
}

func WithMaxUploadBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxUploadBytes = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithFormOptions forwards options to every form controller, e.g. the
// autosave debounce.
func WithFormOptions(options ...form.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormOptions = append(o.FormOptions, options...)
	}
}

func WithOrchestratorOptions(options ...orchestrator.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OrchestratorOptions = append(o.OrchestratorOptions, options...)
	}
}

// sessionTTL is the idle time after which Sweep drops a session.
const sessionTTL = 2 * time.Hour
