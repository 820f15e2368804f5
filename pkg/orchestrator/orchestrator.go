package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
	"github.com/goliatone/go-cvbuilder/pkg/form"
	"github.com/goliatone/go-cvbuilder/pkg/render"
	"github.com/goliatone/go-cvbuilder/pkg/renderers/html"
)

// Screen is one state of the flow.
type Screen string

const (
	ScreenWelcome Screen = "welcome"
	ScreenForm    Screen = "form"
	ScreenPreview Screen = "preview"
)

var (
	// ErrInvalidTransition is returned when an action is not available on the
	// current screen. The state is left unchanged.
	ErrInvalidTransition = errors.New("orchestrator: invalid transition")
	// ErrDraftNotFound reports a Continue for an id the store no longer has.
	// The orchestrator stays on Welcome.
	ErrDraftNotFound = errors.New("orchestrator: draft not found")
)

// DraftStore is the subset of *draft.Store the orchestrator uses.
type DraftStore interface {
	List() []draft.Draft
	Get(id string) (draft.Draft, bool)
	Save(ctx context.Context, d draft.Draft) (draft.Draft, error)
	Delete(ctx context.Context, id string) error
	CreateNew() draft.Draft
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry. Without one the five built-in
// HTML variants are registered on first render.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithFormOptions forwards options to every form controller the orchestrator
// creates (debounce delay, clock, estimator).
func WithFormOptions(options ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// WithThemeSelector resolves theme tokens for previews. The record's template
// is used as the theme name.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// WithThemeVariant selects the theme variant used for previews.
func WithThemeVariant(variant string) Option {
	return func(o *Orchestrator) {
		o.themeVariant = variant
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBaseContext sets the parent context of form controllers. Autosaves
// outlive the request that triggered them, so this should not be a request
// context.
func WithBaseContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.baseCtx = ctx
		}
	}
}

// State is a snapshot of the orchestrator. ActiveDraftID is empty when edits
// are not persisted (the example preview).
type State struct {
	Screen        Screen    `json:"screen"`
	ActiveDraftID string    `json:"activeDraftId"`
	Record        cv.Record `json:"record"`
	// Notice carries a one-shot, non-fatal message for the user.
	Notice string `json:"notice,omitempty"`
}

// Orchestrator owns one user's navigation state. Methods are safe for
// concurrent use but are expected to be driven by a single user.
type Orchestrator struct {
	mu sync.Mutex

	store        DraftStore
	registry     *render.Registry
	themes       theme.ThemeSelector
	themeVariant string
	formOptions  []form.Option
	logger       *zap.Logger
	baseCtx      context.Context

	registryOnce  sync.Once
	initialiseErr error

	screen     Screen
	activeID   string
	record     cv.Record
	controller *form.Controller
	notice     string
}

// New constructs an Orchestrator on the Welcome screen.
func New(store DraftStore, options ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   store,
		logger:  zap.NewNop(),
		baseCtx: context.Background(),
		screen:  ScreenWelcome,
		record:  cv.NewRecord(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// State returns a snapshot. While on Form, Record reflects the live edits.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

func (o *Orchestrator) stateLocked() State {
	record := o.record
	if o.controller != nil {
		record = o.controller.Record()
	}
	return State{
		Screen:        o.screen,
		ActiveDraftID: o.activeID,
		Record:        record.Clone(),
		Notice:        o.notice,
	}
}

// TakeNotice returns and clears the pending notice.
func (o *Orchestrator) TakeNotice() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	notice := o.notice
	o.notice = ""
	return notice
}

// Controller exposes the form controller while on Form, nil otherwise.
func (o *Orchestrator) Controller() *form.Controller {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.controller
}

// Drafts lists the persisted drafts.
func (o *Orchestrator) Drafts() []draft.Draft {
	return o.store.List()
}

// StartNew creates and persists a blank draft, then opens it in the form.
func (o *Orchestrator) StartNew(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expectLocked(ScreenWelcome, "start new draft"); err != nil {
		return err
	}
	d := o.store.CreateNew()
	o.persistNewLocked(ctx, d)
	o.enterFormLocked(d.ID, d.Data)
	return nil
}

// LoadExample copies the example CV into a new draft and opens it.
func (o *Orchestrator) LoadExample(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expectLocked(ScreenWelcome, "load example"); err != nil {
		return err
	}
	d := o.store.CreateNew()
	d.Data = cv.Sample()
	o.persistNewLocked(ctx, d)
	o.enterFormLocked(d.ID, d.Data)
	return nil
}

// PreviewExample shows the example CV without creating a draft.
func (o *Orchestrator) PreviewExample(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expectLocked(ScreenWelcome, "preview example"); err != nil {
		return err
	}
	o.activeID = ""
	o.record = cv.Sample()
	o.screen = ScreenPreview
	o.notice = ""
	return nil
}

// Continue opens an existing draft. An unknown id keeps the orchestrator on
// Welcome, sets a notice and returns ErrDraftNotFound.
func (o *Orchestrator) Continue(_ context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expectLocked(ScreenWelcome, "continue draft"); err != nil {
		return err
	}
	d, ok := o.store.Get(id)
	if !ok {
		o.notice = "That draft no longer exists."
		o.logger.Info("continue: draft not found", zap.String("draft_id", id))
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	o.enterFormLocked(d.ID, d.Data)
	return nil
}

// DeleteDraft removes a draft and stays on Welcome.
func (o *Orchestrator) DeleteDraft(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expectLocked(ScreenWelcome, "delete draft"); err != nil {
		return err
	}
	if err := o.store.Delete(ctx, id); err != nil {
		o.logger.Error("delete draft", zap.String("draft_id", id), zap.Error(err))
		return err
	}
	return nil
}

// Back returns to Welcome from Form or Preview. Leaving the form flushes any
// pending autosave and drops the active draft association.
func (o *Orchestrator) Back(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.screen {
	case ScreenForm:
		if err := o.controller.Flush(ctx); err != nil {
			o.logger.Warn("back: flush draft", zap.String("draft_id", o.activeID), zap.Error(err))
		}
		o.leaveFormLocked()
	case ScreenPreview:
	default:
		return o.invalidLocked("back")
	}

	o.screen = ScreenWelcome
	o.activeID = ""
	o.record = cv.NewRecord()
	return nil
}

// Submit validates and, after any overflow confirmation, moves to Preview.
// The draft store is written before the transition when a draft is active.
// A declined overflow prompt keeps the form open and returns the result with
// Accepted false.
func (o *Orchestrator) Submit(ctx context.Context, confirm form.ConfirmFunc) (form.SubmitResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expectLocked(ScreenForm, "submit"); err != nil {
		return form.SubmitResult{}, err
	}
	result, err := o.controller.Submit(ctx, confirm)
	if err != nil || !result.Accepted {
		return result, err
	}

	o.leaveFormLocked()
	o.record = result.Record
	o.screen = ScreenPreview
	return result, nil
}

// Edit re-enters the form from Preview with the same record and draft.
func (o *Orchestrator) Edit(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expectLocked(ScreenPreview, "edit"); err != nil {
		return err
	}
	o.enterFormLocked(o.activeID, o.record)
	return nil
}

// RenderPreview renders the previewed record with its selected template.
func (o *Orchestrator) RenderPreview(ctx context.Context, options render.RenderOptions) ([]byte, error) {
	o.mu.Lock()
	if o.screen != ScreenPreview {
		err := o.invalidLocked("render preview")
		o.mu.Unlock()
		return nil, err
	}
	record := o.record.Clone()
	o.mu.Unlock()

	registry, err := o.rendererRegistry()
	if err != nil {
		return nil, err
	}
	if options.Theme == nil {
		options.Theme = o.themeFor(record.Template)
	}

	output, err := registry.Render(ctx, record, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render preview: %w", err)
	}
	return output, nil
}

// Close releases the form controller. Pending autosaves are dropped.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leaveFormLocked()
}

func (o *Orchestrator) rendererRegistry() (*render.Registry, error) {
	o.registryOnce.Do(func() {
		if o.registry != nil {
			return
		}
		registry := render.NewRegistry()
		if err := html.Register(registry, html.WithLogger(o.logger)); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: register html renderers: %w", err)
			return
		}
		o.registry = registry
	})
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	return o.registry, nil
}

func (o *Orchestrator) themeFor(tpl cv.Template) *theme.RendererConfig {
	if o.themes == nil {
		return nil
	}
	selection, err := o.themes.Select(string(cv.ParseTemplate(string(tpl))), o.themeVariant)
	if err != nil {
		o.logger.Warn("theme selection failed", zap.String("template", string(tpl)), zap.Error(err))
		return nil
	}
	return html.RendererConfigFromSelection(selection)
}

func (o *Orchestrator) persistNewLocked(ctx context.Context, d draft.Draft) {
	if _, err := o.store.Save(ctx, d); err != nil {
		o.logger.Warn("persist new draft", zap.String("draft_id", d.ID), zap.Error(err))
	}
}

func (o *Orchestrator) enterFormLocked(id string, record cv.Record) {
	o.leaveFormLocked()
	o.activeID = id
	o.record = record.Clone()
	o.controller = form.NewController(o.baseCtx, o.store, id, o.record, o.controllerOptions()...)
	o.screen = ScreenForm
	o.notice = ""
}

func (o *Orchestrator) controllerOptions() []form.Option {
	options := []form.Option{form.WithLogger(o.logger)}
	return append(options, o.formOptions...)
}

func (o *Orchestrator) leaveFormLocked() {
	if o.controller == nil {
		return
	}
	o.record = o.controller.Record()
	o.controller.Close()
	o.controller = nil
}

func (o *Orchestrator) expectLocked(screen Screen, action string) error {
	if o.screen != screen {
		return o.invalidLocked(action)
	}
	return nil
}

func (o *Orchestrator) invalidLocked(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, o.screen)
}
