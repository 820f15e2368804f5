package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
)

// DefaultDebounce is the quiet period before an autosave fires.
const DefaultDebounce = 2 * time.Second

// ErrClosed is returned by operations on a torn-down controller.
var ErrClosed = errors.New("form: controller closed")

// DraftStore is the slice of *draft.Store the controller writes through.
type DraftStore interface {
	Get(id string) (draft.Draft, bool)
	Save(ctx context.Context, d draft.Draft) (draft.Draft, error)
}

// Status is the derived state surfaced next to the form.
type Status struct {
	DraftID     string
	Pending     bool
	LastSavedAt time.Time
	LastError   error
	Estimate    Estimate
}

// Overflow reports whether the record is estimated to exceed one page.
func (s Status) Overflow() bool {
	return s.Estimate.Exceeds()
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the autosave quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithClock injects the timer source.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnSaved registers a callback invoked after every autosave or flush.
func WithOnSaved(fn func(Status)) Option {
	return func(c *Controller) {
		c.onSaved = fn
	}
}

// WithEstimator replaces the overflow estimator.
func WithEstimator(estimator Estimator) Option {
	return func(c *Controller) {
		if estimator != nil {
			c.estimate = estimator
		}
	}
}

// Controller holds the in-progress record for one draft. An empty draft id
// means there is no active draft: edits are kept in memory only.
type Controller struct {
	mu sync.Mutex

	store    DraftStore
	draftID  string
	clock    Clock
	delay    time.Duration
	logger   *zap.Logger
	onSaved  func(Status)
	estimate Estimator

	ctx    context.Context
	cancel context.CancelFunc

	record     cv.Record
	estimateV  Estimate
	timer      Timer
	generation uint64
	pending    bool
	lastSaved  time.Time
	lastErr    error
	closed     bool
}

// NewController starts editing record for draftID. Autosaves run with a
// context derived from ctx; Close cancels it.
func NewController(ctx context.Context, store DraftStore, draftID string, record cv.Record, options ...Option) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Controller{
		store:    store,
		draftID:  draftID,
		clock:    SystemClock(),
		delay:    DefaultDebounce,
		logger:   zap.NewNop(),
		estimate: EstimatorFor(DefaultMetrics()),
		record:   record.Clone(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.record.EnsureRows()
	c.estimateV = c.estimate(c.record)
	return c
}

// DraftID returns the active draft id, empty when edits are not persisted.
func (c *Controller) DraftID() string {
	return c.draftID
}

// Record returns a copy of the live record.
func (c *Controller) Record() cv.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.Clone()
}

// Status returns the current save/overflow state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{
		DraftID:     c.draftID,
		Pending:     c.pending,
		LastSavedAt: c.lastSaved,
		LastError:   c.lastErr,
		Estimate:    c.estimateV,
	}
}

// Update applies mutate to the live record, re-establishes the row invariant,
// refreshes the overflow estimate and restarts the autosave timer.
func (c *Controller) Update(mutate func(*cv.Record)) error {
	if mutate == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	mutate(&c.record)
	c.afterMutationLocked()
	return nil
}

// Replace swaps the whole record.
func (c *Controller) Replace(record cv.Record) error {
	return c.Update(func(r *cv.Record) {
		*r = record.Clone()
	})
}

func (c *Controller) afterMutationLocked() {
	c.record.EnsureRows()
	c.estimateV = c.estimate(c.record)
	c.scheduleLocked()
}

func (c *Controller) scheduleLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	if c.draftID == "" || c.store == nil {
		c.pending = false
		return
	}
	c.pending = true
	gen := c.generation
	c.timer = c.clock.AfterFunc(c.delay, func() {
		c.autosave(gen)
	})
}

func (c *Controller) autosave(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation || !c.pending {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	status := c.saveLocked(c.ctx)
	onSaved := c.onSaved
	c.mu.Unlock()

	if onSaved != nil {
		onSaved(status)
	}
}

// Flush cancels any pending timer and saves immediately. It is a no-op
// without an active draft.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	if c.draftID == "" || c.store == nil {
		c.pending = false
		c.mu.Unlock()
		return nil
	}
	status := c.saveLocked(ctx)
	onSaved := c.onSaved
	c.mu.Unlock()

	if onSaved != nil {
		onSaved(status)
	}
	return status.LastError
}

func (c *Controller) saveLocked(ctx context.Context) Status {
	current, ok := c.store.Get(c.draftID)
	if !ok {
		now := c.clock.Now().UTC()
		current = draft.Draft{
			ID:        c.draftID,
			Name:      draft.DefaultName(now),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	current.Data = c.record.Clone()

	c.pending = false
	if _, err := c.store.Save(ctx, current); err != nil {
		c.lastErr = err
		c.logger.Warn("autosave failed", zap.String("draft_id", c.draftID), zap.Error(err))
		return c.statusLocked()
	}
	c.lastErr = nil
	c.lastSaved = c.clock.Now()
	c.logger.Debug("draft autosaved", zap.String("draft_id", c.draftID))
	return c.statusLocked()
}

// Close tears the controller down. A pending autosave is cancelled and its
// edits are not persisted.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = false
	c.cancel()
}

// SetField assigns a scalar field addressed by its JSON name.
func (c *Controller) SetField(name, value string) error {
	setter, ok := scalarFields[name]
	if !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	return c.Update(func(r *cv.Record) {
		setter(r, value)
	})
}

// ApplyField assigns a scalar field on r without going through a controller.
// It reports whether name is a known field.
func ApplyField(r *cv.Record, name, value string) bool {
	setter, ok := scalarFields[name]
	if ok && r != nil {
		setter(r, value)
	}
	return ok
}

var scalarFields = map[string]func(*cv.Record, string){
	"fullName": func(r *cv.Record, v string) { r.FullName = v },
	"title":    func(r *cv.Record, v string) { r.Title = v },
	"email":    func(r *cv.Record, v string) { r.Email = v },
	"phone":    func(r *cv.Record, v string) { r.Phone = v },
	"location": func(r *cv.Record, v string) { r.Location = v },
	"website":  func(r *cv.Record, v string) { r.Website = v },
	"linkedin": func(r *cv.Record, v string) { r.LinkedIn = v },
	"github":   func(r *cv.Record, v string) { r.GitHub = v },
	"summary":  func(r *cv.Record, v string) { r.Summary = v },
	"template": func(r *cv.Record, v string) { r.Template = cv.ParseTemplate(v) },
}

// FieldValue reads a scalar field by its JSON name. Unknown names read as
// empty.
func FieldValue(r cv.Record, name string) string {
	switch name {
	case "fullName":
		return r.FullName
	case "title":
		return r.Title
	case "email":
		return r.Email
	case "phone":
		return r.Phone
	case "location":
		return r.Location
	case "website":
		return r.Website
	case "linkedin":
		return r.LinkedIn
	case "github":
		return r.GitHub
	case "summary":
		return r.Summary
	case "template":
		return string(r.Template)
	}
	return ""
}

// ScalarFieldNames lists the fields accepted by SetField.
func ScalarFieldNames() []string {
	return []string{"fullName", "title", "email", "phone", "location", "website", "linkedin", "github", "summary", "template"}
}

// SetTemplate switches the presentation template.
func (c *Controller) SetTemplate(t cv.Template) error {
	return c.SetField("template", string(t))
}

func (c *Controller) AddEducation() error {
	return c.Update(func(r *cv.Record) { r.Education = append(r.Education, cv.Education{}) })
}

func (c *Controller) SetEducation(index int, entry cv.Education) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Education) }, func(r *cv.Record) {
		r.Education[index] = entry
	})
}

func (c *Controller) RemoveEducation(index int) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Education) }, func(r *cv.Record) {
		r.Education = append(r.Education[:index:index], r.Education[index+1:]...)
	})
}

func (c *Controller) AddExperience() error {
	return c.Update(func(r *cv.Record) { r.Experience = append(r.Experience, cv.Experience{}) })
}

func (c *Controller) SetExperience(index int, entry cv.Experience) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Experience) }, func(r *cv.Record) {
		r.Experience[index] = entry
	})
}

func (c *Controller) RemoveExperience(index int) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Experience) }, func(r *cv.Record) {
		r.Experience = append(r.Experience[:index:index], r.Experience[index+1:]...)
	})
}

func (c *Controller) AddSkill() error {
	return c.Update(func(r *cv.Record) { r.Skills = append(r.Skills, "") })
}

func (c *Controller) SetSkill(index int, skill string) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Skills) }, func(r *cv.Record) {
		r.Skills[index] = skill
	})
}

func (c *Controller) RemoveSkill(index int) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Skills) }, func(r *cv.Record) {
		r.Skills = append(r.Skills[:index:index], r.Skills[index+1:]...)
	})
}

func (c *Controller) AddLanguage() error {
	return c.Update(func(r *cv.Record) { r.Languages = append(r.Languages, cv.Language{}) })
}

func (c *Controller) SetLanguage(index int, lang cv.Language) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Languages) }, func(r *cv.Record) {
		r.Languages[index] = lang
	})
}

func (c *Controller) RemoveLanguage(index int) error {
	return c.updateIndex(index, func(r *cv.Record) int { return len(r.Languages) }, func(r *cv.Record) {
		r.Languages = append(r.Languages[:index:index], r.Languages[index+1:]...)
	})
}

func (c *Controller) updateIndex(index int, size func(*cv.Record) int, mutate func(*cv.Record)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if n := size(&c.record); index < 0 || index >= n {
		return fmt.Errorf("form: index %d out of range [0,%d)", index, n)
	}
	mutate(&c.record)
	c.afterMutationLocked()
	return nil
}
