package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
	"github.com/goliatone/go-cvbuilder/pkg/form"
)

type countingStore struct {
	*draft.Store
	mu    sync.Mutex
	saves []draft.Draft
}

func (s *countingStore) Save(ctx context.Context, d draft.Draft) (draft.Draft, error) {
	s.mu.Lock()
	s.saves = append(s.saves, d.Clone())
	s.mu.Unlock()
	return s.Store.Save(ctx, d)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func newFixture(t *testing.T) (*countingStore, draft.Draft, *manualClock) {
	t.Helper()
	ctx := context.Background()
	store := &countingStore{Store: draft.NewStore(ctx, draft.NewMemoryBackend())}
	d := store.Store.CreateNew()
	if _, err := store.Store.Save(ctx, d); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	return store, d, newManualClock()
}

func TestController_DebounceCollapsesBurstIntoOneSave(t *testing.T) {
	store, d, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data, form.WithClock(clock))
	t.Cleanup(ctrl.Close)

	for _, name := range []string{"J", "Ja", "Jan", "Jane", "Jane Doe"} {
		if err := ctrl.SetField("fullName", name); err != nil {
			t.Fatalf("set field: %v", err)
		}
		clock.Advance(500 * time.Millisecond)
	}
	if store.count() != 0 {
		t.Fatalf("expected no save during the burst, got %d", store.count())
	}
	if !ctrl.Status().Pending {
		t.Fatalf("expected pending save")
	}

	clock.Advance(form.DefaultDebounce)

	if store.count() != 1 {
		t.Fatalf("expected exactly one save, got %d", store.count())
	}
	saved, _ := store.Get(d.ID)
	if saved.Data.FullName != "Jane Doe" {
		t.Fatalf("expected final state persisted, got %q", saved.Data.FullName)
	}
	status := ctrl.Status()
	if status.Pending || !status.LastSavedAt.Equal(clock.Now()) {
		t.Fatalf("unexpected status after save: %+v", status)
	}

	clock.Advance(10 * form.DefaultDebounce)
	if store.count() != 1 {
		t.Fatalf("expected no further saves while idle, got %d", store.count())
	}
}

func TestController_CloseCancelsPendingSave(t *testing.T) {
	store, d, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data, form.WithClock(clock))

	if err := ctrl.SetField("title", "Engineer"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	ctrl.Close()
	clock.Advance(form.DefaultDebounce * 2)

	if store.count() != 0 {
		t.Fatalf("expected pending save to be dropped, got %d saves", store.count())
	}
	if err := ctrl.SetField("title", "Lead"); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
}

func TestController_NoActiveDraftNeverPersists(t *testing.T) {
	store, _, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, "", cv.Sample(), form.WithClock(clock))
	t.Cleanup(ctrl.Close)

	if err := ctrl.SetField("fullName", "Preview Only"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	clock.Advance(form.DefaultDebounce)

	if store.count() != 0 {
		t.Fatalf("expected no saves without an active draft, got %d", store.count())
	}
	if ctrl.Status().Pending {
		t.Fatalf("expected nothing pending")
	}
}

func TestController_AutosaveRecreatesMissingDraft(t *testing.T) {
	store, _, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, "deleted-elsewhere", cv.NewRecord(), form.WithClock(clock))
	t.Cleanup(ctrl.Close)

	if err := ctrl.SetField("fullName", "Ada"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	clock.Advance(form.DefaultDebounce)

	got, ok := store.Get("deleted-elsewhere")
	if !ok || got.Data.FullName != "Ada" {
		t.Fatalf("expected draft to be recreated, got %+v (ok=%v)", got, ok)
	}
}

func TestController_CustomDebounceAndOnSaved(t *testing.T) {
	store, d, clock := newFixture(t)
	var statuses []form.Status
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data,
		form.WithClock(clock),
		form.WithDebounce(5*time.Second),
		form.WithOnSaved(func(s form.Status) { statuses = append(statuses, s) }),
	)
	t.Cleanup(ctrl.Close)

	_ = ctrl.SetField("phone", "+1 555")
	clock.Advance(2 * time.Second)
	if len(statuses) != 0 {
		t.Fatalf("saved before the configured delay")
	}
	clock.Advance(3 * time.Second)
	if len(statuses) != 1 || statuses[0].DraftID != d.ID {
		t.Fatalf("expected one onSaved callback, got %+v", statuses)
	}
}

func TestController_SystemClockAutosaves(t *testing.T) {
	store, d, _ := newFixture(t)
	saved := make(chan form.Status, 1)
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data,
		form.WithDebounce(10*time.Millisecond),
		form.WithOnSaved(func(s form.Status) { saved <- s }),
	)
	t.Cleanup(ctrl.Close)

	_ = ctrl.SetField("fullName", "Grace")
	select {
	case status := <-saved:
		if status.LastError != nil {
			t.Fatalf("autosave error: %v", status.LastError)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("autosave did not fire")
	}
	if got, _ := store.Get(d.ID); got.Data.FullName != "Grace" {
		t.Fatalf("expected persisted name, got %q", got.Data.FullName)
	}
}

func TestController_RemovingLastRowKeepsOneBlankRow(t *testing.T) {
	store, d, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data, form.WithClock(clock))
	t.Cleanup(ctrl.Close)

	if err := ctrl.SetSkill(0, "Go"); err != nil {
		t.Fatalf("set skill: %v", err)
	}
	for _, remove := range []func(int) error{ctrl.RemoveSkill, ctrl.RemoveExperience, ctrl.RemoveEducation, ctrl.RemoveLanguage} {
		if err := remove(0); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}

	record := ctrl.Record()
	if diff := cmp.Diff(cv.NewRecord(), record); diff != "" {
		t.Fatalf("expected one blank row per collection (-want +got):\n%s", diff)
	}
	if err := ctrl.RemoveSkill(3); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestController_RowEditing(t *testing.T) {
	store, d, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data, form.WithClock(clock))
	t.Cleanup(ctrl.Close)

	_ = ctrl.AddExperience()
	_ = ctrl.SetExperience(1, cv.Experience{Company: "Acme", Position: "Dev"})
	_ = ctrl.AddLanguage()
	_ = ctrl.SetLanguage(1, cv.Language{Name: "English", Level: cv.LevelNative})
	_ = ctrl.AddEducation()
	_ = ctrl.SetEducation(1, cv.Education{School: "MIT"})
	_ = ctrl.AddSkill()
	_ = ctrl.SetTemplate(cv.TemplateATS)

	record := ctrl.Record()
	if len(record.Experience) != 2 || record.Experience[1].Company != "Acme" {
		t.Fatalf("unexpected experience: %+v", record.Experience)
	}
	if len(record.Languages) != 2 || len(record.Education) != 2 || len(record.Skills) != 2 {
		t.Fatalf("unexpected collections: %+v", record)
	}
	if record.Template != cv.TemplateATS {
		t.Fatalf("expected ats template, got %q", record.Template)
	}
	if err := ctrl.SetField("nickname", "x"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestController_RecordIsACopy(t *testing.T) {
	store, d, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data, form.WithClock(clock))
	t.Cleanup(ctrl.Close)

	record := ctrl.Record()
	record.Skills[0] = "mutated"
	if ctrl.Record().Skills[0] != "" {
		t.Fatalf("Record must not expose internal state")
	}
}

func TestApplyField(t *testing.T) {
	record := cv.NewRecord()
	if !form.ApplyField(&record, "fullName", "Ada") || record.FullName != "Ada" {
		t.Fatalf("expected fullName to be applied, got %q", record.FullName)
	}
	if !form.ApplyField(&record, "template", "nope") || record.Template != cv.DefaultTemplate {
		t.Fatalf("expected unknown template to resolve to default, got %q", record.Template)
	}
	if form.ApplyField(&record, "photo", "data:image/png;base64,AA==") {
		t.Fatalf("photo is not a scalar form field")
	}
	for _, name := range form.ScalarFieldNames() {
		if !form.ApplyField(&record, name, "x") {
			t.Fatalf("scalar field %q not accepted", name)
		}
		if name != "template" && form.FieldValue(record, name) != "x" {
			t.Fatalf("field %q did not round trip", name)
		}
	}
	if got := form.FieldValue(record, "template"); got != string(cv.DefaultTemplate) {
		t.Fatalf("unexpected template value %q", got)
	}
}
