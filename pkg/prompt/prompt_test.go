package prompt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
	"github.com/goliatone/go-cvbuilder/pkg/form"
	"github.com/goliatone/go-cvbuilder/pkg/orchestrator"
	"github.com/goliatone/go-cvbuilder/pkg/prompt"
	"github.com/goliatone/go-cvbuilder/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	selectErr    error
}

func (s *stubDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ prompt.TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ prompt.ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ prompt.SelectConfig) (int, error) {
	if s.selectErr != nil {
		return 0, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) said(fragment string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func (s *stubDriver) exhausted(t *testing.T) {
	t.Helper()
	if s.inputPos != len(s.inputs) || s.selectPos != len(s.selectIdx) || s.confirmPos != len(s.confirm) || s.textPos != len(s.textAreas) {
		t.Fatalf("prompts not consumed as expected: input %d/%d select %d/%d confirm %d/%d text %d/%d",
			s.inputPos, len(s.inputs), s.selectPos, len(s.selectIdx), s.confirmPos, len(s.confirm), s.textPos, len(s.textAreas))
	}
}

func newSession(t *testing.T, store *draft.Store, driver *stubDriver, options ...prompt.Option) (*prompt.Session, *orchestrator.Orchestrator) {
	t.Helper()
	o := orchestrator.New(store, orchestrator.WithFormOptions(form.WithDebounce(time.Hour)))
	t.Cleanup(o.Close)
	options = append([]prompt.Option{prompt.WithDriver(driver)}, options...)
	return prompt.NewSession(o, options...), o
}

func TestConfirmer_PrintsPromptAndAsks(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true}}
	confirm := prompt.Confirmer(driver)

	ok, err := confirm(context.Background(), form.OverflowPrompt(form.Estimate{Score: 1500, PageHeight: 1123}))
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got %v %v", ok, err)
	}
	if !driver.said("1500px") || !driver.said("Recommendations:") {
		t.Fatalf("expected prompt text to be printed, got %q", driver.infoMessages)
	}
}

func TestSession_NewDraftSubmitAndSave(t *testing.T) {
	store := testsupport.NewStore(t)
	out := filepath.Join(t.TempDir(), "jane.html")
	driver := &stubDriver{
		// welcome: new, form: personal, summary, generate, preview: save (Letter), quit
		selectIdx: []int{0, 0, 1, 9, 0, 2, 3},
		inputs:    []string{"Jane Doe", "Engineer", "jane@example.com", "+1 555 0100", "Berlin", "", "", "", out},
		textAreas: []string{"Builds **reliable** systems."},
	}
	session, o := newSession(t, store, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.exhausted(t)

	if o.State().Screen != orchestrator.ScreenPreview {
		t.Fatalf("expected to quit from preview, got %s", o.State().Screen)
	}
	saved := store.List()
	if len(saved) != 1 || saved[0].Data.FullName != "Jane Doe" || saved[0].Data.Location != "Berlin" {
		t.Fatalf("unexpected drafts %+v", saved)
	}

	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"Jane Doe", "<strong>reliable</strong>", "215.9mm 279.4mm"} {
		if !strings.Contains(string(html), want) {
			t.Fatalf("expected output to contain %q", want)
		}
	}
	if !driver.said("Saved " + out) {
		t.Fatalf("expected save confirmation, got %q", driver.infoMessages)
	}
}

func TestSession_SaveFailureStaysOnPreview(t *testing.T) {
	store := testsupport.NewStore(t)
	missing := filepath.Join(t.TempDir(), "definitely", "missing", "cv.html")
	driver := &stubDriver{
		// welcome: preview example, save to a missing dir (A4), save with an
		// empty path (A4), quit
		selectIdx: []int{2, 0, 0, 0, 0, 3},
		inputs:    []string{missing, "  "},
	}
	session, o := newSession(t, store, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.exhausted(t)

	if o.State().Screen != orchestrator.ScreenPreview {
		t.Fatalf("expected to stay on preview, got %s", o.State().Screen)
	}
	if len(store.List()) != 0 {
		t.Fatalf("previewing the example must not create drafts")
	}
	if _, err := os.Stat(missing); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output file, got %v", err)
	}
	if !driver.said("Could not save: prompt: write preview: open " + missing) {
		t.Fatalf("expected write failure to be reported, got %q", driver.infoMessages)
	}
	if !driver.said("Could not save: " + prompt.ErrNoOutput.Error()) {
		t.Fatalf("expected empty path to be reported, got %q", driver.infoMessages)
	}
}

func TestSession_ValidationKeepsForm(t *testing.T) {
	driver := &stubDriver{
		// welcome: new, form: generate, back, welcome: quit
		selectIdx: []int{0, 9, 10, 5},
	}
	session, o := newSession(t, testsupport.NewStore(t), driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.exhausted(t)
	if !driver.said("Please fill in all required fields") || !driver.said("fullName:") {
		t.Fatalf("expected validation message, got %q", driver.infoMessages)
	}
	if o.State().Screen != orchestrator.ScreenWelcome {
		t.Fatalf("expected welcome, got %s", o.State().Screen)
	}
}

func TestSession_OverflowDeclineThenAccept(t *testing.T) {
	driver := &stubDriver{
		// welcome: example, form: generate twice, preview: quit
		selectIdx: []int{1, 9, 9, 3},
		confirm:   []bool{false, true},
	}
	session, o := newSession(t, testsupport.NewStore(t), driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.exhausted(t)
	if !driver.said("Keep editing") || !driver.said("Heads up") {
		t.Fatalf("expected overflow messages, got %q", driver.infoMessages)
	}
	if got := o.State().Record.FullName; got != cv.Sample().FullName {
		t.Fatalf("expected example record in preview, got %q", got)
	}
}

func TestSession_DeleteAndContinue(t *testing.T) {
	store := testsupport.NewStore(t, cv.NewRecord(), cv.NewRecord())
	driver := &stubDriver{
		// welcome: delete first, welcome: continue remaining, form: back, welcome: quit
		selectIdx: []int{5, 0, 3, 10, 5},
		confirm:   []bool{true},
	}
	session, _ := newSession(t, store, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.exhausted(t)
	if store.Len() != 1 {
		t.Fatalf("expected one draft left, got %d", store.Len())
	}
}

func TestSession_EditRows(t *testing.T) {
	store := testsupport.NewStore(t)
	driver := &stubDriver{
		// welcome: new, form: experience (row 1), skills, languages (row 1, Native), back, welcome: quit
		selectIdx: []int{0, 3, 0, 5, 6, 0, 0, 10, 5},
		inputs:    []string{"Acme", "Developer", "", "2020-01", "", "Go, , SQL", "English"},
		textAreas: []string{"Shipped things"},
	}
	session, _ := newSession(t, store, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.exhausted(t)

	record := store.List()[0].Data
	want := cv.NewRecord()
	want.Experience = []cv.Experience{{Company: "Acme", Position: "Developer", StartDate: "2020-01", Description: "Shipped things"}}
	want.Skills = []string{"Go", "SQL"}
	want.Languages = []cv.Language{{Name: "English", Level: cv.LevelNative}}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_PhotoUpload(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "cv.pdf")
	png := filepath.Join(dir, "me.png")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if err := os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}

	store := testsupport.NewStore(t)
	driver := &stubDriver{
		// welcome: new, form: photo upload twice, back, welcome: quit
		selectIdx: []int{0, 7, 0, 7, 0, 10, 5},
		inputs:    []string{pdf, png},
	}
	session, _ := newSession(t, store, driver)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.exhausted(t)
	if !driver.said("Please upload an image file") {
		t.Fatalf("expected rejection message, got %q", driver.infoMessages)
	}
	if photo := store.List()[0].Data.Photo; !strings.HasPrefix(photo, "data:image/png;base64,") {
		t.Fatalf("unexpected photo %q", photo)
	}
}

func TestSession_Aborted(t *testing.T) {
	driver := &stubDriver{selectErr: prompt.ErrAborted}
	session, _ := newSession(t, testsupport.NewStore(t), driver)

	if err := session.Run(context.Background()); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
