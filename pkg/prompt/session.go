package prompt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/form"
	"github.com/goliatone/go-cvbuilder/pkg/orchestrator"
	"github.com/goliatone/go-cvbuilder/pkg/render"
)

// DefaultOutputPath is where previews are written unless configured.
const DefaultOutputPath = "cv.html"

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutputPath sets the default file previews are written to.
func WithOutputPath(path string) Option {
	return func(s *Session) {
		s.outputPath = path
	}
}

// WithPageSize sets the page size offered first on preview.
func WithPageSize(size render.PageSize) Option {
	return func(s *Session) {
		if size != "" {
			s.pageSize = size
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session walks one orchestrator through its screens with a Driver.
type Session struct {
	orch       *orchestrator.Orchestrator
	driver     Driver
	outputPath string
	pageSize   render.PageSize
	logger     *zap.Logger
}

// NewSession binds a session to o. The survey driver on stdout is used unless
// WithDriver is given.
func NewSession(o *orchestrator.Orchestrator, options ...Option) *Session {
	s := &Session{
		orch:       o,
		outputPath: DefaultOutputPath,
		pageSize:   render.DefaultPageSize,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run loops until the user quits from the welcome or preview screen. Quitting
// returns nil; aborting input returns ErrAborted.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var (
			quit bool
			err  error
		)
		switch s.orch.State().Screen {
		case orchestrator.ScreenWelcome:
			quit, err = s.welcome(ctx)
		case orchestrator.ScreenForm:
			err = s.form(ctx)
		case orchestrator.ScreenPreview:
			quit, err = s.preview(ctx)
		}
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (s *Session) info(ctx context.Context, format string, args ...any) error {
	return s.driver.Info(ctx, fmt.Sprintf(format, args...))
}

func (s *Session) choose(ctx context.Context, message string, options []string) (int, error) {
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(options) {
		return 0, fmt.Errorf("prompt: selection %d out of range", idx)
	}
	return idx, nil
}

const (
	welcomeNew       = "Start a new CV"
	welcomeExample   = "Start from the example"
	welcomePreview   = "Preview the example"
	welcomeDelete    = "Delete a draft"
	welcomeQuit      = "Quit"
	continuePrefix   = "Continue: "
	untitledFullName = "untitled"
)

func (s *Session) welcome(ctx context.Context) (bool, error) {
	if notice := s.orch.TakeNotice(); notice != "" {
		if err := s.info(ctx, "%s", notice); err != nil {
			return false, err
		}
	}

	drafts := s.orch.Drafts()
	options := []string{welcomeNew, welcomeExample, welcomePreview}
	for _, d := range drafts {
		options = append(options, continuePrefix+draftLabel(d.Name, d.Data))
	}
	if len(drafts) > 0 {
		options = append(options, welcomeDelete)
	}
	options = append(options, welcomeQuit)

	idx, err := s.choose(ctx, "What would you like to do?", options)
	if err != nil {
		return false, err
	}

	switch choice := options[idx]; {
	case choice == welcomeNew:
		return false, s.orch.StartNew(ctx)
	case choice == welcomeExample:
		return false, s.orch.LoadExample(ctx)
	case choice == welcomePreview:
		return false, s.orch.PreviewExample(ctx)
	case choice == welcomeDelete:
		return false, s.deleteDraft(ctx)
	case choice == welcomeQuit:
		return true, nil
	default:
		d := drafts[idx-3]
		if err := s.orch.Continue(ctx, d.ID); err != nil && !errors.Is(err, orchestrator.ErrDraftNotFound) {
			return false, err
		}
		return false, nil
	}
}

func (s *Session) deleteDraft(ctx context.Context) error {
	drafts := s.orch.Drafts()
	options := make([]string, 0, len(drafts)+1)
	for _, d := range drafts {
		options = append(options, draftLabel(d.Name, d.Data))
	}
	options = append(options, "Cancel")

	idx, err := s.choose(ctx, "Delete which draft?", options)
	if err != nil || idx == len(drafts) {
		return err
	}
	ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Delete this draft? This cannot be undone."})
	if err != nil || !ok {
		return err
	}
	return s.orch.DeleteDraft(ctx, drafts[idx].ID)
}

func draftLabel(name string, record cv.Record) string {
	who := strings.TrimSpace(record.FullName)
	if who == "" {
		who = untitledFullName
	}
	return fmt.Sprintf("%s (%s)", name, who)
}

var formMenu = []string{
	"Personal information",
	"Professional summary",
	"Template",
	"Work experience",
	"Education",
	"Skills",
	"Languages",
	"Photo",
	"Fill with example",
	"Generate CV",
	"Back to home",
}

func (s *Session) form(ctx context.Context) error {
	ctrl := s.orch.Controller()
	if ctrl == nil {
		return fmt.Errorf("prompt: form screen without controller")
	}

	status := ctrl.Status()
	if status.Overflow() {
		if err := s.info(ctx, "Heads up: the CV is estimated at %.0fpx, over one page (%.0fpx).", status.Estimate.Score, status.Estimate.PageHeight); err != nil {
			return err
		}
	}

	idx, err := s.choose(ctx, "Edit your CV", formMenu)
	if err != nil {
		return err
	}

	switch idx {
	case 0:
		err = s.editPersonal(ctx, ctrl)
	case 1:
		err = s.editSummary(ctx, ctrl)
	case 2:
		err = s.editTemplate(ctx, ctrl)
	case 3:
		err = s.editExperience(ctx, ctrl)
	case 4:
		err = s.editEducation(ctx, ctrl)
	case 5:
		err = s.editSkills(ctx, ctrl)
	case 6:
		err = s.editLanguages(ctx, ctrl)
	case 7:
		err = s.editPhoto(ctx, ctrl)
	case 8:
		_, err = ctrl.FillExample(ctx, Confirmer(s.driver))
	case 9:
		err = s.submit(ctx)
	case 10:
		err = s.orch.Back(ctx)
	}
	if errors.Is(err, form.ErrClosed) {
		return nil
	}
	return err
}

var personalFields = []struct{ name, label string }{
	{"fullName", "Full name *"},
	{"title", "Professional title *"},
	{"email", "Email *"},
	{"phone", "Phone *"},
	{"location", "Location"},
	{"website", "Website"},
	{"linkedin", "LinkedIn"},
	{"github", "GitHub"},
}

func (s *Session) editPersonal(ctx context.Context, ctrl *form.Controller) error {
	record := ctrl.Record()
	for _, f := range personalFields {
		value, err := s.driver.Input(ctx, InputConfig{Message: f.label, Default: form.FieldValue(record, f.name)})
		if err != nil {
			return err
		}
		if err := ctrl.SetField(f.name, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) editSummary(ctx context.Context, ctrl *form.Controller) error {
	value, err := s.driver.TextArea(ctx, TextAreaConfig{
		Message: "Professional summary *",
		Default: ctrl.Record().Summary,
		Help:    "Markdown emphasis and lists are supported.",
	})
	if err != nil {
		return err
	}
	return ctrl.SetField("summary", value)
}

func (s *Session) editTemplate(ctx context.Context, ctrl *form.Controller) error {
	templates := cv.Templates()
	current := ctrl.Record().Template
	options := make([]string, len(templates))
	selected := 0
	for i, t := range templates {
		options[i] = fmt.Sprintf("%s: %s", t.Name, t.Description)
		if t.ID == current {
			selected = i
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Template", Options: options, DefaultIndex: selected})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(templates) {
		return nil
	}
	return ctrl.SetTemplate(templates[idx].ID)
}

// pickRow lets the user choose a row to edit, add one or remove one. It
// returns the row index to edit, or -1 when done.
func (s *Session) pickRow(ctx context.Context, title string, labels []string, add func() error, remove func(int) error) (int, error) {
	for {
		options := append([]string{}, labels...)
		options = append(options, "Add entry", "Remove entry", "Done")

		idx, err := s.choose(ctx, title, options)
		if err != nil {
			return -1, err
		}
		switch {
		case idx < len(labels):
			return idx, nil
		case options[idx] == "Add entry":
			if err := add(); err != nil {
				return -1, err
			}
			return len(labels), nil
		case options[idx] == "Remove entry":
			which, err := s.choose(ctx, "Remove which entry?", append(append([]string{}, labels...), "Cancel"))
			if err != nil {
				return -1, err
			}
			if which < len(labels) {
				return -1, remove(which)
			}
		default:
			return -1, nil
		}
	}
}

func (s *Session) ask(ctx context.Context, label, current string, validate func(string) error) (string, error) {
	return s.driver.Input(ctx, InputConfig{Message: label, Default: current, Validator: validate})
}

func validYearMonth(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, ok := cv.ParseYearMonth(value); !ok {
		return fmt.Errorf("use YYYY-MM")
	}
	return nil
}

func (s *Session) editExperience(ctx context.Context, ctrl *form.Controller) error {
	rows := ctrl.Record().Experience
	labels := make([]string, len(rows))
	for i, e := range rows {
		labels[i] = rowLabel(i, e.Position, e.Company)
	}
	idx, err := s.pickRow(ctx, "Work experience", labels, ctrl.AddExperience, ctrl.RemoveExperience)
	if err != nil || idx < 0 {
		return err
	}

	entry := ctrl.Record().Experience[idx]
	steps := []struct {
		label    string
		target   *string
		validate func(string) error
	}{
		{"Company", &entry.Company, nil},
		{"Position", &entry.Position, nil},
		{"Location", &entry.Location, nil},
		{"Start (YYYY-MM)", &entry.StartDate, validYearMonth},
		{"End (YYYY-MM, empty if current)", &entry.EndDate, validYearMonth},
	}
	for _, step := range steps {
		value, err := s.ask(ctx, step.label, *step.target, step.validate)
		if err != nil {
			return err
		}
		*step.target = value
	}
	description, err := s.driver.TextArea(ctx, TextAreaConfig{Message: "Description", Default: entry.Description})
	if err != nil {
		return err
	}
	entry.Description = description
	return ctrl.SetExperience(idx, entry)
}

func (s *Session) editEducation(ctx context.Context, ctrl *form.Controller) error {
	rows := ctrl.Record().Education
	labels := make([]string, len(rows))
	for i, e := range rows {
		labels[i] = rowLabel(i, e.Degree, e.School)
	}
	idx, err := s.pickRow(ctx, "Education", labels, ctrl.AddEducation, ctrl.RemoveEducation)
	if err != nil || idx < 0 {
		return err
	}

	entry := ctrl.Record().Education[idx]
	steps := []struct {
		label    string
		target   *string
		validate func(string) error
	}{
		{"School", &entry.School, nil},
		{"Degree", &entry.Degree, nil},
		{"Field of study", &entry.Field, nil},
		{"Start (YYYY-MM)", &entry.StartDate, validYearMonth},
		{"End (YYYY-MM)", &entry.EndDate, validYearMonth},
	}
	for _, step := range steps {
		value, err := s.ask(ctx, step.label, *step.target, step.validate)
		if err != nil {
			return err
		}
		*step.target = value
	}
	description, err := s.driver.TextArea(ctx, TextAreaConfig{Message: "Description", Default: entry.Description})
	if err != nil {
		return err
	}
	entry.Description = description
	return ctrl.SetEducation(idx, entry)
}

func (s *Session) editSkills(ctx context.Context, ctrl *form.Controller) error {
	current := ctrl.Record().FilledSkills()
	value, err := s.driver.Input(ctx, InputConfig{
		Message: "Skills (comma separated)",
		Default: strings.Join(current, ", "),
	})
	if err != nil {
		return err
	}
	var skills []string
	for _, skill := range strings.Split(value, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return ctrl.Update(func(r *cv.Record) {
		r.Skills = skills
	})
}

func (s *Session) editLanguages(ctx context.Context, ctrl *form.Controller) error {
	rows := ctrl.Record().Languages
	labels := make([]string, len(rows))
	for i, l := range rows {
		labels[i] = rowLabel(i, l.Name, l.Level)
	}
	idx, err := s.pickRow(ctx, "Languages", labels, ctrl.AddLanguage, ctrl.RemoveLanguage)
	if err != nil || idx < 0 {
		return err
	}

	entry := ctrl.Record().Languages[idx]
	name, err := s.ask(ctx, "Language", entry.Name, nil)
	if err != nil {
		return err
	}
	levels := cv.LanguageLevels()
	selected := 0
	for i, level := range levels {
		if level == entry.Level {
			selected = i
		}
	}
	level, err := s.driver.Select(ctx, SelectConfig{Message: "Level", Options: levels, DefaultIndex: selected})
	if err != nil {
		return err
	}
	entry.Name = name
	if level >= 0 && level < len(levels) {
		entry.Level = levels[level]
	}
	return ctrl.SetLanguage(idx, entry)
}

func (s *Session) editPhoto(ctx context.Context, ctrl *form.Controller) error {
	options := []string{"Upload a photo", "Cancel"}
	if ctrl.Record().Photo != "" {
		options = []string{"Replace the photo", "Remove the photo", "Cancel"}
	}
	idx, err := s.choose(ctx, "Photo", options)
	if err != nil {
		return err
	}
	switch options[idx] {
	case "Remove the photo":
		return ctrl.RemovePhoto()
	case "Cancel":
		return nil
	}

	path, err := s.driver.Input(ctx, InputConfig{Message: "Path to an image file"})
	if err != nil {
		return err
	}
	err = attachFile(ctx, ctrl, strings.TrimSpace(path))
	if err == nil {
		return nil
	}
	if errors.Is(err, form.ErrClosed) {
		return err
	}
	s.logger.Debug("photo rejected", zap.String("path", path), zap.Error(err))
	return s.info(ctx, "%s", form.UserMessage(err))
}

func attachFile(ctx context.Context, ctrl *form.Controller, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return ctrl.AttachPhoto(ctx, form.Photo{
		Filename: filepath.Base(path),
		Size:     info.Size(),
		Reader:   f,
	})
}

func (s *Session) submit(ctx context.Context) error {
	result, err := s.orch.Submit(ctx, Confirmer(s.driver))
	var invalid cv.ValidationErrors
	if errors.As(err, &invalid) {
		lines := []string{"Please fill in all required fields:"}
		for _, field := range invalid.Fields() {
			lines = append(lines, fmt.Sprintf("  %s: %s", field, strings.Join(invalid[field], ", ")))
		}
		return s.driver.Info(ctx, strings.Join(lines, "\n"))
	}
	if err != nil {
		return err
	}
	if !result.Accepted {
		return s.info(ctx, "Keep editing to shorten your CV.")
	}
	return nil
}

const (
	previewSave = "Save as HTML"
	previewEdit = "Edit CV"
	previewBack = "Back to home"
	previewQuit = "Quit"
)

func (s *Session) preview(ctx context.Context) (bool, error) {
	options := []string{previewSave, previewEdit, previewBack, previewQuit}
	idx, err := s.choose(ctx, "Your CV is ready", options)
	if err != nil {
		return false, err
	}
	switch options[idx] {
	case previewSave:
		return false, s.save(ctx)
	case previewEdit:
		return false, s.orch.Edit(ctx)
	case previewBack:
		return false, s.orch.Back(ctx)
	default:
		return true, nil
	}
}

// save writes the print-ready preview. A missing or unwritable path is
// reported and leaves the user on the preview.
func (s *Session) save(ctx context.Context) error {
	err := s.writePreview(ctx)
	var pathErr *fs.PathError
	if errors.Is(err, ErrNoOutput) || errors.As(err, &pathErr) {
		s.logger.Debug("preview not saved", zap.Error(err))
		return s.info(ctx, "Could not save: %v", err)
	}
	return err
}

func (s *Session) writePreview(ctx context.Context) error {
	sizes := render.PageSizes()
	options := make([]string, len(sizes))
	selected := 0
	for i, size := range sizes {
		w, h := size.Dimensions()
		options[i] = fmt.Sprintf("%s (%gmm x %gmm)", size, w, h)
		if size == s.pageSize {
			selected = i
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Page size", Options: options, DefaultIndex: selected})
	if err != nil {
		return err
	}
	size := s.pageSize
	if idx >= 0 && idx < len(sizes) {
		size = sizes[idx]
	}

	path, err := s.driver.Input(ctx, InputConfig{Message: "Write to", Default: s.outputPath})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrNoOutput
	}

	output, err := s.orch.RenderPreview(ctx, render.RenderOptions{PageSize: size, Print: true})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, output, 0o644); err != nil {
		return fmt.Errorf("prompt: write preview: %w", err)
	}
	s.outputPath = path
	s.pageSize = size
	return s.info(ctx, "Saved %s. Open it in a browser and print to PDF.", path)
}

func rowLabel(i int, primary, secondary string) string {
	primary, secondary = strings.TrimSpace(primary), strings.TrimSpace(secondary)
	switch {
	case primary != "" && secondary != "":
		return fmt.Sprintf("%d. %s, %s", i+1, primary, secondary)
	case primary != "":
		return fmt.Sprintf("%d. %s", i+1, primary)
	case secondary != "":
		return fmt.Sprintf("%d. %s", i+1, secondary)
	default:
		return fmt.Sprintf("%d. (empty)", i+1)
	}
}
