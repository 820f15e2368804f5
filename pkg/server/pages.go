package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/form"
	"github.com/goliatone/go-cvbuilder/pkg/orchestrator"
	"github.com/goliatone/go-cvbuilder/pkg/render"
)

const (
	confirmOverflowField = "confirm_overflow"
	confirmExampleField  = "confirm_example"
	timestampLayout      = "Jan 2, 2006 15:04"
)

type draftSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Template string `json:"template"`
	Updated  string `json:"updated"`
}

type fieldView struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Value    string   `json:"value"`
	Required bool     `json:"required"`
	Errors   []string `json:"errors"`
}

type statusView struct {
	Pending    bool   `json:"pending"`
	SavedAt    string `json:"savedAt"`
	Error      string `json:"error,omitempty"`
	Overflow   bool   `json:"overflow"`
	Score      int    `json:"score"`
	PageHeight int    `json:"pageHeight"`
	Autosaves  bool   `json:"autosaves"`
}

type promptView struct {
	Title           string   `json:"title"`
	Message         string   `json:"message"`
	Recommendations []string `json:"recommendations"`
	Action          string   `json:"action"`
	Field           string   `json:"field"`
	Confirm         string   `json:"confirm"`
	Cancel          string   `json:"cancel"`
}

var scalarLabels = []struct {
	name, label, kind string
}{
	{"fullName", "Full name", "text"},
	{"title", "Professional title", "text"},
	{"email", "Email", "email"},
	{"phone", "Phone", "tel"},
	{"location", "Location", "text"},
	{"website", "Website", "url"},
	{"linkedin", "LinkedIn", "url"},
	{"github", "GitHub", "url"},
}

func (rt *routes) session(w http.ResponseWriter, r *http.Request) *orchestrator.Orchestrator {
	var id string
	if cookie, err := r.Cookie(rt.server.opts.CookieName); err == nil {
		id = cookie.Value
	}
	o, issued := rt.server.sessions.Acquire(id)
	if issued != id {
		path := rt.base
		if path == "" {
			path = "/"
		}
		http.SetCookie(w, &http.Cookie{
			Name:     rt.server.opts.CookieName,
			Value:    issued,
			Path:     path,
			HttpOnly: true,
			Secure:   rt.server.opts.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return o
}

func (rt *routes) screenPath(screen orchestrator.Screen) string {
	switch screen {
	case orchestrator.ScreenForm:
		return rt.path("/form")
	case orchestrator.ScreenPreview:
		return rt.path("/preview")
	default:
		return rt.path("/")
	}
}

func (rt *routes) redirect(w http.ResponseWriter, r *http.Request, o *orchestrator.Orchestrator) {
	http.Redirect(w, r, rt.screenPath(o.State().Screen), http.StatusSeeOther)
}

// transition runs fn and redirects to whichever screen the session ends on.
// Stale transitions from another tab and unknown drafts land on the current
// screen instead of failing.
func (rt *routes) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, *orchestrator.Orchestrator) error) {
	o := rt.session(w, r)
	if err := fn(r.Context(), o); err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrInvalidTransition), errors.Is(err, orchestrator.ErrDraftNotFound):
			rt.server.logger.Debug("transition rejected", zap.String("path", r.URL.Path), zap.Error(err))
		default:
			rt.serverError(w, "transition failed", err)
			return
		}
	}
	rt.redirect(w, r, o)
}

func (rt *routes) welcome(w http.ResponseWriter, r *http.Request) {
	o := rt.session(w, r)
	if o.State().Screen != orchestrator.ScreenWelcome {
		rt.redirect(w, r, o)
		return
	}

	drafts := o.Drafts()
	summaries := make([]draftSummary, 0, len(drafts))
	for _, d := range drafts {
		summaries = append(summaries, draftSummary{
			ID:       d.ID,
			Name:     d.Name,
			FullName: strings.TrimSpace(d.Data.FullName),
			Title:    strings.TrimSpace(d.Data.Title),
			Template: d.Data.Template.Info().Name,
			Updated:  d.UpdatedAt.Local().Format(timestampLayout),
		})
	}

	rt.renderPage(w, http.StatusOK, "welcome", map[string]any{
		"title":     "Welcome",
		"screen":    orchestrator.ScreenWelcome,
		"notice":    o.TakeNotice(),
		"drafts":    summaries,
		"templates": cv.Templates(),
	})
}

func (rt *routes) startNew(w http.ResponseWriter, r *http.Request) {
	rt.transition(w, r, func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.StartNew(ctx)
	})
}

func (rt *routes) loadExample(w http.ResponseWriter, r *http.Request) {
	rt.transition(w, r, func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.LoadExample(ctx)
	})
}

func (rt *routes) previewExample(w http.ResponseWriter, r *http.Request) {
	rt.transition(w, r, func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.PreviewExample(ctx)
	})
}

func (rt *routes) continueDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rt.transition(w, r, func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.Continue(ctx, id)
	})
}

func (rt *routes) deleteDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rt.transition(w, r, func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.DeleteDraft(ctx, id)
	})
}

func (rt *routes) back(w http.ResponseWriter, r *http.Request) {
	rt.transition(w, r, func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.Back(ctx)
	})
}

func (rt *routes) edit(w http.ResponseWriter, r *http.Request) {
	rt.transition(w, r, func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.Edit(ctx)
	})
}

// formSession returns the session and its live controller, redirecting when
// the session is not on the form.
func (rt *routes) formSession(w http.ResponseWriter, r *http.Request) (*orchestrator.Orchestrator, *form.Controller, bool) {
	o := rt.session(w, r)
	ctrl := o.Controller()
	if ctrl == nil {
		rt.redirect(w, r, o)
		return nil, nil, false
	}
	return o, ctrl, true
}

func (rt *routes) showForm(w http.ResponseWriter, r *http.Request) {
	o, ctrl, ok := rt.formSession(w, r)
	if !ok {
		return
	}
	rt.renderForm(w, http.StatusOK, o, ctrl, nil, "")
}

func (rt *routes) updateForm(w http.ResponseWriter, r *http.Request) {
	o, ctrl, ok := rt.formSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	err := ctrl.Update(func(record *cv.Record) {
		applyValues(record, r.PostForm)
	})
	if err == nil {
		if op := r.PostForm.Get("op"); op != "" {
			if opErr := applyRowOp(ctrl, op); opErr != nil && !errors.Is(opErr, form.ErrClosed) {
				rt.server.logger.Debug("row op rejected", zap.String("op", op), zap.Error(opErr))
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
		}
	}
	if errors.Is(err, form.ErrClosed) {
		rt.redirect(w, r, o)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, dataResponse{Data: rt.statusOf(ctrl)})
		return
	}
	http.Redirect(w, r, rt.path("/form"), http.StatusSeeOther)
}

func (rt *routes) fillExample(w http.ResponseWriter, r *http.Request) {
	o, ctrl, ok := rt.formSession(w, r)
	if !ok {
		return
	}
	approved := r.PostFormValue(confirmExampleField) == "1"

	var asked *form.Prompt
	replaced, err := ctrl.FillExample(r.Context(), promptConfirm(approved, &asked))
	if err != nil && !errors.Is(err, form.ErrClosed) {
		rt.serverError(w, "fill example", err)
		return
	}
	if !replaced && asked != nil {
		rt.renderPrompt(w, *asked, rt.path("/form/example"), confirmExampleField, "Replace data")
		return
	}
	rt.redirect(w, r, o)
}

func (rt *routes) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	o, ctrl, ok := rt.formSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.server.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if bodyTooLarge(err) {
			err = form.ErrPhotoTooLarge
		}
		rt.photoFailed(w, o, ctrl, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("photo")
	if err != nil {
		rt.photoFailed(w, o, ctrl, err)
		return
	}
	defer file.Close()

	err = ctrl.AttachPhoto(r.Context(), form.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil && !errors.Is(err, form.ErrClosed) {
		rt.photoFailed(w, o, ctrl, err)
		return
	}
	rt.redirect(w, r, o)
}

func (rt *routes) photoFailed(w http.ResponseWriter, o *orchestrator.Orchestrator, ctrl *form.Controller, err error) {
	rt.server.logger.Debug("photo rejected", zap.Error(err))
	code := http.StatusUnprocessableEntity
	if errors.Is(err, form.ErrPhotoTooLarge) {
		code = http.StatusRequestEntityTooLarge
	}
	rt.renderForm(w, code, o, ctrl, nil, form.UserMessage(err))
}

func (rt *routes) removePhoto(w http.ResponseWriter, r *http.Request) {
	o, ctrl, ok := rt.formSession(w, r)
	if !ok {
		return
	}
	if err := ctrl.RemovePhoto(); err != nil && !errors.Is(err, form.ErrClosed) {
		rt.serverError(w, "remove photo", err)
		return
	}
	rt.redirect(w, r, o)
}

func (rt *routes) submit(w http.ResponseWriter, r *http.Request) {
	o, ctrl, ok := rt.formSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := ctrl.Update(func(record *cv.Record) { applyValues(record, r.PostForm) }); err != nil {
		rt.redirect(w, r, o)
		return
	}

	approved := r.PostForm.Get(confirmOverflowField) == "1"
	var asked *form.Prompt
	result, err := o.Submit(r.Context(), promptConfirm(approved, &asked))

	var invalid cv.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		rt.renderForm(w, http.StatusUnprocessableEntity, o, ctrl, invalid, "")
		return
	case errors.Is(err, orchestrator.ErrInvalidTransition):
		rt.redirect(w, r, o)
		return
	case err != nil:
		rt.serverError(w, "submit", err)
		return
	}
	if !result.Accepted && asked != nil {
		rt.renderPrompt(w, *asked, rt.path("/form/submit"), confirmOverflowField, "Continue anyway")
		return
	}
	rt.redirect(w, r, o)
}

func (rt *routes) preview(w http.ResponseWriter, r *http.Request) {
	o := rt.session(w, r)
	state := o.State()
	if state.Screen != orchestrator.ScreenPreview {
		rt.redirect(w, r, o)
		return
	}

	size := rt.server.opts.DefaultPageSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		size = render.ParsePageSize(raw)
	}

	actions := []render.Action{
		{Label: "Back to Home", Href: rt.path("/preview/back"), Method: http.MethodPost},
		{Label: "Edit CV", Href: rt.path("/preview/edit"), Method: http.MethodPost, Primary: true},
	}
	for _, candidate := range render.PageSizes() {
		actions = append(actions, render.Action{
			Label:   string(candidate),
			Href:    "?page=" + string(candidate),
			Method:  "get",
			Primary: candidate == size,
		})
	}

	output, err := o.RenderPreview(r.Context(), render.RenderOptions{
		PageSize: size,
		Actions:  actions,
		Print:    true,
	})
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidTransition) {
			rt.redirect(w, r, o)
			return
		}
		rt.serverError(w, "render preview", err)
		return
	}

	contentType := "text/html; charset=utf-8"
	if renderer, err := rt.server.registry.Resolve(state.Record); err == nil {
		contentType = renderer.ContentType()
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(output)
}

func (rt *routes) renderForm(w http.ResponseWriter, code int, o *orchestrator.Orchestrator, ctrl *form.Controller, invalid cv.ValidationErrors, photoError string) {
	record := ctrl.Record()

	fields := make([]fieldView, 0, len(scalarLabels))
	for _, f := range scalarLabels {
		fields = append(fields, fieldView{
			Name:     f.name,
			Label:    f.label,
			Type:     f.kind,
			Value:    form.FieldValue(record, f.name),
			Required: isRequired(f.name),
			Errors:   invalid[f.name],
		})
	}

	rt.renderPage(w, code, "form", map[string]any{
		"title":         "Edit CV",
		"screen":        orchestrator.ScreenForm,
		"notice":        o.TakeNotice(),
		"draftId":       ctrl.DraftID(),
		"record":        record,
		"fields":        fields,
		"summaryErrors": invalid["summary"],
		"invalid":       len(invalid) > 0,
		"photoError":    photoError,
		"status":        rt.statusOf(ctrl),
		"templates":     cv.Templates(),
		"levels":        cv.LanguageLevels(),
	})
}

func (rt *routes) renderPrompt(w http.ResponseWriter, prompt form.Prompt, action, field, confirmLabel string) {
	rt.renderPage(w, http.StatusOK, "prompt", map[string]any{
		"title":  prompt.Title,
		"screen": orchestrator.ScreenForm,
		"prompt": promptView{
			Title:           prompt.Title,
			Message:         prompt.Message,
			Recommendations: prompt.Recommendations,
			Action:          action,
			Field:           field,
			Confirm:         confirmLabel,
			Cancel:          rt.path("/form"),
		},
	})
}

func (rt *routes) renderPage(w http.ResponseWriter, code int, name string, data map[string]any) {
	data["base"] = rt.base
	out, err := rt.server.pages.Render(name, data)
	if err != nil {
		rt.serverError(w, "render page "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(out))
}

func (rt *routes) serverError(w http.ResponseWriter, msg string, err error) {
	rt.server.logger.Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (rt *routes) statusOf(ctrl *form.Controller) statusView {
	status := ctrl.Status()
	view := statusView{
		Pending:    status.Pending,
		Overflow:   status.Overflow(),
		Score:      int(status.Estimate.Score),
		PageHeight: int(status.Estimate.PageHeight),
		Autosaves:  status.DraftID != "",
	}
	if !status.LastSavedAt.IsZero() {
		view.SavedAt = status.LastSavedAt.Local().Format(time.Kitchen)
	}
	if status.LastError != nil {
		view.Error = "Autosave failed, your changes are kept in this session."
	}
	return view
}

// promptConfirm answers prompts with approved and records the first prompt
// that was declined so the handler can ask the user.
func promptConfirm(approved bool, asked **form.Prompt) form.ConfirmFunc {
	return func(_ context.Context, prompt form.Prompt) (bool, error) {
		if approved {
			return true, nil
		}
		p := prompt
		*asked = &p
		return false, nil
	}
}

func bodyTooLarge(err error) bool {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return true
	}
	// multipart does not always wrap the reader error
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isRequired(name string) bool {
	for _, required := range cv.RequiredFields {
		if required == name {
			return true
		}
	}
	return false
}
