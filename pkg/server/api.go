package server

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/apidoc"
	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
)

func (rt *routes) listDrafts(w http.ResponseWriter, _ *http.Request) {
	drafts := rt.server.store.List()
	if drafts == nil {
		drafts = []draft.Draft{}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: drafts})
}

func (rt *routes) getDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := rt.server.store.Lookup(id)
	if err != nil {
		writeError(w, StatusError{Code: http.StatusNotFound, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: d})
}

// putDraft replaces the record of an existing draft or creates a draft with
// the given id. Open form sessions on the same draft keep their own copy and
// overwrite it on their next autosave.
func (rt *routes) putDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// base64 inflates the photo by a third
	limit := rt.server.opts.MaxUploadBytes * 2
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, StatusError{Code: http.StatusRequestEntityTooLarge, Err: err})
			return
		}
		writeError(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}

	record, err := rt.server.doc.DecodeRecord(payload)
	if err != nil {
		writeError(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}

	code := http.StatusOK
	d, ok := rt.server.store.Get(id)
	if !ok {
		d = rt.server.store.CreateNew()
		d.ID = id
		code = http.StatusCreated
	}
	d.Data = record

	saved, err := rt.server.store.Save(r.Context(), d)
	if err != nil {
		rt.server.logger.Error("api: save draft", zap.String("draft_id", id), zap.Error(err))
		writeError(w, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	writeJSON(w, code, dataResponse{Data: saved})
}

func (rt *routes) deleteDraftAPI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := rt.server.store.Delete(r.Context(), id); err != nil {
		rt.server.logger.Error("api: delete draft", zap.String("draft_id", id), zap.Error(err))
		writeError(w, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *routes) listTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse{Data: cv.Templates()})
}

func (rt *routes) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(apidoc.Spec())
}

func (rt *routes) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
