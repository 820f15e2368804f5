package server

import (
	"net/http"

	"github.com/goliatone/go-cvbuilder/pkg/renderers/html"
)

type routes struct {
	server *Server
	base   string
}

func (rt *routes) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", rt.welcome)
	mux.HandleFunc("POST /drafts", rt.startNew)
	mux.HandleFunc("POST /drafts/example", rt.loadExample)
	mux.HandleFunc("POST /drafts/{id}/continue", rt.continueDraft)
	mux.HandleFunc("POST /drafts/{id}/delete", rt.deleteDraft)
	mux.HandleFunc("GET /preview/example", rt.previewExample)

	mux.HandleFunc("GET /form", rt.showForm)
	mux.HandleFunc("POST /form", rt.updateForm)
	mux.HandleFunc("POST /form/example", rt.fillExample)
	mux.HandleFunc("POST /form/photo", rt.uploadPhoto)
	mux.HandleFunc("POST /form/photo/delete", rt.removePhoto)
	mux.HandleFunc("POST /form/submit", rt.submit)
	mux.HandleFunc("POST /form/back", rt.back)

	mux.HandleFunc("GET /preview", rt.preview)
	mux.HandleFunc("POST /preview/edit", rt.edit)
	mux.HandleFunc("POST /preview/back", rt.back)

	mux.Handle("GET /api/drafts", rt.guard(rt.listDrafts))
	mux.Handle("GET /api/drafts/{id}", rt.guard(rt.getDraft))
	mux.Handle("PUT /api/drafts/{id}", rt.guard(rt.putDraft))
	mux.Handle("DELETE /api/drafts/{id}", rt.guard(rt.deleteDraftAPI))
	mux.Handle("GET /api/templates", rt.guard(rt.listTemplates))
	mux.HandleFunc("GET /openapi.yaml", rt.openAPI)
	mux.HandleFunc("GET /healthz", rt.health)

	assets := html.AssetPrefix + "/"
	mux.Handle("GET "+assets, http.StripPrefix(assets, http.FileServerFS(html.AssetsFS())))
}

func (rt *routes) guard(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if guard := rt.server.opts.Guard; guard != nil {
			if err := guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}
		next(w, r)
	})
}

func (rt *routes) path(p string) string {
	return rt.base + p
}
