// Package server exposes the CV builder over net/http: server-rendered
// screens driven by one orchestrator per browser session, plus a small JSON
// API over the draft store described by the embedded OpenAPI contract.
//
// Mount it on any mux:
//
//	srv, _ := server.New(store, nil, server.WithLogger(logger))
//	mux := http.NewServeMux()
//	_, _ = srv.RegisterRoutes(mux, "/cv")
package server
