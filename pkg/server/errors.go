package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}

	body := errorResponse{Error: http.StatusText(code)}
	if code < http.StatusInternalServerError && err != nil {
		body.Error = err.Error()
	}
	var verr cv.ValidationErrors
	if errors.As(err, &verr) {
		body.Fields = verr
	}
	writeJSON(w, code, body)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if err == nil {
		writeError(w, StatusError{Code: http.StatusForbidden})
		return
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		writeError(w, StatusError{Code: httpErr.StatusCode()})
		return
	}
	writeError(w, StatusError{Code: http.StatusForbidden})
}
