package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/draft"
)

// MustLoadRecord reads a JSON or YAML fixture into a cv.Record.
func MustLoadRecord(t *testing.T, path string) cv.Record {
	t.Helper()

	record, err := LoadRecord(path)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	return record
}

// LoadRecord reads a record fixture, returning an error for callers managing
// setup outside of *testing.T. The decoder is picked from the extension.
func LoadRecord(path string) (cv.Record, error) {
	if path == "" {
		return cv.Record{}, errors.New("testsupport: record path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cv.Record{}, fmt.Errorf("testsupport: read record: %w", err)
	}

	var out cv.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	default:
		err = json.Unmarshal(data, &out)
	}
	if err != nil {
		return cv.Record{}, fmt.Errorf("testsupport: decode record: %w", err)
	}
	out.EnsureRows()
	return out, nil
}

// NewStore returns an in-memory draft store seeded with one draft per record.
func NewStore(t *testing.T, records ...cv.Record) *draft.Store {
	t.Helper()

	ctx := context.Background()
	store := draft.NewStore(ctx, draft.NewMemoryBackend())
	for _, record := range records {
		d := store.CreateNew()
		d.Data = record
		if _, err := store.Save(ctx, d); err != nil {
			t.Fatalf("seed draft: %v", err)
		}
	}
	return store
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
