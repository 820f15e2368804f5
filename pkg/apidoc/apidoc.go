package apidoc

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

//go:embed openapi.yaml
var specYAML []byte

// RecordSchema names the component schema describing a cv.Record.
const RecordSchema = "CVRecord"

// ErrInvalidRecord wraps schema violations of a submitted record.
var ErrInvalidRecord = errors.New("apidoc: invalid record")

// Spec returns the raw OpenAPI document.
func Spec() []byte {
	out := make([]byte, len(specYAML))
	copy(out, specYAML)
	return out
}

// Operation summarises one documented endpoint.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Document is the parsed contract.
type Document struct {
	spec *openapi3.T
}

// Load parses and validates the embedded contract.
func Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	spec, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("apidoc: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apidoc: validate: %w", err)
	}

	doc := &Document{spec: spec}
	if _, err := doc.schema(RecordSchema); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) schema(name string) (*openapi3.Schema, error) {
	if d.spec.Components == nil {
		return nil, errors.New("apidoc: document has no components")
	}
	ref, ok := d.spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("apidoc: schema %q missing", name)
	}
	return ref.Value, nil
}

// Validate checks a JSON payload against the named component schema.
func (d *Document) Validate(schemaName string, payload []byte) error {
	schema, err := d.schema(schemaName)
	if err != nil {
		return err
	}
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("apidoc: decode %s: %w", schemaName, err)
	}
	if err := schema.VisitJSON(raw, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("apidoc: %s: %w", schemaName, err)
	}
	return nil
}

// Title returns the document title.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Operations lists documented endpoints sorted by path then method.
func (d *Document) Operations() []Operation {
	var out []Operation
	if d.spec.Paths == nil {
		return out
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			out = append(out, Operation{
				ID:      op.OperationID,
				Method:  strings.ToUpper(method),
				Path:    path,
				Summary: op.Summary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// DecodeRecord validates payload against the CVRecord schema and decodes it.
// Schema violations are reported as ErrInvalidRecord. The decoded record has
// its rows seeded.
func (d *Document) DecodeRecord(payload []byte) (cv.Record, error) {
	if err := d.Validate(RecordSchema, payload); err != nil {
		return cv.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	var record cv.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return cv.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	record.EnsureRows()
	return record, nil
}
