// Package cv defines the canonical résumé record shared by the draft store,
// the form controller, the renderers and the view orchestrator. The types are
// plain data: JSON tags mirror the persisted drafts layout and YAML tags allow
// fixtures (see samples/) to be authored by hand. Behaviour is limited to the
// invariants every consumer relies on: repeated collections always carry at
// least one row while editing (EnsureRows), blank rows are recognisable
// (IsBlank helpers), and required personal fields can be validated ahead of
// submission (Validate).
package cv
