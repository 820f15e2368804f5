// Package orchestrator drives the three-screen flow of the CV builder
// (Welcome, Form, Preview) as an explicit state machine over a draft store,
// a form controller and the renderer registry.
package orchestrator
