// Package prompt drives the CV builder from a terminal. A Driver asks the
// questions (survey/v2 by default) and a Session walks the orchestrator's
// screens with it.
package prompt
