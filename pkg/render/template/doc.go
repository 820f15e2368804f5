// Package template defines the engine interface CV renderers are written
// against. The gotemplate subpackage provides the pongo2 implementation.
package template
