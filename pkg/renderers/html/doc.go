// Package html renders CV records as printable HTML documents. It ships one
// pongo2 template per cv.Template, all fed the same render.View, plus the
// go-theme manifests that carry each template's design tokens.
package html
