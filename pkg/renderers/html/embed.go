package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/partials/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*.css
var embeddedAssets embed.FS

const (
	BaseStylesheetName  = "base.css"
	PrintStylesheetName = "print.css"
)

// TemplatesFS exposes the embedded template bundle rooted at the templates
// directory, so names resolve as "modern.tmpl" or "partials/section.tmpl".
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the embedded stylesheets so callers can serve them over
// HTTP alongside rendered documents.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

func readAsset(name string) string {
	data, err := fs.ReadFile(AssetsFS(), name)
	if err != nil {
		return ""
	}
	return string(data)
}
