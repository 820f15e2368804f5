package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// PageSize names a printable paper format.
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageF4     PageSize = "F4"
	PageLetter PageSize = "Letter"
	PageLegal  PageSize = "Legal"
)

// DefaultPageSize is used when no page size is requested.
const DefaultPageSize = PageA4

// PageSizes lists the supported formats in display order.
func PageSizes() []PageSize {
	return []PageSize{PageA4, PageF4, PageLetter, PageLegal}
}

// ParsePageSize matches raw case-insensitively and falls back to A4.
func ParsePageSize(raw string) PageSize {
	trimmed := strings.TrimSpace(raw)
	for _, size := range PageSizes() {
		if strings.EqualFold(trimmed, string(size)) {
			return size
		}
	}
	return DefaultPageSize
}

// Dimensions returns the portrait width and height in millimetres.
func (p PageSize) Dimensions() (width, height float64) {
	switch p {
	case PageF4:
		return 210, 330
	case PageLetter:
		return 215.9, 279.4
	case PageLegal:
		return 215.9, 355.6
	default:
		return 210, 297
	}
}

// Action is a link or button shown in the screen-only toolbar above the
// document. It never prints.
type Action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	// Method is "get" for links; any other value renders a form button.
	Method  string `json:"method"`
	Primary bool   `json:"primary"`
}

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the record.
type RenderOptions struct {
	// PageSize selects the @page size used for printing.
	PageSize PageSize
	// Title overrides the document title. Defaults to the candidate name.
	Title string
	// Actions populate the toolbar. No toolbar is emitted when empty.
	Actions []Action
	// Print adds a button that opens the browser print dialog.
	Print bool
	// Theme carries tokens resolved from a go-theme manifest.
	Theme *theme.RendererConfig
}
