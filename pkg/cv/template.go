package cv

import "strings"

// Template selects one of the fixed presentation strategies for a Record.
type Template string

const (
	TemplateModern       Template = "modern"
	TemplateClassic      Template = "classic"
	TemplateMinimal      Template = "minimal"
	TemplateProfessional Template = "professional"
	TemplateATS          Template = "ats"
)

// DefaultTemplate is applied to new records and to unknown selectors.
const DefaultTemplate = TemplateModern

// TemplateInfo carries display metadata for template pickers.
type TemplateInfo struct {
	ID          Template `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

var templateCatalog = []TemplateInfo{
	{ID: TemplateModern, Name: "Modern", Description: "Bold neobrutalism design", Icon: "fas fa-paintbrush"},
	{ID: TemplateClassic, Name: "Classic", Description: "Traditional serif style", Icon: "fas fa-scroll"},
	{ID: TemplateMinimal, Name: "Minimal", Description: "Clean and spacious", Icon: "fas fa-circle"},
	{ID: TemplateProfessional, Name: "Professional", Description: "Corporate gradient style", Icon: "fas fa-briefcase"},
	{ID: TemplateATS, Name: "ATS-Friendly", Description: "Optimized for job systems", Icon: "fas fa-robot"},
}

// Templates returns the catalogue in display order.
func Templates() []TemplateInfo {
	out := make([]TemplateInfo, len(templateCatalog))
	copy(out, templateCatalog)
	return out
}

// Valid reports whether t names one of the known templates.
func (t Template) Valid() bool {
	for _, info := range templateCatalog {
		if info.ID == t {
			return true
		}
	}
	return false
}

func (t Template) String() string {
	return string(t)
}

// Info returns the catalogue entry for t, falling back to the default template.
func (t Template) Info() TemplateInfo {
	for _, info := range templateCatalog {
		if info.ID == t {
			return info
		}
	}
	return templateCatalog[0]
}

// ParseTemplate normalises raw into a known Template. Empty or unknown values
// resolve to DefaultTemplate.
func ParseTemplate(raw string) Template {
	candidate := Template(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate
	}
	return DefaultTemplate
}
