package cv

import "strings"

// NewRecord returns the empty editing record: every repeated collection holds
// exactly one blank row and the template is DefaultTemplate.
func NewRecord() Record {
	record := Record{Template: DefaultTemplate}
	record.EnsureRows()
	return record
}

// EnsureRows seeds each repeated collection with one blank row when it is
// empty and resolves an unknown template to the default. Editing surfaces
// always show at least one input row per collection.
func (r *Record) EnsureRows() {
	if r == nil {
		return
	}
	if len(r.Education) == 0 {
		r.Education = []Education{{}}
	}
	if len(r.Experience) == 0 {
		r.Experience = []Experience{{}}
	}
	if len(r.Skills) == 0 {
		r.Skills = []string{""}
	}
	if len(r.Languages) == 0 {
		r.Languages = []Language{{}}
	}
	r.Template = ParseTemplate(string(r.Template))
}

// Clone returns a deep copy so callers never share backing arrays.
func (r Record) Clone() Record {
	out := r
	out.Education = append([]Education(nil), r.Education...)
	out.Experience = append([]Experience(nil), r.Experience...)
	out.Skills = append([]string(nil), r.Skills...)
	out.Languages = append([]Language(nil), r.Languages...)
	return out
}

// FilledExperience returns the experience entries that are not blank, in order.
func (r Record) FilledExperience() []Experience {
	out := make([]Experience, 0, len(r.Experience))
	for _, entry := range r.Experience {
		if entry.IsBlank() {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// FilledEducation returns the education entries that are not blank, in order.
func (r Record) FilledEducation() []Education {
	out := make([]Education, 0, len(r.Education))
	for _, entry := range r.Education {
		if entry.IsBlank() {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// FilledSkills returns trimmed, non-blank skills preserving order. Duplicates
// are kept.
func (r Record) FilledSkills() []string {
	out := make([]string, 0, len(r.Skills))
	for _, skill := range r.Skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// FilledLanguages returns languages with a non-empty name.
func (r Record) FilledLanguages() []Language {
	out := make([]Language, 0, len(r.Languages))
	for _, lang := range r.Languages {
		if lang.IsBlank() {
			continue
		}
		out = append(out, lang)
	}
	return out
}

// HasSummary reports whether the summary carries text.
func (r Record) HasSummary() bool {
	return !isBlank(r.Summary)
}
