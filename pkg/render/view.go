package render

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// ContactKind identifies a header contact item.
type ContactKind string

const (
	ContactEmail    ContactKind = "email"
	ContactPhone    ContactKind = "phone"
	ContactLocation ContactKind = "location"
	ContactWebsite  ContactKind = "website"
	ContactLinkedIn ContactKind = "linkedin"
	ContactGitHub   ContactKind = "github"
)

// SectionKind identifies a body section.
type SectionKind string

const (
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
	SectionLanguages  SectionKind = "languages"
)

// DateSeparator joins the start and end of a date range.
const DateSeparator = " – "

// View is the presentation tree shared by every template. Templates decide
// arrangement and typography; which facts appear is decided here.
type View struct {
	Template cv.Template `json:"template"`
	Header   Header      `json:"header"`
	Sections []Section   `json:"sections"`
}

// Header carries identity, optional photo and the non-empty contact items.
type Header struct {
	FullName string    `json:"fullName"`
	Title    string    `json:"title"`
	Photo    string    `json:"photo,omitempty"`
	Contacts []Contact `json:"contacts"`
}

// Contact is one header line. Href is empty for plain text values.
type Contact struct {
	Kind  ContactKind `json:"kind"`
	Label string      `json:"label"`
	Value string      `json:"value"`
	Href  string      `json:"href,omitempty"`
}

// Section is one body block. Only the payload matching Kind is populated.
type Section struct {
	Kind      SectionKind    `json:"kind"`
	Title     string         `json:"title"`
	Text      string         `json:"text,omitempty"`
	Entries   []Entry        `json:"entries,omitempty"`
	Items     []string       `json:"items,omitempty"`
	Languages []LanguageItem `json:"languages,omitempty"`
}

// Entry is a rendered experience or education row.
type Entry struct {
	Heading     string `json:"heading"`
	Subheading  string `json:"subheading"`
	Detail      string `json:"detail,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	DateRange   string `json:"dateRange,omitempty"`
	Description string `json:"description,omitempty"`
}

// LanguageItem is a named language with an optional level.
type LanguageItem struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

var sectionTitles = map[SectionKind]string{
	SectionSummary:    "Profile Summary",
	SectionExperience: "Work Experience",
	SectionEducation:  "Education",
	SectionSkills:     "Skills",
	SectionLanguages:  "Languages",
}

// SectionTitle returns the heading used for kind.
func SectionTitle(kind SectionKind) string {
	return sectionTitles[kind]
}

// BuildView maps a record onto the presentation tree. It is pure: the same
// record always yields the same view, regardless of the selected template.
func BuildView(record cv.Record) View {
	view := View{
		Template: cv.ParseTemplate(string(record.Template)),
		Header:   buildHeader(record),
	}

	if record.HasSummary() {
		view.Sections = append(view.Sections, Section{
			Kind:  SectionSummary,
			Title: sectionTitles[SectionSummary],
			Text:  strings.TrimSpace(record.Summary),
		})
	}

	if entries := record.FilledExperience(); len(entries) > 0 {
		section := Section{Kind: SectionExperience, Title: sectionTitles[SectionExperience]}
		for _, entry := range entries {
			section.Entries = append(section.Entries, experienceEntry(entry))
		}
		view.Sections = append(view.Sections, section)
	}

	if entries := record.FilledEducation(); len(entries) > 0 {
		section := Section{Kind: SectionEducation, Title: sectionTitles[SectionEducation]}
		for _, entry := range entries {
			section.Entries = append(section.Entries, educationEntry(entry))
		}
		view.Sections = append(view.Sections, section)
	}

	if skills := record.FilledSkills(); len(skills) > 0 {
		view.Sections = append(view.Sections, Section{
			Kind:  SectionSkills,
			Title: sectionTitles[SectionSkills],
			Items: skills,
		})
	}

	if languages := record.FilledLanguages(); len(languages) > 0 {
		section := Section{Kind: SectionLanguages, Title: sectionTitles[SectionLanguages]}
		for _, lang := range languages {
			section.Languages = append(section.Languages, LanguageItem{
				Name:  strings.TrimSpace(lang.Name),
				Level: strings.TrimSpace(lang.Level),
			})
		}
		view.Sections = append(view.Sections, section)
	}

	return view
}

// Section returns the section of the given kind, if it renders.
func (v View) Section(kind SectionKind) (Section, bool) {
	for _, section := range v.Sections {
		if section.Kind == kind {
			return section, true
		}
	}
	return Section{}, false
}

// SectionKinds lists the rendered sections in order.
func (v View) SectionKinds() []SectionKind {
	kinds := make([]SectionKind, 0, len(v.Sections))
	for _, section := range v.Sections {
		kinds = append(kinds, section.Kind)
	}
	return kinds
}

func buildHeader(record cv.Record) Header {
	header := Header{
		FullName: strings.TrimSpace(record.FullName),
		Title:    strings.TrimSpace(record.Title),
		Photo:    strings.TrimSpace(record.Photo),
		Contacts: []Contact{},
	}

	add := func(kind ContactKind, value, label, href string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if label == "" {
			label = value
		}
		header.Contacts = append(header.Contacts, Contact{Kind: kind, Label: label, Value: value, Href: href})
	}

	email := strings.TrimSpace(record.Email)
	add(ContactEmail, email, "", "mailto:"+email)
	phone := strings.TrimSpace(record.Phone)
	add(ContactPhone, phone, "", telHref(phone))
	add(ContactLocation, record.Location, "", "")

	website := strings.TrimSpace(record.Website)
	add(ContactWebsite, website, stripScheme(website), webHref(website))
	add(ContactLinkedIn, record.LinkedIn, "LinkedIn", webHref(record.LinkedIn))
	add(ContactGitHub, record.GitHub, "GitHub", webHref(record.GitHub))

	return header
}

// webHref returns raw as a link target only when it is an absolute
// http(s) URL. Anything else renders as plain text.
func webHref(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return raw
	}
	return ""
}

func telHref(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r == '+' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, phone)
	if strings.Trim(digits, "+") == "" {
		return ""
	}
	return "tel:" + digits
}

func stripScheme(raw string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
			return raw[len(prefix):]
		}
	}
	return raw
}

func experienceEntry(entry cv.Experience) Entry {
	end := cv.FormatYearMonth(entry.EndDate)
	if end == "" {
		end = cv.PresentLabel
	}
	out := Entry{
		Heading:     strings.TrimSpace(entry.Position),
		Subheading:  strings.TrimSpace(entry.Company),
		Location:    strings.TrimSpace(entry.Location),
		Start:       cv.FormatYearMonth(entry.StartDate),
		End:         end,
		Description: strings.TrimSpace(entry.Description),
	}
	out.DateRange = dateRange(out.Start, out.End)
	return out
}

// educationEntry leaves End empty when no end date is given; only
// experience rows read an open end as "Present".
func educationEntry(entry cv.Education) Entry {
	out := Entry{
		Heading:     strings.TrimSpace(entry.Degree),
		Subheading:  strings.TrimSpace(entry.School),
		Detail:      strings.TrimSpace(entry.Field),
		Start:       cv.FormatYearMonth(entry.StartDate),
		End:         cv.FormatYearMonth(entry.EndDate),
		Description: strings.TrimSpace(entry.Description),
	}
	out.DateRange = dateRange(out.Start, out.End)
	return out
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + DateSeparator + end
	case start != "":
		return start
	default:
		return end
	}
}
