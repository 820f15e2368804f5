package cv

import "strings"

// Record is the full candidate document backing one résumé.
type Record struct {
	FullName string `json:"fullName" yaml:"fullName" validate:"notblank"`
	Title    string `json:"title" yaml:"title" validate:"notblank"`
	Email    string `json:"email" yaml:"email" validate:"notblank,email"`
	Phone    string `json:"phone" yaml:"phone" validate:"notblank"`
	Location string `json:"location" yaml:"location"`
	Website  string `json:"website" yaml:"website"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	GitHub   string `json:"github" yaml:"github"`
	// Photo holds a self-contained data URL (data:image/...;base64,...).
	Photo string `json:"photo" yaml:"photo"`

	Summary  string   `json:"summary" yaml:"summary" validate:"notblank"`
	Template Template `json:"template" yaml:"template"`

	Education  []Education  `json:"education" yaml:"education"`
	Experience []Experience `json:"experience" yaml:"experience"`
	Skills     []string     `json:"skills" yaml:"skills"`
	Languages  []Language   `json:"languages" yaml:"languages"`
}

// Education is one schooling entry. Dates use the YYYY-MM form.
type Education struct {
	School      string `json:"school" yaml:"school"`
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field" yaml:"field"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	Description string `json:"description" yaml:"description"`
}

// IsBlank reports whether neither school nor degree carries text.
func (e Education) IsBlank() bool {
	return isBlank(e.School) && isBlank(e.Degree)
}

// Experience is one employment entry. An empty EndDate marks the current
// position.
type Experience struct {
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	Location    string `json:"location" yaml:"location"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	Description string `json:"description" yaml:"description"`
}

// IsBlank reports whether neither company nor position carries text.
func (e Experience) IsBlank() bool {
	return isBlank(e.Company) && isBlank(e.Position)
}

// Current reports whether the entry has no end date.
func (e Experience) Current() bool {
	return isBlank(e.EndDate)
}

// Language pairs a spoken language with a proficiency level.
type Language struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
}

func (l Language) IsBlank() bool {
	return isBlank(l.Name)
}

// Proficiency levels offered by constrained editing surfaces. Free text is
// still accepted in Language.Level.
const (
	LevelNative       = "Native"
	LevelFluent       = "Fluent"
	LevelAdvanced     = "Advanced"
	LevelIntermediate = "Intermediate"
	LevelBasic        = "Basic"
)

// LanguageLevels lists the constrained proficiency levels, strongest first.
func LanguageLevels() []string {
	return []string{LevelNative, LevelFluent, LevelAdvanced, LevelIntermediate, LevelBasic}
}

// SkillIsBlank reports whether a skill entry is empty after trimming.
func SkillIsBlank(skill string) bool {
	return isBlank(skill)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
