package form

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// Metrics are the constants behind the rendered-height heuristic. Heights are
// in CSS pixels.
type Metrics struct {
	Header         float64
	SectionTitle   float64
	SummaryBase    float64
	EntryBase      float64
	Skills         float64
	Languages      float64
	SectionSpacing float64
	CharsPerLine   float64
	LineHeight     float64
	PageHeight     float64
}

// DefaultMetrics assumes an A4 portrait page at 96 DPI (1123px tall).
func DefaultMetrics() Metrics {
	return Metrics{
		Header:         150,
		SectionTitle:   40,
		SummaryBase:    20,
		EntryBase:      60,
		Skills:         80,
		Languages:      60,
		SectionSpacing: 30,
		CharsPerLine:   80,
		LineHeight:     20,
		PageHeight:     1123,
	}
}

// Estimate is the outcome of one overflow computation.
type Estimate struct {
	Score      float64
	PageHeight float64
}

// Exceeds reports whether the estimated height is over one page.
func (e Estimate) Exceeds() bool {
	return e.Score > e.PageHeight
}

// Estimator computes an overflow estimate for a record.
type Estimator func(cv.Record) Estimate

// EstimatorFor binds m into an Estimator.
func EstimatorFor(m Metrics) Estimator {
	return func(record cv.Record) Estimate {
		return Estimate{Score: EstimateHeight(record, m), PageHeight: m.PageHeight}
	}
}

// EstimateHeight sums fixed per-section costs plus text-proportional costs
// across the sections that would actually render. It is a heuristic; it only
// needs to be monotonic in text length.
func EstimateHeight(record cv.Record, m Metrics) float64 {
	height := m.Header

	if record.HasSummary() {
		height += m.SectionTitle + m.SummaryBase + m.textHeight(record.Summary) + m.SectionSpacing
	}

	if entries := record.FilledExperience(); len(entries) > 0 {
		height += m.SectionTitle + m.SectionSpacing
		for _, entry := range entries {
			height += m.EntryBase + m.textHeight(entry.Description)
		}
	}

	if entries := record.FilledEducation(); len(entries) > 0 {
		height += m.SectionTitle + m.SectionSpacing
		for _, entry := range entries {
			height += m.EntryBase + m.textHeight(entry.Description)
		}
	}

	if len(record.FilledSkills()) > 0 {
		height += m.SectionTitle + m.Skills + m.SectionSpacing
	}

	if len(record.FilledLanguages()) > 0 {
		height += m.SectionTitle + m.Languages + m.SectionSpacing
	}

	return height
}

func (m Metrics) textHeight(text string) float64 {
	return float64(m.lines(text)) * m.LineHeight
}

// lines counts wrapped lines, treating each explicit line break as a new line.
func (m Metrics) lines(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	perLine := m.CharsPerLine
	if perLine <= 0 {
		perLine = 1
	}
	total := 0
	for _, paragraph := range strings.Split(text, "\n") {
		count := utf8.RuneCountInString(paragraph)
		if count == 0 {
			total++
			continue
		}
		total += int(math.Ceil(float64(count) / perLine))
	}
	return total
}
