package cv

import (
	"strings"
	"time"
)

const (
	yearMonthLayout = "2006-01"
	displayLayout   = "Jan 2006"
)

// PresentLabel is shown in place of an empty experience end date.
const PresentLabel = "Present"

// ParseYearMonth parses the YYYY-MM form used by date inputs. A trailing day
// component (YYYY-MM-DD) is tolerated and ignored.
func ParseYearMonth(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < len(yearMonthLayout) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(yearMonthLayout, trimmed[:len(yearMonthLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// FormatYearMonth renders a YYYY-MM value as "Jan 2006". Empty input yields
// an empty string; unparseable input is returned trimmed so nothing the user
// typed is silently dropped.
func FormatYearMonth(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	parsed, ok := ParseYearMonth(trimmed)
	if !ok {
		return trimmed
	}
	return parsed.Format(displayLayout)
}
