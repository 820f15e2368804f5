package cv_test

import (
	"testing"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

func TestFormatYearMonth(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "2022-01", want: "Jan 2022"},
		{in: "2019-12", want: "Dec 2019"},
		{in: "2020-03-15", want: "Mar 2020"},
		{in: "", want: ""},
		{in: "   ", want: ""},
		{in: "sometime", want: "sometime"},
	}
	for _, tc := range cases {
		if got := cv.FormatYearMonth(tc.in); got != tc.want {
			t.Fatalf("FormatYearMonth(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
