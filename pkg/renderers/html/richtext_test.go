package html_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-cvbuilder/pkg/renderers/html"
)

func TestRichText(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{name: "empty", input: "   \n  "},
		{
			name:     "line breaks kept",
			input:    "• Led a team\n• Shipped v2",
			contains: []string{"• Led a team<br", "• Shipped v2"},
		},
		{
			name:     "raw html dropped",
			input:    "Hi <script>alert(1)</script><b onclick=\"x()\">there</b>",
			excludes: []string{"<script", "onclick"},
		},
		{
			name:     "emphasis",
			input:    "Built **fast** systems",
			contains: []string{"<strong>fast</strong>"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := html.RichText(tc.input)
			if len(tc.contains) == 0 && len(tc.excludes) == 0 && got != "" {
				t.Fatalf("expected empty output, got %q", got)
			}
			for _, want := range tc.contains {
				if !strings.Contains(got, want) {
					t.Fatalf("expected %q in %q", want, got)
				}
			}
			for _, unwanted := range tc.excludes {
				if strings.Contains(got, unwanted) {
					t.Fatalf("unexpected %q in %q", unwanted, got)
				}
			}
		})
	}
}
