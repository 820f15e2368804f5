package html

import (
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

// RichText converts free text (summary, descriptions) into sanitized HTML.
// Line breaks typed by the user are kept, so bullet lines such as "• Led a
// team" stay on their own line.
func RichText(raw string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if trimmed == "" {
		return ""
	}

	extensions := parser.NoIntraEmphasis | parser.Autolink | parser.Strikethrough |
		parser.HardLineBreak | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.HrefTargetBlank,
	})

	rendered := markdown.ToHTML([]byte(trimmed), p, renderer)
	return strings.TrimSpace(richTextSanitizer().Sanitize(string(rendered)))
}

func richTextSanitizer() *bluemonday.Policy {
	richTextPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		policy.AllowElements("br")
		richTextPolicy = policy
	})
	return richTextPolicy
}

func richTextFilter(input any, _ any) (any, error) {
	text, _ := input.(string)
	return RichText(text), nil
}
