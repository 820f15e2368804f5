package prompt

import (
	"context"
	"strings"

	"github.com/goliatone/go-cvbuilder/pkg/form"
)

// Confirmer adapts a Driver to the form's confirmation continuation: the
// prompt text and any recommendations are printed, then a yes/no question
// decides. Declining is the default.
func Confirmer(driver Driver) form.ConfirmFunc {
	return func(ctx context.Context, p form.Prompt) (bool, error) {
		var b strings.Builder
		b.WriteString(p.Message)
		if len(p.Recommendations) > 0 {
			b.WriteString("\nRecommendations:")
			for _, tip := range p.Recommendations {
				b.WriteString("\n  - ")
				b.WriteString(tip)
			}
		}
		if err := driver.Info(ctx, b.String()); err != nil {
			return false, err
		}
		return driver.Confirm(ctx, ConfirmConfig{Message: confirmQuestion(p)})
	}
}

func confirmQuestion(p form.Prompt) string {
	switch p.Kind {
	case form.PromptOverflow:
		return p.Title + ". Continue anyway?"
	default:
		return p.Title
	}
}
