package form

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// PromptKind distinguishes confirmation prompts.
type PromptKind string

const (
	PromptOverflow    PromptKind = "overflow"
	PromptFillExample PromptKind = "fill-example"
)

// Prompt describes a decision the user has to make before an operation
// continues.
type Prompt struct {
	Kind            PromptKind
	Title           string
	Message         string
	Recommendations []string
	Estimate        Estimate
}

// ConfirmFunc is the continuation a presentation layer supplies to answer a
// Prompt. Returning false cancels the operation without side effects.
type ConfirmFunc func(ctx context.Context, prompt Prompt) (bool, error)

// OverflowPrompt builds the warning shown when a record is likely to spill
// onto a second page.
func OverflowPrompt(estimate Estimate) Prompt {
	return Prompt{
		Kind:  PromptOverflow,
		Title: "Your CV may exceed one page",
		Message: fmt.Sprintf(
			"The estimated height (%.0fpx) is over a single page (%.0fpx). Printed output may break across pages.",
			estimate.Score, estimate.PageHeight,
		),
		Recommendations: []string{
			"Shorten long descriptions and the summary",
			"Remove less relevant experience or education entries",
			"Use short bullet points instead of paragraphs",
		},
		Estimate: estimate,
	}
}

// SubmitResult reports the outcome of Submit. Accepted is false when the
// user cancelled at the overflow prompt.
type SubmitResult struct {
	Accepted bool
	Overflow bool
	Record   cv.Record
}

// Submit validates the required fields, asks confirm when the record is
// estimated to overflow, and on acceptance flushes the record to the draft
// store. Validation failures are returned as cv.ValidationErrors and leave
// everything untouched. A nil confirm proceeds without asking.
func (c *Controller) Submit(ctx context.Context, confirm ConfirmFunc) (SubmitResult, error) {
	record := c.Record()
	status := c.Status()

	if err := record.Validate(); err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{Overflow: status.Overflow(), Record: record}
	if result.Overflow && confirm != nil {
		proceed, err := confirm(ctx, OverflowPrompt(status.Estimate))
		if err != nil {
			return SubmitResult{}, fmt.Errorf("form: confirm overflow: %w", err)
		}
		if !proceed {
			return result, nil
		}
	}

	if err := c.Flush(ctx); err != nil {
		if errors.Is(err, ErrClosed) {
			return SubmitResult{}, err
		}
		c.logger.Warn("submit: persisting draft failed", zap.String("draft_id", c.draftID), zap.Error(err))
	}
	result.Accepted = true
	return result, nil
}

// FillExamplePrompt warns that loading the example discards current edits.
func FillExamplePrompt() Prompt {
	return Prompt{
		Kind:    PromptFillExample,
		Title:   "Replace current data with the example?",
		Message: "All information currently in the form will be replaced by the example CV. Unsaved changes will be lost.",
	}
}

// FillExample replaces the whole record with the default example once the
// user confirms. It reports whether the replacement happened.
func (c *Controller) FillExample(ctx context.Context, confirm ConfirmFunc) (bool, error) {
	if confirm != nil {
		proceed, err := confirm(ctx, FillExamplePrompt())
		if err != nil {
			return false, fmt.Errorf("form: confirm example fill: %w", err)
		}
		if !proceed {
			return false, nil
		}
	}
	if err := c.Replace(cv.Sample()); err != nil {
		return false, err
	}
	return true, nil
}
