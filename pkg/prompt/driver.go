package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a single-line question. Validator runs on every
// answer and re-asks on error.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig describes a yes/no question.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig describes a menu. PageSize 0 keeps the survey default.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// TextAreaConfig describes a multi-line answer such as a summary.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// Driver is the terminal seam. Sessions only talk to a Driver, so tests
// script answers instead of a tty.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns a Driver backed by survey/v2 on the process
// terminal. Info messages go to out, or stdout when nil.
func NewSurveyDriver(out io.Writer) Driver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{
		out: out,
		opts: []survey.AskOpt{
			survey.WithIcons(func(icons *survey.IconSet) {
				icons.Question.Text = ">"
			}),
		},
	}
}

// ask runs one survey prompt unless ctx is already done.
func (d *surveyDriver) ask(ctx context.Context, p survey.Prompt, answer any, extra ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := append(append([]survey.AskOpt(nil), d.opts...), extra...)
	if err := survey.AskOne(p, answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var extra []survey.AskOpt
	if check := cfg.Validator; check != nil {
		extra = append(extra, survey.WithValidator(func(ans any) error {
			text, _ := ans.(string)
			return check(text)
		}))
	}
	var answer string
	err := d.ask(ctx, &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer, extra...)
	return answer, err
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var answer string
	err := d.ask(ctx, &survey.Multiline{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

// Select answers with the chosen index. survey writes the index directly
// when the answer is an int.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if len(cfg.Options) == 0 {
		return -1, fmt.Errorf("prompt: %q has no options", cfg.Message)
	}
	p := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if cfg.DefaultIndex > 0 && cfg.DefaultIndex < len(cfg.Options) {
		p.Default = cfg.DefaultIndex
	}
	answer := -1
	if err := d.ask(ctx, p, &answer); err != nil {
		return -1, err
	}
	return answer, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
