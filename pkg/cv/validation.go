package cv

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// RequiredFields lists the JSON names of fields that must be filled before a
// record can be submitted, in form order.
var RequiredFields = []string{"fullName", "title", "email", "phone", "summary"}

// ValidationErrors maps JSON field names to user-facing messages.
type ValidationErrors map[string][]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "cv: validation failed"
	}
	fields := v.Fields()
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(v[field], ", ")))
	}
	return "cv: validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names sorted alphabetically.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Has reports whether field has at least one message.
func (v ValidationErrors) Has(field string) bool {
	return len(v[field]) > 0
}

var (
	validatorOnce sync.Once
	recordCheck   *validator.Validate
)

func recordValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		recordCheck = v
	})
	return recordCheck
}

// Validate checks the required personal fields and the summary. It returns
// ValidationErrors (never a bare validator error) when any check fails.
func (r Record) Validate() error {
	err := recordValidator().Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("cv: validate record: %w", err)
	}

	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = append(out[fe.Field()], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
