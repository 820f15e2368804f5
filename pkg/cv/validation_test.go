package cv_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

func TestValidate_ReportsMissingRequiredFields(t *testing.T) {
	record := cv.NewRecord()
	record.FullName = "Jane Doe"
	record.Phone = "   "

	err := record.Validate()
	var verrs cv.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T (%v)", err, err)
	}

	want := []string{"email", "phone", "summary", "title"}
	if diff := cmp.Diff(want, verrs.Fields()); diff != "" {
		t.Fatalf("failing fields mismatch (-want +got):\n%s", diff)
	}
	if verrs.Has("fullName") {
		t.Fatalf("fullName should be valid")
	}
}

func TestValidate_RejectsMalformedEmail(t *testing.T) {
	record := cv.Sample()
	record.Email = "not-an-email"

	err := record.Validate()
	var verrs cv.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if diff := cmp.Diff([]string{"must be a valid email address"}, verrs["email"]); diff != "" {
		t.Fatalf("email messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_AcceptsCompleteRecord(t *testing.T) {
	if err := cv.Sample().Validate(); err != nil {
		t.Fatalf("expected sample to validate, got %v", err)
	}
}
