package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestDocTypeValidation(t *testing.T) {
	type P struct {
		Type string `validate:"doctype"`
	}
	cv := NewValidator()

	for _, s := range []string{"leave", "late_arrival", "business_trip", "outside_work", "overtime", "generic"} {
		if err := cv.Validate(P{Type: s}); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", s, err)
		}
	}
	for _, s := range []string{"", "Leave", "memo", "late-arrival"} {
		err := cv.Validate(P{Type: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Type", "must be one of") {
			t.Fatalf("expected doctype message for %q, got %+v", s, fe)
		}
	}
}

func TestHalfStepValidation(t *testing.T) {
	type P struct {
		Days float64 `validate:"halfstep"`
	}
	cv := NewValidator()

	for _, v := range []float64{0, 0.5, 1, 2.5, 30} {
		if err := cv.Validate(P{Days: v}); err != nil {
			t.Fatalf("expected halfstep OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{0.25, 1.1, 2.75} {
		err := cv.Validate(P{Days: v})
		if err == nil {
			t.Fatalf("expected halfstep error for %v", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Days", "multiple of 0.5") {
			t.Fatalf("expected halfstep message for %v, got %+v", v, fe)
		}
	}
}

func TestToFieldErrors_Messages(t *testing.T) {
	type P struct {
		Action string   `validate:"required,oneof=approve reject"`
		Date   string   `validate:"omitempty,datetime=2006-01-02"`
		IDs    []uint64 `validate:"dive,gt=0"`
	}
	cv := NewValidator()

	fe := ToFieldErrors(cv.Validate(P{}))
	if !containsFieldMsg(fe, "Action", "is required") {
		t.Fatalf("required: %+v", fe)
	}

	fe = ToFieldErrors(cv.Validate(P{Action: "maybe", Date: "2025/01/01", IDs: []uint64{1, 0}}))
	if !containsFieldMsg(fe, "Action", "approve reject") {
		t.Fatalf("oneof: %+v", fe)
	}
	if !containsFieldMsg(fe, "Date", "YYYY-MM-DD") {
		t.Fatalf("datetime: %+v", fe)
	}
	if !containsFieldMsg(fe, "IDs[1]", "greater than 0") {
		t.Fatalf("gt: %+v", fe)
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected: %+v", fe)
	}
}
