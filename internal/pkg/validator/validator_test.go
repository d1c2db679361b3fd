package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
		"123e4567-e89b-12d3-a456-426614174000", // v1 ids from upstream systems
	}
	invalid := []string{
		"abc",
		"emp-1",
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b-1", // trailing text
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",       // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",   // invalid hex
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	for m := 1; m <= 12; m++ {
		if !IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = false, want true", m)
		}
	}
	for _, m := range []int{-1, 0, 13} {
		if IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = true, want false", m)
		}
	}
}

func TestIsValidPayrollYear(t *testing.T) {
	if !IsValidPayrollYear(2024) {
		t.Errorf("IsValidPayrollYear(2024) = false, want true")
	}
	if IsValidPayrollYear(1999) || IsValidPayrollYear(2101) {
		t.Errorf("IsValidPayrollYear accepted an out-of-range year")
	}
}

func TestIsInSlice(t *testing.T) {
	if !IsInSlice("PF", []string{"PF", "ESI"}) {
		t.Errorf("IsInSlice(PF) = false, want true")
	}
	if IsInSlice("TDS", []string{"PF", "ESI"}) {
		t.Errorf("IsInSlice(TDS) = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "must be between 1 and 12"},
		{Field: "year", Message: "is required"},
	}
	got := errs.Error()
	want := "month: must be between 1 and 12; year: is required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "invalid"},
		{Field: "reason", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"month": "invalid", "reason": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
