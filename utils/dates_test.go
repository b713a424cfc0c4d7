package utils

import (
	"testing"
	"time"
)

func TestParseDateStrictDMY(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"05-03-2024", "05/03/2024", "  05-03-2024 "} {
		got := ParseDate(input)
		if got == nil {
			t.Fatalf("ParseDate(%q) = nil, want %v", input, want)
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseDateStrictRejectsImpossibleDay(t *testing.T) {
	// 31-02 is not a valid DD-MM date; the lenient parser must not turn it into March.
	got := ParseDate("31-02-2024")
	if got != nil && got.Month() == time.February && got.Day() == 31 {
		t.Fatalf("ParseDate accepted an impossible date: %v", got)
	}
}

func TestParseDateLenientFallback(t *testing.T) {
	got := ParseDate("2024-03-05")
	if got == nil {
		t.Fatal("ParseDate(ISO) = nil")
	}
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate(ISO) = %v, want %v", got, want)
	}
}

func TestParseDateExcelSerial(t *testing.T) {
	// 45356 is 2024-03-05 in the 1899-12-30 serial system.
	got := ParseDate(45356.0)
	if got == nil {
		t.Fatal("ParseDate(serial) = nil")
	}
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate(45356) = %v, want %v", got, want)
	}

	// Time-of-day fraction is dropped.
	frac := ParseDate(45356.75)
	if frac == nil || !frac.Equal(want) {
		t.Errorf("ParseDate(45356.75) = %v, want %v", frac, want)
	}

	if got := ParseDate(25569); got == nil || got.Unix() != 0 {
		t.Errorf("ParseDate(25569) = %v, want unix epoch", got)
	}
}

func TestParseDateEmptyAndGarbage(t *testing.T) {
	for _, input := range []any{nil, "", "   ", 0.0, 0, "not a date", time.Time{}, (*time.Time)(nil), true} {
		if got := ParseDate(input); got != nil {
			t.Errorf("ParseDate(%#v) = %v, want nil", input, got)
		}
	}
}

func TestParseDatePassesThroughTimes(t *testing.T) {
	in := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.FixedZone("PKT", 5*3600))
	got := ParseDate(in)
	if got == nil || !got.Equal(in) {
		t.Fatalf("ParseDate(time) = %v, want %v", got, in)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", got.Location())
	}

	ptr := ParseDate(&in)
	if ptr == nil || !ptr.Equal(in) {
		t.Errorf("ParseDate(*time) = %v, want %v", ptr, in)
	}
}

func TestWholeDaysBetween(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := WholeDaysBetween(base, base.Add(36*time.Hour)); got != 1 {
		t.Errorf("WholeDaysBetween(+36h) = %d, want 1", got)
	}
	if got := WholeDaysBetween(base, base.Add(-36*time.Hour)); got != -2 {
		t.Errorf("WholeDaysBetween(-36h) = %d, want -2", got)
	}
}
