package timezone_test

import (
	"campusroom/shared/timezone"
	"testing"
	"time"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	if now.IsZero() {
		t.Error("expected Now() to return a non-zero time")
	}

	if now.Location() != timezone.GetLocation() {
		t.Errorf("expected Now() location %v, got %v", timezone.GetLocation(), now.Location())
	}
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	if today.Hour() != 0 || today.Minute() != 0 || today.Second() != 0 || today.Nanosecond() != 0 {
		t.Errorf("expected Today() to be midnight, got %v", today)
	}

	now := timezone.Now()
	if today.Year() != now.Year() || today.YearDay() != now.YearDay() {
		t.Errorf("expected Today() to share the calendar date with Now(), got %v vs %v", today, now)
	}
}

func TestToAppTime(t *testing.T) {
	utcTime := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	appTime := timezone.ToAppTime(utcTime)

	if !appTime.Equal(utcTime) {
		t.Error("expected ToAppTime to preserve the instant")
	}

	if appTime.Location() != timezone.GetLocation() {
		t.Errorf("expected location %v, got %v", timezone.GetLocation(), appTime.Location())
	}
}

func TestParse(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02", "2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Year() != 2025 || parsed.Month() != time.June || parsed.Day() != 15 {
		t.Errorf("unexpected parsed date: %v", parsed)
	}

	if parsed.Location() != timezone.GetLocation() {
		t.Errorf("expected location %v, got %v", timezone.GetLocation(), parsed.Location())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := timezone.Parse("2006-01-02", "not-a-date"); err == nil {
		t.Error("expected an error parsing an invalid date")
	}
}

func TestFormat(t *testing.T) {
	instant := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	formatted := timezone.Format(instant, "2006-01-02")
	expected := timezone.ToAppTime(instant).Format("2006-01-02")

	if formatted != expected {
		t.Errorf("expected %s, got %s", expected, formatted)
	}
}
