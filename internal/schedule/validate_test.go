package schedule

import (
	"strings"
	"testing"

	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"
)

func TestValidateDays(t *testing.T) {
	valid := canonicalDays(t, "2026-03-02", 7)

	duplicated := canonicalDays(t, "2026-02-26", 7)
	duplicated[4].Date = "2026-03-01" // clashes with day 3
	duplicated[4].DayOfWeek = calendar.Sunday

	outOfOrder := canonicalDays(t, "2026-03-02", 5)
	outOfOrder[1], outOfOrder[3] = outOfOrder[3], outOfOrder[1]

	malformed := canonicalDays(t, "2026-03-02", 3)
	malformed[1].Date = "March 3rd"

	missingText := canonicalDays(t, "2026-03-02", 3)
	missingText[2].WorkoutText = ""

	missingWeekday := canonicalDays(t, "2026-03-02", 3)
	missingWeekday[0].DayOfWeek = ""

	tests := []struct {
		name      string
		days      []domain.ScheduleDay
		valid     bool
		wantError string
	}{
		{"valid week", valid, true, ""},
		{"empty list", nil, false, "missing or empty"},
		{"duplicate date", duplicated, false, "duplicate date 2026-03-01"},
		{"out of order", outOfOrder, false, "chronological order"},
		{"malformed date", malformed, false, "malformed date"},
		{"missing workout text", missingText, false, "missing workout text"},
		{"missing day of week", missingWeekday, false, "missing dayOfWeek"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDays(tt.days)
			if result.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if tt.wantError == "" {
				return
			}
			found := false
			for _, msg := range result.Errors {
				if strings.Contains(msg, tt.wantError) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", result.Errors, tt.wantError)
			}
		})
	}
}

func TestValidateDaysReportsAllViolations(t *testing.T) {
	days := canonicalDays(t, "2026-03-02", 4)
	days[1].Date = days[0].Date // duplicate
	days[3].WorkoutText = ""    // missing text

	result := ValidateDays(days)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) < 2 {
		t.Errorf("got %d errors, want at least 2: %v", len(result.Errors), result.Errors)
	}
}
