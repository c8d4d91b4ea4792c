package schedule

import (
	"fmt"

	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"
)

// ValidationResult reports structural invariant checks on a canonical day
// list. Errors are named and non-fatal; the caller decides severity.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateDays checks the structural invariants of a canonical day list:
// non-empty, well-formed unique dates, chronological order, and required
// fields on every element. It never mutates the input.
func ValidateDays(days []domain.ScheduleDay) ValidationResult {
	var errs []string

	if len(days) == 0 {
		return ValidationResult{Valid: false, Errors: []string{"days list is missing or empty"}}
	}

	seen := make(map[string]bool, len(days))
	prev := ""
	ordered := true
	for i, day := range days {
		if !calendar.IsValidDate(day.Date) {
			errs = append(errs, fmt.Sprintf("day %d has malformed date %q", i, day.Date))
			continue
		}
		if seen[day.Date] {
			errs = append(errs, fmt.Sprintf("duplicate date %s", day.Date))
		}
		seen[day.Date] = true
		if prev != "" && day.Date < prev {
			ordered = false
		}
		prev = day.Date
	}
	if !ordered {
		errs = append(errs, "days are not in chronological order")
	}

	for i, day := range days {
		if day.DayOfWeek == "" {
			errs = append(errs, fmt.Sprintf("day %d (%s) is missing dayOfWeek", i, day.Date))
		}
		if day.WorkoutText == "" {
			errs = append(errs, fmt.Sprintf("day %d (%s) is missing workout text", i, day.Date))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
