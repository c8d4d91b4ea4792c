// Package schedule implements the canonical schedule data model pipeline:
// legacy-to-canonical conversion, weekly view building, structural
// validation, and the normalization orchestrator that ties them together.
package schedule

import (
	"fmt"
	"strings"

	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"
)

// Default content for synthesized rest days. Rest days are never left with
// empty workout text.
const (
	RestDayText = "Rest day - no running scheduled"
	RestDayTip  = "Recovery is where adaptation happens. Stay off your legs if you can."
)

// ConversionMetadata summarizes a completed legacy migration.
type ConversionMetadata struct {
	WeeksConverted int    `json:"weeksConverted"`
	DaysGenerated  int    `json:"daysGenerated"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
}

// ConversionResult is the outcome of expanding a legacy week grid into the
// canonical day list. On failure Days is empty and the caller must keep
// the original document untouched.
type ConversionResult struct {
	Days     []domain.ScheduleDay `json:"days"`
	Success  bool                 `json:"success"`
	Errors   []string             `json:"errors,omitempty"`
	Metadata ConversionMetadata   `json:"metadata"`
}

// ConvertLegacyPlan deterministically expands a week-indexed grid into a
// flat, date-stamped day list. Weeks are walked in stored order (index 0 is
// week 1) and days in fixed Mon..Sun order; each cell's date is
// (weekIndex*7 + dayIndex) days after startDate. Missing or empty cells
// become synthesized rest days, so every week-by-day cell maps to exactly
// one ScheduleDay once the top-level preconditions hold.
func ConvertLegacyPlan(weeks []domain.LegacyWeek, startDate string) ConversionResult {
	if len(weeks) == 0 {
		return ConversionResult{
			Success: false,
			Errors:  []string{"legacy plan grid is missing or empty"},
		}
	}
	start, err := calendar.ParseDate(startDate)
	if err != nil {
		return ConversionResult{
			Success: false,
			Errors:  []string{fmt.Sprintf("invalid start date %q: must be YYYY-MM-DD", startDate)},
		}
	}

	days := make([]domain.ScheduleDay, 0, len(weeks)*7)
	for weekIdx, week := range weeks {
		for dayIdx, weekday := range calendar.Weekdays() {
			date := start.AddDate(0, 0, weekIdx*7+dayIdx)
			iso := calendar.FormatDate(date)

			cell, ok := week.Days[weekday]
			if !ok || strings.TrimSpace(cell.WorkoutText) == "" {
				days = append(days, synthesizeRestDay(iso, weekday))
				continue
			}

			day := domain.ScheduleDay{
				Date:        iso,
				DayOfWeek:   weekday,
				WorkoutText: cell.WorkoutText,
				Tips:        append([]string(nil), cell.Tips...),
				Kind:        cell.Kind,
			}
			if day.Kind == "" {
				day.Kind = InferDayKind(cell.WorkoutText)
			}
			days = append(days, day)
		}
	}

	return ConversionResult{
		Days:    days,
		Success: true,
		Metadata: ConversionMetadata{
			WeeksConverted: len(weeks),
			DaysGenerated:  len(days),
			StartDate:      days[0].Date,
			EndDate:        days[len(days)-1].Date,
		},
	}
}

// InferDayKind classifies untagged legacy workout text by keyword. This is
// a substring heuristic kept for compatibility with historical documents;
// it can misfire (e.g. a tempo run described as "race pace" classifies as
// race) and is only ever applied during legacy migration, never to
// canonical data.
func InferDayKind(workoutText string) domain.DayKind {
	text := strings.ToLower(workoutText)
	switch {
	case strings.Contains(text, "race"):
		return domain.DayKindRace
	case strings.Contains(text, "rest day"):
		return domain.DayKindRest
	default:
		return domain.DayKindTrain
	}
}

func synthesizeRestDay(iso string, weekday calendar.Weekday) domain.ScheduleDay {
	return domain.ScheduleDay{
		Date:        iso,
		DayOfWeek:   weekday,
		WorkoutText: RestDayText,
		Tips:        []string{RestDayTip},
		Kind:        domain.DayKindRest,
	}
}
