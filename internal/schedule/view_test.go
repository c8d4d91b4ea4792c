package schedule

import (
	"testing"

	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"
)

// canonicalDays generates count consecutive training days from startDate.
func canonicalDays(t *testing.T, startDate string, count int) []domain.ScheduleDay {
	t.Helper()
	days := make([]domain.ScheduleDay, 0, count)
	start, err := calendar.ParseDate(startDate)
	if err != nil {
		t.Fatalf("ParseDate(%q) failed: %v", startDate, err)
	}
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, i)
		days = append(days, domain.ScheduleDay{
			Date:        calendar.FormatDate(date),
			DayOfWeek:   calendar.WeekdayOf(date),
			WorkoutText: "Easy run",
			Kind:        domain.DayKindTrain,
		})
	}
	return days
}

func TestBuildWeeklyViewMondayStart(t *testing.T) {
	days := canonicalDays(t, "2026-02-02", 14) // Monday start, exactly two weeks

	views := BuildWeeklyView(days)
	if len(views) != 2 {
		t.Fatalf("got %d weeks, want 2", len(views))
	}

	for w, view := range views {
		if view.WeekNumber != w+1 {
			t.Errorf("week %d numbered %d", w, view.WeekNumber)
		}
		if len(view.Days) != 7 {
			t.Errorf("week %d has %d cells, want 7", view.WeekNumber, len(view.Days))
		}
		for _, wd := range calendar.Weekdays() {
			cell, ok := view.Days[wd]
			if !ok {
				t.Errorf("week %d missing %s", view.WeekNumber, wd)
				continue
			}
			if cell.WorkoutText != "Easy run" {
				t.Errorf("week %d %s text = %q", view.WeekNumber, wd, cell.WorkoutText)
			}
		}
	}

	// Every canonical day appears in the view at its own date.
	byDate := make(map[string]domain.DayCell)
	for _, view := range views {
		for _, cell := range view.Days {
			byDate[cell.Date] = cell
		}
	}
	for _, day := range days {
		if _, ok := byDate[day.Date]; !ok {
			t.Errorf("view lost canonical day %s", day.Date)
		}
	}
}

func TestBuildWeeklyViewMidWeekStart(t *testing.T) {
	// Thursday 2026-02-05: week 1 must pad Monday through Wednesday with
	// synthesized rest cells so the grid stays rectangular.
	days := canonicalDays(t, "2026-02-05", 4) // Thu..Sun

	views := BuildWeeklyView(days)
	if len(views) != 1 {
		t.Fatalf("got %d weeks, want 1", len(views))
	}

	week1 := views[0]
	for _, wd := range []calendar.Weekday{calendar.Monday, calendar.Tuesday, calendar.Wednesday} {
		cell := week1.Days[wd]
		if cell.WorkoutText != RestDayText || cell.Kind != domain.DayKindRest {
			t.Errorf("%s = %q (%s), want synthesized rest", wd, cell.WorkoutText, cell.Kind)
		}
	}
	if week1.Days[calendar.Monday].Date != "2026-02-02" {
		t.Errorf("padded Monday date = %s, want 2026-02-02", week1.Days[calendar.Monday].Date)
	}
	if week1.Days[calendar.Thursday].WorkoutText != "Easy run" {
		t.Errorf("Thursday = %q, want the canonical workout", week1.Days[calendar.Thursday].WorkoutText)
	}
}

func TestBuildWeeklyViewDoesNotMutateInput(t *testing.T) {
	days := canonicalDays(t, "2026-02-04", 10) // unsorted on purpose below
	days[0], days[9] = days[9], days[0]
	snapshot := domain.CloneDays(days)

	BuildWeeklyView(days)

	for i := range days {
		if days[i].Date != snapshot[i].Date || days[i].WorkoutText != snapshot[i].WorkoutText {
			t.Fatalf("input day %d mutated: %+v", i, days[i])
		}
	}
}

func TestBuildWeeklyViewEmptyInput(t *testing.T) {
	if views := BuildWeeklyView(nil); views != nil {
		t.Errorf("got %d weeks from empty input, want none", len(views))
	}
}
