package schedule

import (
	"sort"

	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"
)

// BuildWeeklyView rebuilds the display grid from the canonical day list.
// Week 1 starts on the Monday on or before the earliest day; the grid runs
// through the Sunday on or after the latest day, so every week holds
// exactly seven cells. Dates without a ScheduleDay get a synthesized rest
// cell. The input is never written to; the output is a disposable
// projection defined purely in terms of dates, so it handles any day list,
// not only ones produced by legacy conversion.
func BuildWeeklyView(days []domain.ScheduleDay) []domain.WeekView {
	if len(days) == 0 {
		return nil
	}

	sorted := domain.CloneDays(days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	byDate := make(map[string]domain.ScheduleDay, len(sorted))
	for _, d := range sorted {
		byDate[d.Date] = d
	}

	first, err := calendar.ParseDate(sorted[0].Date)
	if err != nil {
		return nil
	}
	last, err := calendar.ParseDate(sorted[len(sorted)-1].Date)
	if err != nil {
		return nil
	}

	firstMonday := calendar.MondayOf(first)
	lastSunday := calendar.SundayOnOrAfter(last)

	var views []domain.WeekView
	weekNumber := 1
	for monday := firstMonday; !monday.After(lastSunday); monday = monday.AddDate(0, 0, 7) {
		view := domain.WeekView{
			WeekNumber: weekNumber,
			Days:       make(map[calendar.Weekday]domain.DayCell, 7),
		}
		for dayIdx := 0; dayIdx < 7; dayIdx++ {
			date := monday.AddDate(0, 0, dayIdx)
			iso := calendar.FormatDate(date)
			weekday := calendar.WeekdayAt(dayIdx)

			if day, ok := byDate[iso]; ok {
				view.Days[weekday] = domain.DayCell{
					Date:        day.Date,
					WorkoutText: day.WorkoutText,
					Tips:        append([]string(nil), day.Tips...),
					Kind:        day.Kind,
				}
				continue
			}
			view.Days[weekday] = domain.DayCell{
				Date:        iso,
				WorkoutText: RestDayText,
				Tips:        []string{RestDayTip},
				Kind:        domain.DayKindRest,
			}
		}
		views = append(views, view)
		weekNumber++
	}
	return views
}
