package schedule

import (
	"testing"

	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"
)

// legacyTwoWeeks builds a small legacy grid: week 1 has three real workouts,
// week 2 has two plus a race day. Everything else is left empty so the
// converter has to synthesize rest days.
func legacyTwoWeeks() []domain.LegacyWeek {
	return []domain.LegacyWeek{
		{
			Week: 1,
			Days: map[calendar.Weekday]domain.DayCell{
				calendar.Monday:    {WorkoutText: "Easy run 5k", Tips: []string{"Keep it conversational"}},
				calendar.Wednesday: {WorkoutText: "Intervals 6x400m"},
				calendar.Saturday:  {WorkoutText: "Long run 12k"},
			},
		},
		{
			Week: 2,
			Days: map[calendar.Weekday]domain.DayCell{
				calendar.Tuesday:  {WorkoutText: "Tempo 4k"},
				calendar.Thursday: {WorkoutText: "", Tips: []string{"ignored"}},
				calendar.Sunday:   {WorkoutText: "Race day: 10k goal pace"},
			},
		},
	}
}

func TestConvertLegacyPlan(t *testing.T) {
	result := ConvertLegacyPlan(legacyTwoWeeks(), "2026-02-02")
	if !result.Success {
		t.Fatalf("conversion failed: %v", result.Errors)
	}
	if len(result.Days) != 14 {
		t.Fatalf("got %d days, want 14", len(result.Days))
	}

	// Dates run consecutively from the start date and weekdays cycle Mon..Sun.
	for i, day := range result.Days {
		wantDate, _ := calendar.AddDays("2026-02-02", i)
		if day.Date != wantDate {
			t.Errorf("day %d date = %s, want %s", i, day.Date, wantDate)
		}
		wantWeekday := calendar.WeekdayAt(i % 7)
		if day.DayOfWeek != wantWeekday {
			t.Errorf("day %d weekday = %s, want %s", i, day.DayOfWeek, wantWeekday)
		}
		if day.WorkoutText == "" {
			t.Errorf("day %d has empty workout text", i)
		}
	}

	// Populated cells carry through with their text and tips.
	if result.Days[0].WorkoutText != "Easy run 5k" {
		t.Errorf("week 1 Monday text = %q", result.Days[0].WorkoutText)
	}
	if len(result.Days[0].Tips) != 1 || result.Days[0].Tips[0] != "Keep it conversational" {
		t.Errorf("week 1 Monday tips = %v", result.Days[0].Tips)
	}
	if result.Days[0].Kind != domain.DayKindTrain {
		t.Errorf("week 1 Monday kind = %s, want train", result.Days[0].Kind)
	}

	// Missing and empty cells become synthesized rest days.
	tuesday := result.Days[1]
	if tuesday.WorkoutText != RestDayText || tuesday.Kind != domain.DayKindRest {
		t.Errorf("week 1 Tuesday = %q (%s), want synthesized rest", tuesday.WorkoutText, tuesday.Kind)
	}
	emptyThursday := result.Days[10]
	if emptyThursday.WorkoutText != RestDayText || emptyThursday.Kind != domain.DayKindRest {
		t.Errorf("week 2 Thursday = %q (%s), want synthesized rest", emptyThursday.WorkoutText, emptyThursday.Kind)
	}

	// Week 2 Sunday mentions "race" and classifies as a race day.
	raceDay := result.Days[13]
	if raceDay.Kind != domain.DayKindRace {
		t.Errorf("week 2 Sunday kind = %s, want race", raceDay.Kind)
	}

	meta := result.Metadata
	if meta.WeeksConverted != 2 || meta.DaysGenerated != 14 {
		t.Errorf("metadata = %+v, want 2 weeks / 14 days", meta)
	}
	if meta.StartDate != "2026-02-02" || meta.EndDate != "2026-02-15" {
		t.Errorf("metadata span = %s..%s, want 2026-02-02..2026-02-15", meta.StartDate, meta.EndDate)
	}
}

func TestConvertLegacyPlanPreservesExplicitKind(t *testing.T) {
	weeks := []domain.LegacyWeek{
		{
			Week: 1,
			Days: map[calendar.Weekday]domain.DayCell{
				calendar.Monday: {WorkoutText: "Shakeout before the big day", Kind: domain.DayKindTrain},
			},
		},
	}
	result := ConvertLegacyPlan(weeks, "2026-02-02")
	if !result.Success {
		t.Fatalf("conversion failed: %v", result.Errors)
	}
	if result.Days[0].Kind != domain.DayKindTrain {
		t.Errorf("explicit kind overridden: got %s", result.Days[0].Kind)
	}
}

func TestConvertLegacyPlanFailures(t *testing.T) {
	tests := []struct {
		name      string
		weeks     []domain.LegacyWeek
		startDate string
	}{
		{"empty grid", nil, "2026-02-02"},
		{"missing start date", legacyTwoWeeks(), ""},
		{"malformed start date", legacyTwoWeeks(), "02/02/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertLegacyPlan(tt.weeks, tt.startDate)
			if result.Success {
				t.Fatal("conversion succeeded, want failure")
			}
			if len(result.Days) != 0 {
				t.Errorf("failed conversion produced %d days", len(result.Days))
			}
			if len(result.Errors) == 0 {
				t.Error("failed conversion reported no errors")
			}
		})
	}
}

func TestInferDayKind(t *testing.T) {
	tests := []struct {
		text string
		want domain.DayKind
	}{
		{"Race day: 10k", domain.DayKindRace},
		{"REST DAY", domain.DayKindRest},
		{"Easy run 5k", domain.DayKindTrain},
		{"Tempo at race pace", domain.DayKindRace}, // known heuristic misfire
	}

	for _, tt := range tests {
		if got := InferDayKind(tt.text); got != tt.want {
			t.Errorf("InferDayKind(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
