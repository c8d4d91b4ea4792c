package progress

import (
	"strings"
	"testing"

	"alcyxob/runplan/internal/domain"
)

// fourPhaseTimeline covers 14 weeks across all four phases.
func fourPhaseTimeline() domain.PhaseTimeline {
	return domain.PhaseTimeline{
		Enabled:       true,
		AllowedPhases: domain.PhaseOrder,
		Windows: []domain.PhaseWindow{
			{Phase: domain.PhaseAerobicBase, WeekStart: 1, WeekEnd: 4},
			{Phase: domain.PhaseThreshold, WeekStart: 5, WeekEnd: 8},
			{Phase: domain.PhaseEconomy, WeekStart: 9, WeekEnd: 11},
			{Phase: domain.PhaseRaceSpecific, WeekStart: 12, WeekEnd: 14},
		},
	}
}

func keyFeedback(week int, status domain.CompletionStatus, effort domain.EffortLevel, hr domain.HRMatch) domain.WorkoutFeedback {
	return domain.WorkoutFeedback{
		WeekNumber:       week,
		IsKeyWorkout:     true,
		CompletionStatus: status,
		EffortVsExpected: effort,
		HRMatchedTarget:  hr,
	}
}

func completedFeedback(weeks ...int) []domain.WorkoutFeedback {
	var out []domain.WorkoutFeedback
	for _, w := range weeks {
		out = append(out, keyFeedback(w, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchYes))
	}
	return out
}

func hasCode(codes []string, want string) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }

func TestComputeProgressRacePreparation(t *testing.T) {
	tests := []struct {
		name        string
		timeline    domain.PhaseTimeline
		weeksToRace *int
	}{
		{"disabled timeline", domain.PhaseTimeline{Enabled: false}, nil},
		{"race three weeks out", fourPhaseTimeline(), intPtr(3)},
		{"race this week", fourPhaseTimeline(), intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(tt.timeline, 6, nil, tt.weeksToRace)
			if got.FocusPhaseName != "Race Preparation" {
				t.Errorf("focus = %q, want Race Preparation", got.FocusPhaseName)
			}
			if got.ProgressPercent != 100 {
				t.Errorf("percent = %d, want 100", got.ProgressPercent)
			}
			if got.Confidence != ConfidenceMed {
				t.Errorf("confidence = %s, want med", got.Confidence)
			}
			if got.RecommendedAction != ActionProgress {
				t.Errorf("action = %s, want progress", got.RecommendedAction)
			}
			if !hasCode(got.ReasonCodes, ReasonRacePrep) {
				t.Errorf("codes = %v, want RACE_PREP", got.ReasonCodes)
			}
		})
	}
}

func TestComputeProgressRaceFarEnoughAway(t *testing.T) {
	got := ComputeProgress(fourPhaseTimeline(), 6, completedFeedback(4, 5, 6), intPtr(4))
	if got.FocusPhaseName == "Race Preparation" {
		t.Error("four weeks out must not short-circuit to race preparation")
	}
}

func TestComputeProgressNoFeedback(t *testing.T) {
	// Week 6 is week 2 of the 4-typical-week threshold phase.
	got := ComputeProgress(fourPhaseTimeline(), 6, nil, nil)

	if got.FocusPhaseName != "Threshold" {
		t.Errorf("focus = %q, want Threshold", got.FocusPhaseName)
	}
	if got.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s, want low", got.Confidence)
	}
	if !hasCode(got.ReasonCodes, ReasonLowData) {
		t.Errorf("codes = %v, want LOW_DATA", got.ReasonCodes)
	}
	if got.RecommendedAction != ActionConsolidate {
		t.Errorf("action = %s, want consolidate with zero completion signal", got.RecommendedAction)
	}
	// Time component only: 60 * 2/4, no quality bonus.
	if got.ProgressPercent != 30 {
		t.Errorf("percent = %d, want 30", got.ProgressPercent)
	}
}

func TestComputeProgressGoodSignal(t *testing.T) {
	// Week 7, six completed key workouts inside the four-week window.
	feedback := completedFeedback(4, 4, 5, 5, 6, 7)
	got := ComputeProgress(fourPhaseTimeline(), 7, feedback, nil)

	if got.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %s, want high", got.Confidence)
	}
	if got.RecommendedAction != ActionProgress {
		t.Errorf("action = %s, want progress", got.RecommendedAction)
	}
	if !hasCode(got.ReasonCodes, ReasonGoodProgress) {
		t.Errorf("codes = %v, want GOOD_PROGRESS", got.ReasonCodes)
	}
	// 60 * 3/4 + 40 * 1.0 = 85.
	if got.ProgressPercent != 85 {
		t.Errorf("percent = %d, want 85", got.ProgressPercent)
	}
}

func TestComputeProgressTimeBoxEscape(t *testing.T) {
	// One long threshold window; week 6 hits the 6-week max even with
	// perfect feedback.
	timeline := domain.PhaseTimeline{
		Enabled: true,
		Windows: []domain.PhaseWindow{
			{Phase: domain.PhaseThreshold, WeekStart: 1, WeekEnd: 10},
		},
	}
	feedback := completedFeedback(3, 3, 4, 4, 5, 6)
	got := ComputeProgress(timeline, 6, feedback, nil)

	if !hasCode(got.ReasonCodes, ReasonTimeBoxEscape) {
		t.Fatalf("codes = %v, want TIME_BOX_ESCAPE", got.ReasonCodes)
	}
	if got.ProgressPercent != 100 {
		t.Errorf("percent = %d, want 100 on escape", got.ProgressPercent)
	}
	if got.RecommendedAction != ActionProgressWithCaution {
		t.Errorf("action = %s, want progress_with_caution", got.RecommendedAction)
	}
	// Escape caps confidence at med no matter how good the signal is.
	if got.Confidence != ConfidenceMed {
		t.Errorf("confidence = %s, want med cap", got.Confidence)
	}
	if hasCode(got.ReasonCodes, ReasonGoodProgress) {
		t.Errorf("codes = %v, GOOD_PROGRESS must not fire on escape", got.ReasonCodes)
	}
}

func TestComputeProgressLowCompletion(t *testing.T) {
	feedback := []domain.WorkoutFeedback{
		keyFeedback(5, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchYes),
		keyFeedback(5, domain.CompletionMissed, "", ""),
		keyFeedback(6, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchYes),
		keyFeedback(7, domain.CompletionMissed, "", ""),
	}
	got := ComputeProgress(fourPhaseTimeline(), 7, feedback, nil)

	if !hasCode(got.ReasonCodes, ReasonLowCompletion) {
		t.Errorf("codes = %v, want LOW_COMPLETION", got.ReasonCodes)
	}
	if got.RecommendedAction != ActionHoldSlightly {
		t.Errorf("action = %s, want hold_slightly at 50%% completion", got.RecommendedAction)
	}
	if got.Confidence != ConfidenceMed {
		t.Errorf("confidence = %s, want med", got.Confidence)
	}
	// 60 * 3/4 + 40 * 0.5 = 65.
	if got.ProgressPercent != 65 {
		t.Errorf("percent = %d, want 65", got.ProgressPercent)
	}
}

func TestComputeProgressHighEffortEscalates(t *testing.T) {
	feedback := []domain.WorkoutFeedback{
		keyFeedback(5, domain.CompletionCompleted, domain.EffortHarder, domain.HRMatchYes),
		keyFeedback(6, domain.CompletionCompleted, domain.EffortHarder, domain.HRMatchYes),
		keyFeedback(6, domain.CompletionCompleted, domain.EffortHarder, domain.HRMatchYes),
		keyFeedback(7, domain.CompletionMissed, "", ""),
	}
	got := ComputeProgress(fourPhaseTimeline(), 7, feedback, nil)

	if !hasCode(got.ReasonCodes, ReasonHighEffort) {
		t.Errorf("codes = %v, want HIGH_EFFORT", got.ReasonCodes)
	}
	// 75% completion would say progress; pervasive high effort pulls it
	// back one step.
	if got.RecommendedAction != ActionHoldSlightly {
		t.Errorf("action = %s, want hold_slightly after effort escalation", got.RecommendedAction)
	}
}

func TestComputeProgressHRMismatchLowersConfidence(t *testing.T) {
	feedback := []domain.WorkoutFeedback{
		keyFeedback(5, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchNo),
		keyFeedback(6, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchNo),
		keyFeedback(6, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchNo),
		keyFeedback(7, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchYes),
	}
	got := ComputeProgress(fourPhaseTimeline(), 7, feedback, nil)

	if !hasCode(got.ReasonCodes, ReasonHRMismatch) {
		t.Errorf("codes = %v, want HR_MISMATCH", got.ReasonCodes)
	}
	if got.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s, want low", got.Confidence)
	}
}

func TestComputeProgressWindowExcludesStaleAndNonKey(t *testing.T) {
	feedback := []domain.WorkoutFeedback{
		// Week 1 is outside the four-week window ending at week 6.
		keyFeedback(1, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchYes),
		keyFeedback(2, domain.CompletionCompleted, domain.EffortAsExpected, domain.HRMatchYes),
		// Non-key workouts never count.
		{WeekNumber: 5, IsKeyWorkout: false, CompletionStatus: domain.CompletionCompleted},
		{WeekNumber: 6, IsKeyWorkout: false, CompletionStatus: domain.CompletionCompleted},
	}
	got := ComputeProgress(fourPhaseTimeline(), 6, feedback, nil)

	if !hasCode(got.ReasonCodes, ReasonLowData) {
		t.Errorf("codes = %v, want LOW_DATA when all feedback is filtered out", got.ReasonCodes)
	}
	if got.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s, want low", got.Confidence)
	}
}

func TestComputeProgressPlanOverrunUsesLastPhase(t *testing.T) {
	got := ComputeProgress(fourPhaseTimeline(), 40, nil, nil)
	if got.FocusPhaseName != "Race Specific" {
		t.Errorf("focus = %q, want the last scheduled phase", got.FocusPhaseName)
	}
	if !hasCode(got.ReasonCodes, ReasonTimeBoxEscape) {
		t.Errorf("codes = %v, an overrun week is far past the phase max", got.ReasonCodes)
	}
}

func TestComputeProgressPercentNeverExceeds100(t *testing.T) {
	// Week 8 is the last threshold week: time component alone is 60 * 4/4,
	// and perfect completion would push the raw sum to 100 exactly.
	feedback := completedFeedback(5, 5, 6, 6, 7, 8)
	got := ComputeProgress(fourPhaseTimeline(), 8, feedback, nil)
	if got.ProgressPercent > 100 {
		t.Errorf("percent = %d, want <= 100", got.ProgressPercent)
	}
}

func TestComputeProgressRationaleIsDeterministic(t *testing.T) {
	feedback := completedFeedback(4, 4, 5, 5, 6, 7)
	a := ComputeProgress(fourPhaseTimeline(), 7, feedback, nil)
	b := ComputeProgress(fourPhaseTimeline(), 7, feedback, nil)

	if a.Rationale == "" {
		t.Fatal("rationale is empty")
	}
	if a.Rationale != b.Rationale {
		t.Errorf("rationale not deterministic: %q vs %q", a.Rationale, b.Rationale)
	}
	for _, code := range a.ReasonCodes {
		clause, ok := reasonClauses[code]
		if !ok {
			t.Errorf("code %s has no rationale clause", code)
			continue
		}
		if !strings.Contains(a.Rationale, clause) {
			t.Errorf("rationale %q missing clause for %s", a.Rationale, code)
		}
	}
}
