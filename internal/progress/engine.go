// Package progress derives a bounded, explainable "where am I in my plan"
// signal from the phase timeline and recent key-workout feedback.
package progress

import (
	"math"

	"alcyxob/runplan/internal/domain"
)

// Confidence grades how much signal backs a progress estimate.
type Confidence string

const (
	ConfidenceLow  Confidence = "low"
	ConfidenceMed  Confidence = "med"
	ConfidenceHigh Confidence = "high"
)

// Action is the recommended next step for the runner's training focus.
type Action string

const (
	ActionProgress            Action = "progress"
	ActionHoldSlightly        Action = "hold_slightly"
	ActionConsolidate         Action = "consolidate"
	ActionProgressWithCaution Action = "progress_with_caution"
)

// Reason codes accumulate for every rule that fires, in evaluation order.
// Callers map them (with the action) to rationale sentences.
const (
	ReasonLowData       = "LOW_DATA"
	ReasonTimeBoxEscape = "TIME_BOX_ESCAPE"
	ReasonLowCompletion = "LOW_COMPLETION"
	ReasonHighEffort    = "HIGH_EFFORT"
	ReasonHRMismatch    = "HR_MISMATCH"
	ReasonGoodProgress  = "GOOD_PROGRESS"
	ReasonRacePrep      = "RACE_PREP"
)

// feedbackWindowWeeks restricts the engine to recent signal only.
const feedbackWindowWeeks = 4

// Summary is the progress engine's output.
type Summary struct {
	FocusPhaseName    string     `json:"focusPhaseName"`
	Rationale         string     `json:"rationale"`
	ProgressPercent   int        `json:"progressPercent"`
	Confidence        Confidence `json:"confidence"`
	RecommendedAction Action     `json:"recommendedAction"`
	ReasonCodes       []string   `json:"reasonCodes"`
}

// ComputeProgress folds the phase timeline, the current week, and recent
// key-workout feedback into a bounded progress estimate. It is a pure
// function of its inputs: no hidden state, fully deterministic, safe to
// re-run for diagnostics.
//
// weeksToRace is nil when no race date is known. A disabled timeline or a
// race three or fewer weeks away short-circuits to a fixed race-preparation
// output.
func ComputeProgress(timeline domain.PhaseTimeline, currentWeek int, feedback []domain.WorkoutFeedback, weeksToRace *int) Summary {
	raceClose := weeksToRace != nil && *weeksToRace <= 3
	if !timeline.Enabled || raceClose {
		return racePrepSummary()
	}

	phaseID, ok := timeline.PhaseForWeek(currentWeek)
	if !ok {
		// Week falls outside every window (plan overrun): treat it as the
		// last scheduled phase rather than refusing to answer.
		if len(timeline.Windows) == 0 {
			return racePrepSummary()
		}
		phaseID = timeline.Windows[len(timeline.Windows)-1].Phase
	}
	phase, ok := domain.PhaseByID(phaseID)
	if !ok {
		return racePrepSummary()
	}

	weeksIntoPhase := currentWeek - timeline.PhaseStartWeek(phaseID) + 1
	if weeksIntoPhase < 1 {
		weeksIntoPhase = 1
	}

	stats := tallyFeedback(restrictToWindow(feedback, currentWeek))
	timeBoxEscape := weeksIntoPhase >= phase.MaxDurationWeeks

	var codes []string
	if stats.total < 3 {
		codes = append(codes, ReasonLowData)
	}
	if timeBoxEscape {
		codes = append(codes, ReasonTimeBoxEscape)
	}
	if stats.completionRate < 0.7 {
		codes = append(codes, ReasonLowCompletion)
	}
	if stats.harderRate > 0.6 {
		codes = append(codes, ReasonHighEffort)
	}
	if stats.total >= 3 && stats.hrMismatchRate > 0.5 {
		codes = append(codes, ReasonHRMismatch)
	}

	confidence := ConfidenceMed
	switch {
	case stats.total < 3:
		confidence = ConfidenceLow
	case stats.hrMismatchRate > 0.5:
		confidence = ConfidenceLow
	case stats.completionRate >= 0.8 && stats.harderRate < 0.3 && !timeBoxEscape && stats.total >= 6:
		confidence = ConfidenceHigh
		codes = append(codes, ReasonGoodProgress)
	}
	// A time-box escape never reports high confidence, whatever the
	// completion signals say.
	if timeBoxEscape && confidence == ConfidenceHigh {
		confidence = ConfidenceMed
	}

	action := ActionProgress
	switch {
	case stats.completionRate < 0.5:
		action = ActionConsolidate
	case stats.completionRate < 0.7:
		action = ActionHoldSlightly
	}
	if stats.harderRate > 0.6 {
		action = escalate(action)
	}
	if timeBoxEscape {
		action = ActionProgressWithCaution
	}
	// Race proximity always wins over quality signals.
	if weeksToRace != nil && *weeksToRace <= 3 {
		action = ActionProgress
	}

	percent := 100
	if !timeBoxEscape {
		timeComponent := 60 * float64(weeksIntoPhase) / float64(phase.TypicalDurationWeeks)
		qualityBonus := 40 * stats.completionRate
		percent = int(math.Round(timeComponent + qualityBonus))
		if percent > 100 {
			percent = 100
		}
		if percent < 0 {
			percent = 0
		}
	}

	return Summary{
		FocusPhaseName:    phase.Name,
		Rationale:         rationaleFor(action, codes),
		ProgressPercent:   percent,
		Confidence:        confidence,
		RecommendedAction: action,
		ReasonCodes:       codes,
	}
}

func racePrepSummary() Summary {
	codes := []string{ReasonRacePrep}
	return Summary{
		FocusPhaseName:    "Race Preparation",
		Rationale:         rationaleFor(ActionProgress, codes),
		ProgressPercent:   100,
		Confidence:        ConfidenceMed,
		RecommendedAction: ActionProgress,
		ReasonCodes:       codes,
	}
}

func escalate(a Action) Action {
	switch a {
	case ActionProgress:
		return ActionHoldSlightly
	case ActionHoldSlightly:
		return ActionConsolidate
	default:
		return a
	}
}

type feedbackStats struct {
	total          int
	completionRate float64
	missedRate     float64
	harderRate     float64
	hrMismatchRate float64
}

func restrictToWindow(feedback []domain.WorkoutFeedback, currentWeek int) []domain.WorkoutFeedback {
	fromWeek := currentWeek - feedbackWindowWeeks + 1
	var window []domain.WorkoutFeedback
	for _, fb := range feedback {
		if fb.IsKeyWorkout && fb.WeekNumber >= fromWeek && fb.WeekNumber <= currentWeek {
			window = append(window, fb)
		}
	}
	return window
}

func tallyFeedback(feedback []domain.WorkoutFeedback) feedbackStats {
	stats := feedbackStats{total: len(feedback)}
	if stats.total == 0 {
		return stats
	}
	var completed, missed, harder, hrMismatch int
	for _, fb := range feedback {
		switch fb.CompletionStatus {
		case domain.CompletionCompleted:
			completed++
		case domain.CompletionMissed:
			missed++
		}
		if fb.EffortVsExpected == domain.EffortHarder {
			harder++
		}
		if fb.HRMatchedTarget == domain.HRMatchNo {
			hrMismatch++
		}
	}
	total := float64(stats.total)
	stats.completionRate = float64(completed) / total
	stats.missedRate = float64(missed) / total
	stats.harderRate = float64(harder) / total
	stats.hrMismatchRate = float64(hrMismatch) / total
	return stats
}
