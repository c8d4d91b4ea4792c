package progress

import "strings"

// Sentences are assembled from a fixed base per action plus a clause per
// reason code, so every reachable (codes, action) combination maps to one
// stable, deterministic rationale string.

var actionSentences = map[Action]string{
	ActionProgress:            "Training is on track; keep progressing through the current focus.",
	ActionHoldSlightly:        "Hold the current training load a little longer before progressing.",
	ActionConsolidate:         "Consolidate at the current level before adding more load.",
	ActionProgressWithCaution: "Move to the next focus, but build in extra recovery.",
}

var reasonClauses = map[string]string{
	ReasonLowData:       "Not enough key workouts were logged recently to judge adaptation reliably.",
	ReasonTimeBoxEscape: "This phase has used its maximum allotted weeks, so the plan moves on regardless of workout quality.",
	ReasonLowCompletion: "Several recent key workouts were missed or cut short.",
	ReasonHighEffort:    "Recent key workouts felt harder than they should at this stage.",
	ReasonHRMismatch:    "Heart rate has been running outside the target zones, which weakens the signal.",
	ReasonRacePrep:      "Race day is close; the focus is freshness and race rehearsal, not building fitness.",
	ReasonGoodProgress:  "Key workouts are being completed at the expected effort.",
}

// rationaleFor renders the human-readable explanation for an action and
// the reason codes that fired. Unknown codes are skipped so the mapping
// stays total as new codes appear.
func rationaleFor(action Action, codes []string) string {
	parts := make([]string, 0, len(codes)+1)
	if base, ok := actionSentences[action]; ok {
		parts = append(parts, base)
	} else {
		parts = append(parts, actionSentences[ActionProgress])
	}
	for _, code := range codes {
		if clause, ok := reasonClauses[code]; ok {
			parts = append(parts, clause)
		}
	}
	return strings.Join(parts, " ")
}
