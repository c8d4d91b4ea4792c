package schedule

import (
	"log/slog"
	"reflect"
	"sort"
	"time"

	"alcyxob/runplan/internal/calendar"
	"alcyxob/runplan/internal/domain"

	"github.com/google/uuid"
)

// Diagnostics carries non-fatal observations from a normalization pass.
type Diagnostics struct {
	OriginalDayCount       int      `json:"originalDayCount"`
	NormalizedDayCount     int      `json:"normalizedDayCount"`
	InvariantFailureCount  int      `json:"invariantFailureCount"`
	MissingWeekdaysInWeek1 []string `json:"missingWeekdaysInWeek1,omitempty"`
}

// NormalizationResult is the outcome of a normalization pass. The document
// must be written back only when NeedsPersistence is true; WasNormalized
// with NeedsPersistence=false means "safe to show, nothing to save".
type NormalizationResult struct {
	Plan             *domain.PlanDocument `json:"planDocument"`
	WasNormalized    bool                 `json:"wasNormalized"`
	NeedsPersistence bool                 `json:"needsPersistence"`
	Diagnostics      Diagnostics          `json:"diagnostics"`
}

// Normalizer migrates stored plans of unknown vintage to the canonical
// shape and rebuilds their weekly view. All work happens on a deep copy;
// the input document is never mutated, and any internal failure returns
// the original untouched.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger falls back to
// slog.Default().
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize detects the stored format of doc, migrates it if legacy,
// validates the canonical day list, and rebuilds the weekly view.
// startDate overrides the document's own start date when non-empty.
//
// Failure semantics: a failed legacy conversion falls back to the original
// document; invariant violations are counted and logged but never abort;
// any panic during processing fails closed to the unchanged input. The
// caller always gets a renderable document back.
func (n *Normalizer) Normalize(doc *domain.PlanDocument, startDate string) (result NormalizationResult) {
	unchanged := NormalizationResult{
		Plan: doc,
		Diagnostics: Diagnostics{
			OriginalDayCount:   len(doc.Days),
			NormalizedDayCount: len(doc.Days),
		},
	}

	// Normalization must never partially apply: if anything below blows
	// up, hand the caller the original document.
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("normalization failed closed", "plan", doc.ID.Hex(), "panic", r)
			result = unchanged
		}
	}()

	if startDate == "" {
		startDate = doc.StartDate
	}

	work := doc.Clone()
	wasConverted := false

	// Migration-on-read: only legacy-shaped documents with no canonical
	// days and a usable start date are converted.
	if work.IsLegacyShaped() && startDate != "" {
		conv := ConvertLegacyPlan(work.LegacyPlan, startDate)
		if conv.Success {
			work.Days = conv.Days
			if work.StartDate == "" {
				work.StartDate = startDate
			}
			work.Migration = &domain.MigrationInfo{
				MigrationID:    uuid.NewString(),
				MigratedAt:     time.Now().UTC(),
				OriginalFormat: domain.FormatLegacyWeekly,
				WeeksConverted: conv.Metadata.WeeksConverted,
				DaysGenerated:  conv.Metadata.DaysGenerated,
			}
			wasConverted = true
			n.logger.Info("migrated legacy plan to canonical days",
				"plan", doc.ID.Hex(),
				"weeks", conv.Metadata.WeeksConverted,
				"days", conv.Metadata.DaysGenerated)
		} else {
			// Conversion failure never discards existing data.
			n.logger.Error("legacy plan conversion failed, keeping original document",
				"plan", doc.ID.Hex(), "errors", conv.Errors)
		}
	}

	// Still not date-based: nothing safe to do.
	if len(work.Days) == 0 {
		return unchanged
	}
	// Without a start date week boundaries cannot be derived safely.
	if startDate == "" {
		return unchanged
	}

	// The format is resolved once here; downstream code trusts the field
	// instead of re-checking optional payloads. This also stamps canonical
	// documents that predate the formatVersion field.
	work.FormatVersion = work.ResolveFormat()

	diags := Diagnostics{
		OriginalDayCount:   len(doc.Days),
		NormalizedDayCount: len(work.Days),
	}

	// Canonical days must survive view building untouched. Snapshot before,
	// assert after; a deviation is a defect to report loudly, not fix.
	before := fingerprintDays(work.Days)

	sortedDays := domain.CloneDays(work.Days)
	sort.Slice(sortedDays, func(i, j int) bool { return sortedDays[i].Date < sortedDays[j].Date })

	rebuiltView := BuildWeeklyView(sortedDays)

	if !fingerprintsEqual(before, fingerprintDays(work.Days)) {
		n.logger.Error("canonical days mutated during view rebuild, this is a defect",
			"plan", doc.ID.Hex())
		diags.InvariantFailureCount++
	}

	validation := ValidateDays(sortedDays)
	if !validation.Valid {
		diags.InvariantFailureCount += len(validation.Errors)
		n.logger.Warn("schedule invariant violations detected",
			"plan", doc.ID.Hex(), "errors", validation.Errors)
	}

	diags.InvariantFailureCount += n.countViewDrift(doc.ID.Hex(), sortedDays, rebuiltView)
	diags.MissingWeekdaysInWeek1 = missingWeekdaysInWeek1(sortedDays, rebuiltView)

	work.WeeklyView = rebuiltView

	wasNormalized := wasConverted || !weeklyViewsEqual(doc.WeeklyView, rebuiltView)

	// Rebuilding the view from already-canonical days is non-destructive;
	// only an actual legacy migration triggers a write-back.
	return NormalizationResult{
		Plan:             work,
		WasNormalized:    wasNormalized,
		NeedsPersistence: wasConverted,
		Diagnostics:      diags,
	}
}

// countViewDrift cross-checks every non-rest view cell against the
// canonical day at the same date. A mismatch means the view drifted from
// the source of truth.
func (n *Normalizer) countViewDrift(planID string, days []domain.ScheduleDay, views []domain.WeekView) int {
	byDate := make(map[string]domain.ScheduleDay, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}
	drift := 0
	for _, view := range views {
		for weekday, cell := range view.Days {
			if cell.Kind == domain.DayKindRest {
				continue
			}
			day, ok := byDate[cell.Date]
			if !ok || day.WorkoutText != cell.WorkoutText {
				drift++
				n.logger.Warn("weekly view drift from canonical days",
					"plan", planID, "week", view.WeekNumber, "weekday", string(weekday), "date", cell.Date)
			}
		}
	}
	return drift
}

// missingWeekdaysInWeek1 reports which week-1 cells had to be synthesized
// because no canonical day covers their date. Mid-week plan starts are
// legitimate; the list is a diagnostic, not an error.
func missingWeekdaysInWeek1(days []domain.ScheduleDay, views []domain.WeekView) []string {
	if len(views) == 0 {
		return nil
	}
	have := make(map[string]bool, len(days))
	for _, d := range days {
		have[d.Date] = true
	}
	var missing []string
	for _, weekday := range calendar.Weekdays() {
		cell, ok := views[0].Days[weekday]
		if !ok || !have[cell.Date] {
			missing = append(missing, string(weekday))
		}
	}
	return missing
}

type dayFingerprint struct {
	date        string
	workoutText string
}

func fingerprintDays(days []domain.ScheduleDay) []dayFingerprint {
	prints := make([]dayFingerprint, len(days))
	for i, d := range days {
		prints[i] = dayFingerprint{date: d.Date, workoutText: d.WorkoutText}
	}
	return prints
}

func fingerprintsEqual(a, b []dayFingerprint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// weeklyViewsEqual is a typed deep structural comparison, deliberately not
// a serialized-string diff.
func weeklyViewsEqual(a, b []domain.WeekView) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].WeekNumber != b[i].WeekNumber {
			return false
		}
		if len(a[i].Days) != len(b[i].Days) {
			return false
		}
		for weekday, cell := range a[i].Days {
			other, ok := b[i].Days[weekday]
			if !ok || !reflect.DeepEqual(cell, other) {
				return false
			}
		}
	}
	return true
}
