package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"alcyxob/runplan/internal/domain"
	"alcyxob/runplan/internal/progress"
	"alcyxob/runplan/internal/schedule"
)

func validatePlanFile(path string) error {
	fmt.Printf("□ Validating %s\n", path)

	raw, err := loadRawDocument(path)
	if err != nil {
		return err
	}
	sch, err := compiledPlanSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(raw); err != nil {
		return fail("schema validation failed: %v", err)
	}
	fmt.Println("✓ Document shape is valid")

	doc, err := loadPlanDocument(path)
	if err != nil {
		return err
	}
	if doc.IsLegacyShaped() {
		fmt.Println("✓ Legacy weekly document (run 'planctl normalize' to migrate)")
		return nil
	}

	result := schedule.ValidateDays(doc.Days)
	if !result.Valid {
		for _, msg := range result.Errors {
			fmt.Printf("✗ %s\n", msg)
		}
		return fail("schedule has %d invariant violation(s)", len(result.Errors))
	}
	fmt.Printf("✓ Schedule is valid (%d days)\n", len(doc.Days))
	return nil
}

func normalizePlanFile(path string) error {
	fmt.Printf("□ Normalizing %s\n", path)

	doc, err := loadPlanDocument(path)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	result := schedule.NewNormalizer(logger).Normalize(doc, startDateFlag)

	diag := result.Diagnostics
	fmt.Printf("✓ Normalized: %v (persist: %v)\n", result.WasNormalized, result.NeedsPersistence)
	fmt.Printf("  days: %d -> %d, invariant failures: %d\n",
		diag.OriginalDayCount, diag.NormalizedDayCount, diag.InvariantFailureCount)
	if len(diag.MissingWeekdaysInWeek1) > 0 {
		fmt.Printf("  week 1 missing weekdays: %v\n", diag.MissingWeekdaysInWeek1)
	}

	out, err := json.MarshalIndent(result.Plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding normalized document: %w", err)
	}
	if outputFile == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(outputFile, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	fmt.Printf("✓ Normalized document written to %s\n", outputFile)
	return nil
}

func progressForPlanFile(path string) error {
	doc, err := loadPlanDocument(path)
	if err != nil {
		return err
	}

	// Feedback rides alongside the document in tooling files; the API
	// stores it in its own collection.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var extra struct {
		Feedback []domain.WorkoutFeedback `json:"feedback"`
	}
	if buf, merr := jsonBytes(data); merr == nil {
		_ = json.Unmarshal(buf, &extra)
	}

	var timeline domain.PhaseTimeline
	if doc.Timeline != nil {
		timeline = *doc.Timeline
	}

	var weeksToRace *int
	if weeksToRaceFlag >= 0 {
		w := weeksToRaceFlag
		weeksToRace = &w
	}

	summary := progress.ComputeProgress(timeline, weekFlag, extra.Feedback, weeksToRace)
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// jsonBytes re-encodes file content (JSON or YAML) as JSON so struct tags
// apply uniformly.
func jsonBytes(data []byte) ([]byte, error) {
	raw, err := rawFromBytes(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}
