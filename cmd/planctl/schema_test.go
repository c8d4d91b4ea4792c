package main

import (
	"encoding/json"
	"testing"
)

func validateRaw(t *testing.T, doc string) error {
	t.Helper()
	sch, err := compiledPlanSchema()
	if err != nil {
		t.Fatalf("schema failed to compile: %v", err)
	}
	var raw interface{}
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("test document is not valid JSON: %v", err)
	}
	return sch.Validate(raw)
}

func TestPlanSchemaAcceptsCanonicalDocument(t *testing.T) {
	doc := `{
		"name": "10k spring block",
		"formatVersion": "canonical_daily",
		"startDate": "2026-02-02",
		"days": [
			{
				"date": "2026-02-02",
				"dayOfWeek": "Mon",
				"workoutText": "Easy run 5k",
				"tips": ["Keep it conversational", "Hydrate"],
				"kind": "train"
			},
			{
				"date": "2026-02-03",
				"dayOfWeek": "Tue",
				"workoutText": "Rest day - no running scheduled",
				"kind": "rest"
			}
		]
	}`
	if err := validateRaw(t, doc); err != nil {
		t.Errorf("canonical document with tips rejected: %v", err)
	}
}

func TestPlanSchemaAcceptsLegacyDocument(t *testing.T) {
	doc := `{
		"name": "old block",
		"startDate": "2026-02-02",
		"plan": [
			{
				"week": 1,
				"days": {
					"Mon": {"workoutText": "Easy run 5k", "tips": ["Take it easy"]},
					"Wed": {"workoutText": "Intervals 6x400m", "kind": "train"}
				}
			}
		]
	}`
	if err := validateRaw(t, doc); err != nil {
		t.Errorf("legacy document with object cells rejected: %v", err)
	}
}

func TestPlanSchemaRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"neither days nor plan", `{"name": "empty"}`},
		{"day missing workoutText", `{"days": [{"date": "2026-02-02", "dayOfWeek": "Mon"}]}`},
		{"tips as bare string", `{"days": [{"date": "2026-02-02", "dayOfWeek": "Mon", "workoutText": "Run", "tips": "not a list"}]}`},
		{"legacy cell as bare string", `{"plan": [{"week": 1, "days": {"Mon": "Easy run"}}]}`},
		{"bad date pattern", `{"days": [{"date": "02/02/2026", "dayOfWeek": "Mon", "workoutText": "Run"}]}`},
		{"unknown kind", `{"days": [{"date": "2026-02-02", "dayOfWeek": "Mon", "workoutText": "Run", "kind": "tempo"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateRaw(t, tt.doc); err == nil {
				t.Error("malformed document passed schema validation")
			}
		})
	}
}
