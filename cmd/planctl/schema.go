package main

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// planSchemaJSON is the raw-shape contract for a stored plan document.
// It covers both canonical and legacy documents: each is permitted, and
// field-level invariants (duplicates, ordering) are checked afterwards
// by the schedule validator.
const planSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": { "type": "string" },
    "formatVersion": { "type": "string", "enum": ["legacy_weekly", "canonical_daily"] },
    "startDate": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
    "raceDate": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
    "days": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
          "dayOfWeek": { "type": "string" },
          "workoutText": { "type": "string" },
          "tips": { "type": "array", "items": { "type": "string" } },
          "kind": { "type": "string", "enum": ["train", "rest", "race"] }
        },
        "required": ["date", "dayOfWeek", "workoutText"]
      }
    },
    "plan": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "week": { "type": "integer", "minimum": 1 },
          "days": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "properties": {
                "workoutText": { "type": "string" },
                "tips": { "type": "array", "items": { "type": "string" } },
                "kind": { "type": "string", "enum": ["train", "rest", "race"] }
              }
            }
          }
        },
        "required": ["week", "days"]
      }
    },
    "phaseTimeline": {
      "type": "object",
      "properties": {
        "enabled": { "type": "boolean" },
        "allowedPhases": { "type": "array", "items": { "type": "string" } },
        "windows": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "phase": { "type": "string" },
              "weekStart": { "type": "integer", "minimum": 1 },
              "weekEnd": { "type": "integer", "minimum": 1 }
            },
            "required": ["phase", "weekStart", "weekEnd"]
          }
        }
      }
    }
  },
  "anyOf": [
    { "required": ["days"] },
    { "required": ["plan"] }
  ]
}`

var (
	planSchemaOnce sync.Once
	planSchema     *jsonschema.Schema
	planSchemaErr  error
)

func compiledPlanSchema() (*jsonschema.Schema, error) {
	planSchemaOnce.Do(func() {
		planSchema, planSchemaErr = jsonschema.CompileString("plan.schema.json", planSchemaJSON)
		if planSchemaErr != nil {
			planSchemaErr = fmt.Errorf("compiling plan schema: %w", planSchemaErr)
		}
	})
	return planSchema, planSchemaErr
}
