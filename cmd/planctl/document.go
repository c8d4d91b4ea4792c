package main

import (
	"encoding/json"
	"fmt"
	"os"

	"alcyxob/runplan/internal/domain"

	"gopkg.in/yaml.v3"
)

// loadRawDocument reads a plan file (JSON or YAML; YAML is a superset of
// JSON so one decoder covers both) into a generic value suitable for
// schema validation.
func loadRawDocument(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rawFromBytes(data)
}

// rawFromBytes parses YAML or JSON and round-trips the result through
// encoding/json so the value uses the types the schema validator expects
// (float64 numbers, map[string]interface{} objects).
func rawFromBytes(data []byte) (interface{}, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	buf, err := json.Marshal(normalizeYAMLValue(raw))
	if err != nil {
		return nil, fmt.Errorf("re-encoding document: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("re-decoding document: %w", err)
	}
	return out, nil
}

// loadPlanDocument decodes a plan file into the domain document. The raw
// value is round-tripped through JSON so the document's json tags apply
// to YAML input too.
func loadPlanDocument(path string) (*domain.PlanDocument, error) {
	raw, err := loadRawDocument(path)
	if err != nil {
		return nil, err
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding %s: %w", path, err)
	}
	var doc domain.PlanDocument
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &doc, nil
}

// normalizeYAMLValue converts yaml.v3's map[string]interface{} trees into
// the JSON-compatible shapes the schema validator expects (notably
// map[interface{}]interface{} never appears with yaml.v3, but nested
// values still need recursion for json.Marshal round-trips).
func normalizeYAMLValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeYAMLValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	default:
		return v
	}
}
