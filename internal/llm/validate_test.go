package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func tipTestSchema() *Schema {
	return &Schema{
		Name:        "tip-test",
		Description: "A coaching tip",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{"type": "string", "maxLength": 80},
				"focus":    map[string]any{"type": "string", "enum": []any{"regularity", "closure", "pacing"}},
			},
			"required":             []any{"headline", "focus"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"headline":"Close the loop","focus":"closure"}`, false},
		{"missing required", `{"headline":"x"}`, true},
		{"wrong type", `{"headline":7,"focus":"closure"}`, true},
		{"bad enum", `{"headline":"x","focus":"speed"}`, true},
		{"too long", `{"headline":"` + strings.Repeat("a", 81) + `","focus":"pacing"}`, true},
		{"extra field", `{"headline":"x","focus":"pacing","extra":1}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tipTestSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestValidateResponse_NestedArrays(t *testing.T) {
	schema := &Schema{
		Name: "nested-test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"points": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
				},
			},
			"required": []any{"points"},
		},
	}

	if err := validateResponse(schema, json.RawMessage(`{"points":[[1,2],[3.5,4]]}`)); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`{"points":[["a","b"]]}`)); err == nil {
		t.Fatal("expected error for string coordinates")
	}
}
