package coach

import "github.com/abhisek/circlez/internal/llm"

// TipSchema constrains the model's reply to a Tip.
var TipSchema = &llm.Schema{
	Name:        "circle-tip",
	Description: "One short coaching tip for drawing a rounder circle",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"maxLength":   60,
				"description": "A few encouraging words about the attempt",
			},
			"advice": map[string]any{
				"type":        "string",
				"maxLength":   240,
				"description": "One or two sentences on what to change next time",
			},
			"focus": map[string]any{
				"type":        "string",
				"enum":        []any{string(FocusRegularity), string(FocusClosure), string(FocusPacing)},
				"description": "The score component the advice targets",
			},
		},
		"required":             []any{"headline", "advice", "focus"},
		"additionalProperties": false,
	},
}
