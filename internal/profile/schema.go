package profile

// BuildProfileJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Profiles arrive from config files and API callers, so they
// are validated before the pipeline trusts them.
func BuildProfileJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"pallet_count_policy": map[string]any{
				"type": "string",
				"enum": []string{PolicyQuantitySum, PolicyRowCount},
			},
			"cube_tolerance_pct": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 100.0,
			},
			"totals_keywords": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
			"skip_vocabulary": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
}
