package llm

// BuildProductJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the normalized product list. We use it locally as a
// regression guard on the normalizer's output.
func BuildProductJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 1, "maxLength": 40},
			"name":        map[string]any{"type": "string", "minLength": 2},
			"description": map[string]any{"type": "string", "maxLength": 200},
			"quantity":    map[string]any{"type": "integer", "exclusiveMinimum": 0, "exclusiveMaximum": 1000},
			"priceTTC":    map[string]any{"type": "number", "exclusiveMinimum": 0},
			"priceHT":     map[string]any{"type": "number", "exclusiveMinimum": 0},
			"reference":   map[string]any{"type": "string", "maxLength": 50},
		},
		"required": []string{"id", "name", "quantity"},
	}
	return map[string]any{
		"type":  "array",
		"items": item,
	}
}
