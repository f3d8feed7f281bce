package llm

import "context"

// Candidate is one loosely-typed object parsed from the model's JSON array,
// prior to normalization. Fields may be absent, null, or wrongly typed.
type Candidate map[string]any

// Completer is the opaque text-in/text-out LLM call the pipeline depends on.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
