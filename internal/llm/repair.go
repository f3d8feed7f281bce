package llm

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var (
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	reBareKey       = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)(\s*):`)
	reRawBreaks     = regexp.MustCompile(`[\r\n\t]`)
)

// repairFix is one named syntactic transform applied to malformed JSON.
type repairFix struct {
	name  string
	apply func(string) string
}

// repairFixes targets the error patterns LLMs are known to produce. Applied in
// order, once, before a single retry; no iterative fixed-point repair.
var repairFixes = []repairFix{
	{"trailing_commas", func(s string) string {
		return reTrailingComma.ReplaceAllString(s, "$1")
	}},
	{"bare_keys", func(s string) string {
		return reBareKey.ReplaceAllString(s, `$1"$2"$3:`)
	}},
	{"doubled_quotes", func(s string) string {
		return strings.ReplaceAll(s, `""`, `"`)
	}},
	{"raw_breaks", func(s string) string {
		return reRawBreaks.ReplaceAllString(s, " ")
	}},
}

// ParseCandidates attempts a strict parse of a JSON array of objects, repairing
// once on failure. Unrecoverable input yields an empty slice, never an error.
func ParseCandidates(s string, logger *slog.Logger) []Candidate {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}

	items, err := parseArray(s)
	if err != nil {
		logger.Warn("llm.parse.strict_failed", "error", err)
		fixed := s
		for _, fix := range repairFixes {
			fixed = fix.apply(fixed)
		}
		items, err = parseArray(strings.TrimSpace(fixed))
		if err != nil {
			logger.Error("llm.parse.repair_failed", "error", err)
			return nil
		}
		logger.Info("llm.parse.repaired")
	}

	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, Candidate(obj))
		} else {
			// non-object array element: keep a nil placeholder so the
			// normalizer can drop it while preserving positional ids
			out = append(out, nil)
		}
	}
	return out
}

func parseArray(s string) ([]any, error) {
	var v []any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}
