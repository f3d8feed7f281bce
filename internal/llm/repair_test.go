package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidatesStrict(t *testing.T) {
	got := ParseCandidates(`[{"name":"Chaise","quantity":2}]`, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Chaise", got[0]["name"])
	assert.Equal(t, float64(2), got[0]["quantity"])
}

func TestParseCandidatesRepairsUnquotedKeyAndTrailingComma(t *testing.T) {
	got := ParseCandidates(`[{"name":"X", quantity: 2,}]`, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "X", got[0]["name"])
	assert.Equal(t, float64(2), got[0]["quantity"])
}

func TestParseCandidatesRepairsEmbeddedBreaks(t *testing.T) {
	got := ParseCandidates("[{\"name\":\"Bureau\n150cm\",\"quantity\":1}]", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Bureau 150cm", got[0]["name"])
}

func TestParseCandidatesUnrecoverable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "this is not json at all"},
		{"empty", ""},
		{"whitespace", "  \n "},
		{"not an array", `{"name":"Chaise"}`},
		{"hopelessly broken", `[{"name": "Chaise", "quantity": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseCandidates(tt.input, nil))
		})
	}
}

func TestParseCandidatesKeepsPositionsOfNonObjects(t *testing.T) {
	got := ParseCandidates(`[{"name":"A1"}, "stray string", {"name":"B2"}]`, nil)
	require.Len(t, got, 3)
	assert.NotNil(t, got[0])
	assert.Nil(t, got[1])
	assert.NotNil(t, got[2])
}

func TestRepairFixesIndividually(t *testing.T) {
	byName := map[string]func(string) string{}
	for _, f := range repairFixes {
		byName[f.name] = f.apply
	}

	tests := []struct {
		fix  string
		in   string
		want string
	}{
		{"trailing_commas", `{"a":1,}`, `{"a":1}`},
		{"trailing_commas", `[1,2,]`, `[1,2]`},
		{"trailing_commas", `{"a":1,  }`, `{"a":1  }`},
		{"bare_keys", `{name: "X"}`, `{"name": "X"}`},
		{"bare_keys", `{"a":1, qty: 2}`, `{"a":1, "qty": 2}`},
		{"bare_keys", `{"already": "quoted"}`, `{"already": "quoted"}`},
		{"doubled_quotes", `{""a"": 1}`, `{"a": 1}`},
		{"raw_breaks", "{\"a\":\n\t1}", `{"a":  1}`},
	}
	for _, tt := range tests {
		t.Run(tt.fix+"/"+tt.in, func(t *testing.T) {
			apply, ok := byName[tt.fix]
			require.True(t, ok, "unknown fix %q", tt.fix)
			assert.Equal(t, tt.want, apply(tt.in))
		})
	}
}

func TestRepairOrderIsFixed(t *testing.T) {
	names := make([]string, 0, len(repairFixes))
	for _, f := range repairFixes {
		names = append(names, f.name)
	}
	assert.Equal(t, []string{"trailing_commas", "bare_keys", "doubled_quotes", "raw_breaks"}, names)
}
