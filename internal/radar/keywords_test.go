package radar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeywordSetMergesAndDedups(t *testing.T) {
	set := NewKeywordSet([]string{"Agent", "mcp"}, []string{"agent", " Workflow ", ""})

	assert.Equal(t, []string{"agent", "mcp", "workflow"}, set.Keywords())
	assert.Equal(t, 3, set.Len())
}

func TestKeywordSetKeywordsIsACopy(t *testing.T) {
	set := NewKeywordSet([]string{"agent"})
	kws := set.Keywords()
	kws[0] = "changed"

	assert.Equal(t, []string{"agent"}, set.Keywords())
}

func TestKeywordSetMatch(t *testing.T) {
	set := NewKeywordSet(GlobalKeywords, []string{"Vertex"})

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "global keyword", text: "New MCP server support", expected: true},
		{name: "vendor keyword case-insensitive", text: "vertex ai update", expected: true},
		{name: "substring", text: "multi-agentic systems", expected: true},
		{name: "keyword in link", text: MatchText("Weekly notes", "", "https://x.com/observability"), expected: true},
		{name: "no match", text: "Quarterly earnings call", expected: false},
		{name: "empty", text: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, set.Match(tt.text))
		})
	}
}

func TestEmptyKeywordSetMatchesNothing(t *testing.T) {
	assert.False(t, NewKeywordSet().Match("anything at all"))
}

func TestMatchText(t *testing.T) {
	assert.Equal(t, "t d l", MatchText("t", "d", "l"))
}
