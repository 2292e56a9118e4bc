package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSources(t, `
vendors:
  - name: Acme
    audience: ops
    impact: 4
    risk: 0
    keywords: [Workflow, " agent "]
    feeds:
      - https://acme.example/rss.xml
      - https://acme.example/items.json
  - name: Globex
    feeds: [https://globex.example/atom.xml]
`)

	vendors, err := Load(path)
	require.NoError(t, err)
	require.Len(t, vendors, 2)

	acme := vendors[0]
	assert.Equal(t, "Acme", acme.Name)
	assert.Equal(t, "ops", acme.Audience)
	assert.Equal(t, 4, acme.Impact)
	assert.Equal(t, 0, acme.Risk)
	assert.Equal(t, []string{"https://acme.example/rss.xml", "https://acme.example/items.json"}, acme.Feeds)
	assert.Contains(t, acme.Keywords.Keywords(), "workflow")
	assert.True(t, acme.Keywords.Match("new WORKFLOW engine"))

	globex := vendors[1]
	assert.Equal(t, DefaultAudience, globex.Audience)
	assert.Equal(t, DefaultImpact, globex.Impact)
	assert.Equal(t, DefaultRisk, globex.Risk)
	assert.False(t, globex.Keywords.Match("new workflow engine"))
	assert.True(t, globex.Keywords.Match("MCP support"))
}

func TestLoadKeywordSetIsMergedAndSorted(t *testing.T) {
	vendors, err := Parse([]byte(`
vendors:
  - name: Acme
    keywords: [zeta, agent, Alpha]
`))
	require.NoError(t, err)
	require.Len(t, vendors, 1)

	keywords := vendors[0].Keywords.Keywords()
	assert.IsIncreasing(t, keywords)
	assert.Contains(t, keywords, "alpha")
	assert.Contains(t, keywords, "zeta")

	count := 0
	for _, k := range keywords {
		if k == "agent" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing name",
			content: "vendors:\n  - feeds: [https://x.example/rss]\n",
			errMsg:  "vendor name is required",
		},
		{
			name:    "negative impact",
			content: "vendors:\n  - name: A\n    impact: -1\n",
			errMsg:  "impact must be non-negative",
		},
		{
			name:    "negative risk",
			content: "vendors:\n  - name: A\n    risk: -2\n",
			errMsg:  "risk must be non-negative",
		},
		{
			name:    "empty feed",
			content: "vendors:\n  - name: A\n    feeds: [\"\"]\n",
			errMsg:  "feed at index 0 is empty",
		},
		{
			name:    "invalid yaml",
			content: "vendors: [",
			errMsg:  "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSources(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read sources file")
}

func TestLoadEmptyFile(t *testing.T) {
	vendors, err := Load(writeSources(t, ""))
	require.NoError(t, err)
	assert.Empty(t, vendors)
}
