package cfg

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestParseBuildDefaults(t *testing.T) {
	cfg, err := Parse([]string{"build", "--sources", "sources.yml"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, CommandBuild, cfg.Command)
	assert.Equal(t, "sources.yml", cfg.SourcesPath)
	assert.Equal(t, "data/agent-radar.json", cfg.OutPath)
	assert.Equal(t, 30, cfg.Days)
	assert.Equal(t, 60, cfg.Top)
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.Incremental())
}

func TestParseBuildIncremental(t *testing.T) {
	cfg, err := Parse([]string{
		"--debug", "build",
		"--sources", "s.yml",
		"--in", "prev.json",
		"--out", "next.json",
		"--days", "7",
		"--top", "5",
		"--workers", "4",
		"--notify", "https://hooks.example/x",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Incremental())
	assert.Equal(t, "prev.json", cfg.InPath)
	assert.Equal(t, "next.json", cfg.OutPath)
	assert.Equal(t, 7, cfg.Days)
	assert.Equal(t, 5, cfg.Top)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, "https://hooks.example/x", cfg.NotifyURL)
}

func TestParseBuildRequiresSources(t *testing.T) {
	_, err := Parse([]string{"build"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestParseRejectsNegativeTop(t *testing.T) {
	_, err := Parse([]string{"build", "--sources", "s.yml", "--top=-1"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestParseServe(t *testing.T) {
	cfg, err := Parse([]string{"serve", "--snapshot", "snap.json", "--port", "9090", "--base-url", "https://radar.example.com"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, CommandServe, cfg.Command)
	assert.Equal(t, "snap.json", cfg.SnapshotPath)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://radar.example.com", cfg.BaseURL)
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	cfg, err := Parse([]string{"--help"}, &out)
	assert.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "build")
}
