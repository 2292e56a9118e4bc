package api

import (
	"context"

	"github.com/lysyi3m/agent-radar/internal/archive"
	"github.com/lysyi3m/agent-radar/internal/radar"
)

type StatsProvider interface {
	Stats(ctx context.Context) (archive.Stats, error)
}

type GeneratorInterface interface {
	Run(items []radar.Item) (string, error)
}

var (
	_ StatsProvider      = (*archive.Archive)(nil)
	_ GeneratorInterface = (*Generator)(nil)
)

type Handler struct {
	snapshotPath string
	stats        StatsProvider
	generator    GeneratorInterface
	version      string
}
