package pipeline

import (
	"context"
	"time"

	"github.com/lysyi3m/agent-radar/internal/archive"
	"github.com/lysyi3m/agent-radar/internal/feed"
	"github.com/lysyi3m/agent-radar/internal/notify"
	"github.com/lysyi3m/agent-radar/internal/radar"
	"github.com/lysyi3m/agent-radar/internal/summary"
)

var (
	_ Fetcher    = (*feed.Fetcher)(nil)
	_ Summarizer = (*summary.Summarizer)(nil)
	_ Notifier   = (*notify.Notifier)(nil)
	_ Archiver   = (*archive.Archive)(nil)
)

// Fetcher retrieves the raw entries of one feed. Failures are reported in
// the result, never returned.
type Fetcher interface {
	Run(ctx context.Context, feedURL string) feed.FetchResult
}

// Summarizer produces a fallback description for an entry link.
type Summarizer interface {
	Run(ctx context.Context, pageURL string) summary.SummaryResult
}

// Notifier delivers the run digest.
type Notifier interface {
	Run(ctx context.Context, text string) error
}

// Archiver records written items and run counters.
type Archiver interface {
	RecordItems(ctx context.Context, items []radar.Item, seenAt time.Time) error
	RecordRun(ctx context.Context, run archive.Run) (int64, error)
}
