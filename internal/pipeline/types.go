package pipeline

import (
	"time"

	"github.com/lysyi3m/agent-radar/internal/radar"
	"github.com/lysyi3m/agent-radar/internal/sources"
)

// Options configures a Pipeline. Summarizer, Notifier and Archive are
// optional; Now defaults to time.Now.
type Options struct {
	Vendors    []sources.Vendor
	Fetcher    Fetcher
	Summarizer Summarizer
	Notifier   Notifier
	Archive    Archiver

	InPath  string
	OutPath string
	Days    int
	Top     int
	Workers int

	Now func() time.Time
}

// Counters are the per-run entry and feed tallies.
type Counters struct {
	Feeds       int
	FailedFeeds int
	Entries     int
	Rejected    int
	OutOfWindow int
	Unmatched   int
	Duplicates  int
	Accepted    int
}

func (c *Counters) add(o Counters) {
	c.Feeds += o.Feeds
	c.FailedFeeds += o.FailedFeeds
	c.Entries += o.Entries
	c.Rejected += o.Rejected
	c.OutOfWindow += o.OutOfWindow
	c.Unmatched += o.Unmatched
	c.Duplicates += o.Duplicates
	c.Accepted += o.Accepted
}

// Result is the outcome of one Run.
type Result struct {
	Items     []radar.Item
	Prior     int
	Counters  Counters
	StartedAt time.Time
	Duration  time.Duration
}

// feedOutcome holds the candidates built from one feed, in entry order.
type feedOutcome struct {
	candidates []radar.Item
	counters   Counters
}
