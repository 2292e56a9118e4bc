// Package pipeline drives one build: fetch every vendor feed, turn entries
// into items, drop the ones already seen, then merge, save and report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/agent-radar/internal/archive"
	"github.com/lysyi3m/agent-radar/internal/feed"
	"github.com/lysyi3m/agent-radar/internal/notify"
	"github.com/lysyi3m/agent-radar/internal/radar"
	"github.com/lysyi3m/agent-radar/internal/sources"
	"github.com/lysyi3m/agent-radar/internal/store"
)

type Pipeline struct {
	opts       Options
	normalizer *feed.Normalizer
	now        func() time.Time
}

func New(opts Options) *Pipeline {
	opts.Workers = max(opts.Workers, 1)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		opts:       opts,
		normalizer: feed.NewNormalizer(),
		now:        now,
	}
}

type job struct {
	slot    int
	vendor  *sources.Vendor
	feedURL string
}

// Run executes a full build. Only a failure to write the output snapshot is
// returned as an error; everything else is logged and counted.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	startedAt := p.now()
	result := &Result{StartedAt: startedAt}

	prior := p.loadPrior()
	result.Prior = len(prior)

	priorSeen := radar.NewSeenSet()
	priorSeen.Seed(prior)

	outcomes := p.scan(ctx, startedAt, priorSeen)

	seen := radar.NewSeenSet()
	seen.Seed(prior)

	var fresh []radar.Item
	for _, outcome := range outcomes {
		result.Counters.add(outcome.counters)
		for _, candidate := range outcome.candidates {
			if !seen.Add(candidate.ID) {
				result.Counters.Duplicates++
				continue
			}
			fresh = append(fresh, candidate)
		}
	}
	result.Counters.Accepted = len(fresh)

	result.Items = store.Merge(prior, fresh, p.opts.Top)
	p.fillSummaries(ctx, result.Items, priorSeen)

	if err := store.Save(p.opts.OutPath, result.Items); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	finishedAt := p.now()
	result.Duration = finishedAt.Sub(startedAt)

	p.record(ctx, result, finishedAt)
	p.notify(ctx, result.Items)

	slog.Info("Build completed",
		"out", p.opts.OutPath,
		"duration", result.Duration,
		"feeds", result.Counters.Feeds,
		"failed_feeds", result.Counters.FailedFeeds,
		"entries", result.Counters.Entries,
		"rejected", result.Counters.Rejected,
		"out_of_window", result.Counters.OutOfWindow,
		"unmatched", result.Counters.Unmatched,
		"duplicates", result.Counters.Duplicates,
		"accepted", result.Counters.Accepted,
		"prior", result.Prior,
		"written", len(result.Items))

	return result, nil
}

func (p *Pipeline) loadPrior() []radar.Item {
	if p.opts.InPath == "" {
		return nil
	}

	snapshot := store.Load(p.opts.InPath)
	switch {
	case errors.Is(snapshot.Err, store.ErrNoSnapshot):
		slog.Info("No prior snapshot, starting empty", "in", p.opts.InPath)
	case snapshot.Err != nil:
		slog.Warn("Prior snapshot unusable, starting empty", "in", p.opts.InPath, "error", snapshot.Err)
	default:
		slog.Debug("Prior snapshot loaded", "in", p.opts.InPath, "items", len(snapshot.Items), "skipped", snapshot.Skipped)
	}

	return snapshot.Items
}

// scan processes every feed on a bounded pool. Each worker writes only its
// own slot, so the returned outcomes are in vendor then feed order.
func (p *Pipeline) scan(ctx context.Context, now time.Time, priorSeen *radar.SeenSet) []feedOutcome {
	var jobs []job
	for vi := range p.opts.Vendors {
		vendor := &p.opts.Vendors[vi]
		for _, feedURL := range vendor.Feeds {
			jobs = append(jobs, job{slot: len(jobs), vendor: vendor, feedURL: feedURL})
		}
	}

	outcomes := make([]feedOutcome, len(jobs))

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			outcomes[j.slot] = p.processFeed(ctx, j.vendor, j.feedURL, now, priorSeen)
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func (p *Pipeline) processFeed(ctx context.Context, vendor *sources.Vendor, feedURL string, now time.Time, priorSeen *radar.SeenSet) feedOutcome {
	outcome := feedOutcome{counters: Counters{Feeds: 1}}

	fetched := p.opts.Fetcher.Run(ctx, feedURL)
	if !fetched.OK() {
		outcome.counters.FailedFeeds = 1
		slog.Warn("Feed fetch failed", "vendor", vendor.Name, "feed", feedURL, "error", fetched.Err)
		return outcome
	}

	outcome.counters.Entries = len(fetched.Entries)

	for _, raw := range fetched.Entries {
		entry, ok := p.normalizer.Run(raw)
		if !ok || entry.Title == "" {
			outcome.counters.Rejected++
			continue
		}

		if !radar.InWindow(entry.Published, now, p.opts.Days) {
			outcome.counters.OutOfWindow++
			continue
		}

		text := radar.MatchText(entry.Title, entry.Description, entry.Link)
		if !vendor.Keywords.Match(text) {
			outcome.counters.Unmatched++
			continue
		}

		item := buildItem(vendor, entry, radar.Classify(text))

		if priorSeen.Has(item.ID) {
			outcome.counters.Duplicates++
			continue
		}

		outcome.candidates = append(outcome.candidates, item)
	}

	slog.Debug("Feed processed",
		"vendor", vendor.Name,
		"feed", feedURL,
		"entries", outcome.counters.Entries,
		"candidates", len(outcome.candidates))

	return outcome
}

func buildItem(vendor *sources.Vendor, entry feed.NormalizedEntry, changeType radar.ChangeType) radar.Item {
	date := entry.Published.UTC().Format(radar.DateLayout)
	return radar.Item{
		ID:       radar.ItemID(date, vendor.Name, entry.Title),
		Date:     date,
		Name:     radar.Truncate(entry.Title, radar.MaxNameLength),
		Vendor:   vendor.Name,
		Type:     changeType,
		Summary:  radar.Truncate(entry.Description, radar.MaxSummaryLength),
		Sources:  []radar.Source{{Title: vendor.Name + " source", URL: entry.Link}},
		Impact:   vendor.Impact,
		Risk:     vendor.Risk,
		Audience: vendor.Audience,
		Tags:     []string{},
	}
}

// fillSummaries fetches a summary for every new item that still has none.
// Prior items are never refetched.
func (p *Pipeline) fillSummaries(ctx context.Context, items []radar.Item, priorSeen *radar.SeenSet) {
	if p.opts.Summarizer == nil {
		return
	}

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i := range items {
		if items[i].Summary != "" || priorSeen.Has(items[i].ID) {
			continue
		}
		g.Go(func() error {
			items[i].Summary = p.summarize(ctx, items[i].Vendor, items[i].PrimaryURL())
			return nil
		})
	}
	g.Wait()
}

func (p *Pipeline) summarize(ctx context.Context, vendor, link string) string {
	if p.opts.Summarizer == nil {
		return ""
	}

	result := p.opts.Summarizer.Run(ctx, link)
	if result.Err != nil {
		slog.Debug("Summary fallback failed", "vendor", vendor, "url", link, "error", result.Err)
		return ""
	}
	return result.Text
}

func (p *Pipeline) record(ctx context.Context, result *Result, finishedAt time.Time) {
	if p.opts.Archive == nil {
		return
	}

	if err := p.opts.Archive.RecordItems(ctx, result.Items, finishedAt); err != nil {
		slog.Warn("Failed to archive items", "error", err)
	}

	run := archive.Run{
		StartedAt:   result.StartedAt,
		FinishedAt:  finishedAt,
		Feeds:       result.Counters.Feeds,
		FailedFeeds: result.Counters.FailedFeeds,
		Accepted:    result.Counters.Accepted,
		Written:     len(result.Items),
	}
	if _, err := p.opts.Archive.RecordRun(ctx, run); err != nil {
		slog.Warn("Failed to archive run", "error", err)
	}
}

func (p *Pipeline) notify(ctx context.Context, items []radar.Item) {
	if p.opts.Notifier == nil {
		return
	}

	if err := p.opts.Notifier.Run(ctx, notify.Digest(items)); err != nil {
		slog.Warn("Notification failed", "error", err)
		return
	}

	slog.Debug("Notification sent", "items", len(items))
}
