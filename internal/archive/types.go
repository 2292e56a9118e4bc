package archive

import "time"

// Run is one recorded build.
type Run struct {
	ID          int64     `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Feeds       int       `json:"feeds"`
	FailedFeeds int       `json:"failed_feeds"`
	Accepted    int       `json:"accepted"`
	Written     int       `json:"written"`
}

// Stats summarizes every item the archive has seen.
type Stats struct {
	Items    int            `json:"items"`
	Runs     int            `json:"runs"`
	ByVendor map[string]int `json:"by_vendor"`
	ByType   map[string]int `json:"by_type"`
	LastRun  *Run           `json:"last_run,omitempty"`
}
