package cfg

import "time"

type Command string

const (
	CommandBuild Command = "build"
	CommandServe Command = "serve"
)

type Cfg struct {
	Command Command

	// Build configuration
	SourcesPath  string
	InPath       string
	OutPath      string
	Days         int
	Top          int
	NotifyURL    string
	WorkerCount  int
	FetchTimeout time.Duration

	// Serve configuration
	SnapshotPath string
	Port         string
	BaseURL      string

	// Shared
	ArchivePath string
	UserAgent   string
	Debug       bool
	Version     string
}

// Incremental reports whether a prior snapshot seeds the run.
func (c *Cfg) Incremental() bool {
	return c.InPath != ""
}
