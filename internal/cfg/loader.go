package cfg

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type buildCmd struct {
	Sources string `long:"sources" env:"RADAR_SOURCES" description:"Vendor sources YAML file" required:"true"`
	In      string `long:"in" env:"RADAR_IN" description:"Prior snapshot to accumulate into (enables incremental mode)"`
	Out     string `long:"out" env:"RADAR_OUT" default:"data/agent-radar.json" description:"Output snapshot path"`
	Days    int    `long:"days" env:"RADAR_DAYS" default:"30" description:"Time window in days"`
	Top     int    `long:"top" env:"RADAR_TOP" default:"60" description:"Maximum number of items kept"`
	Notify  string `long:"notify" env:"RADAR_NOTIFY" description:"Webhook URL for the digest (optional)"`
	Workers int    `long:"workers" env:"RADAR_WORKERS" default:"1" description:"Number of concurrent feed fetches"`
	Timeout int    `long:"timeout" env:"RADAR_TIMEOUT" default:"20" description:"Feed fetch timeout in seconds"`
	Archive string `long:"archive" env:"RADAR_ARCHIVE" description:"SQLite archive of every written item (optional)"`
}

type serveCmd struct {
	Snapshot string `long:"snapshot" env:"RADAR_SNAPSHOT" default:"data/agent-radar.json" description:"Snapshot file to serve"`
	Port     string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseURL  string `long:"base-url" env:"BASE_URL" description:"Public base URL used in the RSS self link (e.g., https://radar.example.com)"`
	Archive  string `long:"archive" env:"RADAR_ARCHIVE" description:"SQLite archive for /stats (optional)"`
}

type rawCfg struct {
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Agent Radar/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Build buildCmd `command:"build" description:"Fetch vendor feeds and write the ranked snapshot"`
	Serve serveCmd `command:"serve" description:"Serve a snapshot over a read-only JSON API"`
}

// Load parses the process arguments. A nil config with a nil error means
// help was printed.
func Load() (*Cfg, error) {
	return Parse(os.Args[1:], os.Stdout)
}

func Parse(args []string, helpOut io.Writer) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.HelpFlag|flags.PassDoubleDash)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(helpOut, flagsErr.Message)
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		UserAgent: raw.UserAgent,
		Debug:     raw.Debug,
		Version:   GetVersion(),
	}

	if parser.Active == nil {
		return nil, fmt.Errorf("no command given")
	}

	switch Command(parser.Active.Name) {
	case CommandBuild:
		cfg.Command = CommandBuild
		cfg.SourcesPath = raw.Build.Sources
		cfg.InPath = raw.Build.In
		cfg.OutPath = raw.Build.Out
		cfg.Days = raw.Build.Days
		cfg.Top = raw.Build.Top
		cfg.NotifyURL = raw.Build.Notify
		cfg.WorkerCount = raw.Build.Workers
		cfg.FetchTimeout = time.Duration(raw.Build.Timeout) * time.Second
		cfg.ArchivePath = raw.Build.Archive
	case CommandServe:
		cfg.Command = CommandServe
		cfg.SnapshotPath = raw.Serve.Snapshot
		cfg.Port = raw.Serve.Port
		cfg.BaseURL = raw.Serve.BaseURL
		cfg.ArchivePath = raw.Serve.Archive
	default:
		return nil, fmt.Errorf("unknown command %q", parser.Active.Name)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.Command != CommandBuild {
		return nil
	}

	nonNegativeFields := map[string]int{
		"days": c.Days,
		"top":  c.Top,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if c.WorkerCount < 1 {
		c.WorkerCount = 1
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 20 * time.Second
	}

	return nil
}
