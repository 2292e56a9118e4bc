package sources

import "github.com/lysyi3m/agent-radar/internal/radar"

const (
	DefaultAudience = "dev"
	DefaultImpact   = 3
	DefaultRisk     = 3
)

// Vendor is one announcement source with its precomputed keyword set. It is
// read-only once loaded.
type Vendor struct {
	Name     string
	Audience string
	Impact   int
	Risk     int
	Feeds    []string
	Keywords radar.KeywordSet
}

type file struct {
	Vendors []vendorConfig `yaml:"vendors"`
}

type vendorConfig struct {
	Name     string   `yaml:"name"`
	Audience string   `yaml:"audience"`
	Impact   *int     `yaml:"impact"`
	Risk     *int     `yaml:"risk"`
	Keywords []string `yaml:"keywords"`
	Feeds    []string `yaml:"feeds"`
}
