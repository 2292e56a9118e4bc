package sources

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

// Load reads the vendor list from a YAML file. Any read, parse or
// validation failure is returned as an error.
func Load(path string) ([]Vendor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	vendors, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}

	for _, v := range vendors {
		slog.Debug("Vendor loaded", "vendor", v.Name, "feeds", len(v.Feeds), "keywords", v.Keywords.Len())
	}

	return vendors, nil
}

func Parse(data []byte) ([]Vendor, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	vendors := make([]Vendor, 0, len(f.Vendors))
	for i, vc := range f.Vendors {
		if err := validate(vc); err != nil {
			return nil, fmt.Errorf("vendor at index %d: %w", i, err)
		}
		vendors = append(vendors, newVendor(vc))
	}

	return vendors, nil
}

func newVendor(vc vendorConfig) Vendor {
	return Vendor{
		Name:     strings.TrimSpace(vc.Name),
		Audience: cmp.Or(strings.TrimSpace(vc.Audience), DefaultAudience),
		Impact:   valueOr(vc.Impact, DefaultImpact),
		Risk:     valueOr(vc.Risk, DefaultRisk),
		Feeds:    trimAll(vc.Feeds),
		Keywords: radar.NewKeywordSet(radar.GlobalKeywords, vc.Keywords),
	}
}

func validate(vc vendorConfig) error {
	if strings.TrimSpace(vc.Name) == "" {
		return fmt.Errorf("vendor name is required")
	}

	nonNegativeFields := map[string]*int{
		"impact": vc.Impact,
		"risk":   vc.Risk,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue != nil && *fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, feedURL := range vc.Feeds {
		if strings.TrimSpace(feedURL) == "" {
			return fmt.Errorf("feed at index %d is empty", i)
		}
	}

	return nil
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
