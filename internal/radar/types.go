// Package radar holds the announcement item model and the pure rules applied
// to every feed entry: keyword matching, change-type classification, stable
// identity and recency windows.
package radar

type ChangeType string

const (
	TypeLaunch      ChangeType = "launch"
	TypeDeprecation ChangeType = "deprecation"
	TypePricing     ChangeType = "pricing"
	TypeUpgrade     ChangeType = "upgrade"
)

const (
	DateLayout = "2006-01-02"

	MaxNameLength    = 160
	MaxSummaryLength = 220
)

type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Item is one deduplicated announcement. Field order is the serialized key order.
type Item struct {
	ID       string     `json:"id"`
	Date     string     `json:"date"`
	Name     string     `json:"name"`
	Vendor   string     `json:"vendor"`
	Type     ChangeType `json:"type"`
	Summary  string     `json:"summary"`
	Sources  []Source   `json:"sources"`
	Impact   int        `json:"impact"`
	Risk     int        `json:"risk"`
	Audience string     `json:"audience"`
	Tags     []string   `json:"tags"`
}

// PrimaryURL returns the url of the first source, or "".
func (it Item) PrimaryURL() string {
	if len(it.Sources) == 0 {
		return ""
	}
	return it.Sources[0].URL
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
