package radar

import (
	"regexp"
	"strings"
)

const TitleSlugLength = 50

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, collapses every run of characters outside [a-z0-9]
// into one "-", trims leading and trailing "-" and caps the result at limit
// bytes. A limit <= 0 leaves the slug uncapped.
func Slugify(s string, limit int) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(Lower(s), "-"), "-")
	if limit > 0 && len(slug) > limit {
		slug = slug[:limit]
	}
	return slug
}

// ItemID builds the dedup key for an announcement. The vendor slug is
// uncapped, the title slug is capped at TitleSlugLength.
func ItemID(date, vendor, title string) string {
	return date + "-" + Slugify(vendor, 0) + "-" + Slugify(title, TitleSlugLength)
}

// SeenSet tracks ids already produced in this run or loaded from prior state.
// Concurrent Has calls are safe as long as nothing is added meanwhile.
type SeenSet struct {
	ids map[string]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[string]struct{})}
}

// Seed marks the ids of prior items as seen. Items without an id are ignored.
func (s *SeenSet) Seed(items []Item) {
	for _, it := range items {
		if it.ID != "" {
			s.ids[it.ID] = struct{}{}
		}
	}
}

func (s *SeenSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add marks id as seen and reports whether it was new.
func (s *SeenSet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *SeenSet) Len() int {
	return len(s.ids)
}
