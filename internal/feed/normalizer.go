package feed

import "time"

// Normalizer reduces raw entries to NormalizedEntry using field chains.
type Normalizer struct {
	titles       FieldChain
	links        FieldChain
	descriptions FieldChain
	timeKeys     []string
	fallbackKeys []string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		titles:       Keys("title", "heading"),
		links:        Keys("link", "url"),
		descriptions: Keys("summary", "content", "content_text"),
		timeKeys:     []string{"published", "updated", "date", "created"},
		fallbackKeys: []string{"date_published"},
	}
}

// Run normalizes e. It reports false when the entry has no resolvable link.
func (n *Normalizer) Run(e RawEntry) (NormalizedEntry, bool) {
	link := n.links.Resolve(e)
	if link == "" {
		return NormalizedEntry{}, false
	}

	return NormalizedEntry{
		Title:       n.titles.Resolve(e),
		Link:        link,
		Published:   n.published(e),
		Description: n.descriptions.Resolve(e),
	}, true
}

func (n *Normalizer) published(e RawEntry) *time.Time {
	for _, keys := range [][]string{n.timeKeys, n.fallbackKeys} {
		for _, key := range keys {
			if t, ok := ResolveTimestamp(timestampAt(e, key)); ok {
				return &t
			}
		}
	}
	return nil
}
