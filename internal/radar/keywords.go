package radar

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GlobalKeywords is the baseline taxonomy merged into every vendor's keywords.
var GlobalKeywords = []string{
	"agent", "agents", "agent engine", "agent builder", "agentspace", "a2a", "mcp",
	"governance", "rbac", "observability", "pricing", "ga", "general availability",
	"deprecate", "deprecation", "sunset", "identity", "memory",
}

// Lower lower-cases s with Unicode case mapping. A Caser keeps state, so one
// is built per call to stay safe across fetch workers.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// KeywordSet is an immutable, lower-cased, deduplicated keyword list.
type KeywordSet struct {
	keywords []string
}

// NewKeywordSet merges the given lists. Empty keywords are dropped since they
// would match every text.
func NewKeywordSet(lists ...[]string) KeywordSet {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, kw := range list {
			kw = Lower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			merged = append(merged, kw)
		}
	}
	slices.Sort(merged)
	return KeywordSet{keywords: merged}
}

// Keywords returns a copy of the set's keywords in sorted order.
func (s KeywordSet) Keywords() []string {
	return slices.Clone(s.keywords)
}

func (s KeywordSet) Len() int {
	return len(s.keywords)
}

// Match reports whether any keyword is a substring of the lower-cased text.
func (s KeywordSet) Match(text string) bool {
	lowered := Lower(text)
	for _, kw := range s.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// MatchText joins the fields the keyword filter and classifier look at.
func MatchText(title, description, link string) string {
	return title + " " + description + " " + link
}
