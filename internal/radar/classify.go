package radar

import "strings"

type Rule struct {
	Type    ChangeType
	Needles []string
}

// Rules are evaluated in order; the first rule with a matching needle wins.
// End-of-life news outranks pricing, which outranks launch framing.
var Rules = []Rule{
	{Type: TypeDeprecation, Needles: []string{"deprecat", "sunset"}},
	{Type: TypePricing, Needles: []string{"pricing", "price", "$"}},
	{Type: TypeLaunch, Needles: []string{"ga", "general availability", "launch", "introduc"}},
}

func Classify(text string) ChangeType {
	lowered := Lower(text)
	for _, rule := range Rules {
		for _, needle := range rule.Needles {
			if strings.Contains(lowered, needle) {
				return rule.Type
			}
		}
	}
	return TypeUpgrade
}
