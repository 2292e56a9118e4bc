package radar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected ChangeType
	}{
		{name: "deprecation", text: "Legacy API deprecated next quarter", expected: TypeDeprecation},
		{name: "sunset", text: "We will sunset the v1 endpoints", expected: TypeDeprecation},
		{name: "pricing", text: "New pricing tiers", expected: TypePricing},
		{name: "price", text: "Price drop for tokens", expected: TypePricing},
		{name: "dollar sign", text: "Now only $5 per seat", expected: TypePricing},
		{name: "ga", text: "Agent Engine GA", expected: TypeLaunch},
		{name: "general availability", text: "General Availability of Workflows", expected: TypeLaunch},
		{name: "launch", text: "We launched something", expected: TypeLaunch},
		{name: "introducing", text: "Introducing the builder", expected: TypeLaunch},
		{name: "default", text: "Faster cold starts", expected: TypeUpgrade},
		{name: "empty", text: "", expected: TypeUpgrade},
		{name: "deprecation beats pricing", text: "deprecated plan, new pricing", expected: TypeDeprecation},
		{name: "pricing beats launch", text: "Launch pricing announced", expected: TypePricing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.text))
		})
	}
}

func TestRulesOrder(t *testing.T) {
	order := make([]ChangeType, 0, len(Rules))
	for _, r := range Rules {
		order = append(order, r.Type)
	}
	assert.Equal(t, []ChangeType{TypeDeprecation, TypePricing, TypeLaunch}, order)
}
