package banding

import (
	"strings"

	"BioDash/internal/model"
)

// overrideStrategy replaces the general algorithm for a matched agent.
type overrideStrategy func(prices []float64) []model.Band

// overrides are product-knowledge exceptions consulted before the general
// algorithm. Matching is a case-insensitive substring test against the
// agent identifier. New domain exceptions belong here, not in Build.
var overrides = []struct {
	match    string
	strategy overrideStrategy
}{
	// Methylobacterium products are one product line regardless of the
	// observed price spread, so they always get a single full-range band.
	{match: "methylobacterium", strategy: fullRangeBand},
}

func overrideFor(agent string) (overrideStrategy, bool) {
	lower := strings.ToLower(agent)
	for _, o := range overrides {
		if strings.Contains(lower, o.match) {
			return o.strategy, true
		}
	}
	return nil, false
}

// fullRangeBand spans the whole observed range with one band.
func fullRangeBand(prices []float64) []model.Band {
	return []model.Band{spanBand(SingleBandName, prices)}
}
