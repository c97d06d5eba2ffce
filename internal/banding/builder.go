// Package banding partitions the observed prices of one agent into
// contiguous price bands separated by large relative gaps.
//
// Two paths exist depending on sample size: up to 10 values are grouped by
// pairwise similarity (20% relative tolerance), larger samples are split at
// relative gaps above 100%. The paths can band two otherwise-identical
// distributions differently at the n=10/n=11 boundary; this threshold effect
// is inherited behavior and is kept as-is.
package banding

import (
	"errors"
	"fmt"
	"sort"

	"BioDash/internal/model"
)

// ErrEmptySample is returned when Build is called with no prices. Callers
// must only build bands for agents with at least one observation.
var ErrEmptySample = errors.New("banding: empty price sample")

const (
	// similarityTolerance is the relative distance from an anchor value
	// within which prices join the anchor's band (small-sample path).
	similarityTolerance = 0.2

	// gapThreshold is the relative gap between consecutive sorted prices
	// above which a new band starts (large-sample path).
	gapThreshold = 1.0

	// smallSampleMax is the largest sample size handled by the
	// similarity path.
	smallSampleMax = 10
)

// SingleBandName is the name given when an agent's prices form exactly one
// band by rule (single observation or an override).
const SingleBandName = "Single Band"

// Build produces the ordered band sequence for one agent's prices.
//
// Every price appears in exactly one band. Min and Max of each band are
// observed values. Bands are indexed in creation order starting at 1.
func Build(agent string, prices []float64) ([]model.Band, error) {
	if len(prices) == 0 {
		return nil, ErrEmptySample
	}

	if strategy, ok := overrideFor(agent); ok {
		return finalize(strategy(prices)), nil
	}

	// Zero and negative prices break the relative-gap math; they get a
	// band of their own before the general algorithm runs.
	degenerate, positive := splitDegenerate(prices)

	var bands []model.Band
	if len(degenerate) > 0 {
		bands = append(bands, spanBand("", degenerate))
	}

	switch n := len(positive); {
	case n == 0:
		// All values were degenerate; the band above covers them.
	case n == 1:
		name := SingleBandName
		if len(bands) > 0 {
			name = "" // mixed with a degenerate band; use index names
		}
		bands = append(bands, spanBand(name, positive))
	case n <= smallSampleMax:
		bands = append(bands, similarityBands(positive)...)
	default:
		bands = append(bands, gapBands(positive)...)
	}

	return finalize(bands), nil
}

// similarityBands groups values within 20% of each unclaimed anchor,
// iterating anchors in sorted order. A claimed value never joins a later
// band, so bands are disjoint by construction.
func similarityBands(prices []float64) []model.Band {
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	claimed := make(map[float64]bool, len(sorted))
	var bands []model.Band

	for _, anchor := range sorted {
		if claimed[anchor] {
			continue
		}
		var members []float64
		for _, p := range prices {
			if claimed[p] {
				continue
			}
			// Asymmetric tolerance: the anchor is the divisor.
			if abs(p-anchor)/anchor <= similarityTolerance {
				members = append(members, p)
			}
		}
		for _, p := range members {
			claimed[p] = true
		}
		bands = append(bands, spanBand("", members))
	}
	return bands
}

// gapBands walks sorted values and closes the open band whenever the next
// value is more than double the previous one.
func gapBands(prices []float64) []model.Band {
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	var bands []model.Band
	current := []float64{sorted[0]}

	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		gap := 0.0
		if prev > 0 {
			gap = (curr - prev) / prev
		}
		if gap > gapThreshold {
			bands = append(bands, spanBand("", current))
			current = []float64{curr}
		} else {
			current = append(current, curr)
		}
	}
	bands = append(bands, spanBand("", current))
	return bands
}

// splitDegenerate separates non-positive prices from the rest.
func splitDegenerate(prices []float64) (degenerate, positive []float64) {
	for _, p := range prices {
		if p <= 0 {
			degenerate = append(degenerate, p)
		} else {
			positive = append(positive, p)
		}
	}
	return degenerate, positive
}

// spanBand builds a band covering the given members. Name may be empty;
// finalize fills in index-derived names.
func spanBand(name string, members []float64) model.Band {
	lo, hi := members[0], members[0]
	for _, p := range members[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return model.Band{
		Name:        name,
		Min:         lo,
		Max:         hi,
		Members:     members,
		MemberCount: len(members),
	}
}

// finalize assigns indexes in creation order and derives labels and
// display names from min/max.
func finalize(bands []model.Band) []model.Band {
	for i := range bands {
		b := &bands[i]
		b.Index = i + 1
		if b.Name == "" {
			b.Name = fmt.Sprintf("Band %d", b.Index)
		}
		if b.Min == b.Max {
			b.Label = fmt.Sprintf("R$ %.2f", b.Min)
		} else {
			b.Label = fmt.Sprintf("R$ %.2f - R$ %.2f", b.Min, b.Max)
		}
		b.DisplayName = fmt.Sprintf("%s (%s)", b.Name, b.Label)
	}
	return bands
}

// BuildTable runs Build for every sample and assembles the agent → bands
// mapping. Samples with no prices are a caller bug and surface as an error.
func BuildTable(samples []model.PriceSample) (model.BandTable, error) {
	table := make(model.BandTable, len(samples))
	for _, s := range samples {
		bands, err := Build(s.Agent, s.Prices)
		if err != nil {
			return nil, fmt.Errorf("build bands for %q: %w", s.Agent, err)
		}
		table[s.Agent] = bands
	}
	return table, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
