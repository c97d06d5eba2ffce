// Package query implements the filter-to-rows pipeline the dashboard
// consumer drives: cascading filters, distinct option lists, summary
// statistics, grouped aggregates, temporal series, and CSV export.
package query

import (
	"sort"
	"strconv"

	"BioDash/internal/model"
)

// Filter restricts rows. Zero-valued fields are ignored; set fields are
// combined conjunctively with exact equality, mirroring the dashboard's
// cascading dropdowns.
type Filter struct {
	Year  int
	Month int
	Day   int
	State string
	City  string
	Agent string
	Band  string
}

// Match reports whether a row passes the filter.
func (f Filter) Match(r model.PurchaseRecord) bool {
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	if f.Month != 0 && r.Month != f.Month {
		return false
	}
	if f.Day != 0 && r.Day != f.Day {
		return false
	}
	if f.State != "" && r.State != f.State {
		return false
	}
	if f.City != "" && r.City != f.City {
		return false
	}
	if f.Agent != "" && r.Agent != f.Agent {
		return false
	}
	if f.Band != "" && r.BandLabel != f.Band {
		return false
	}
	return true
}

// Apply returns the rows passing the filter, in input order.
func Apply(rows []model.PurchaseRecord, f Filter) []model.PurchaseRecord {
	out := make([]model.PurchaseRecord, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Grouping dimensions understood by Options and Aggregate.
const (
	ByAgent = "agent"
	ByState = "state"
	ByCity  = "city"
	ByBand  = "band"
	ByYear  = "year"
	ByMonth = "month"
	ByDay   = "day"
)

// fieldValue extracts the named dimension from a row. Numeric dimensions
// are rendered as strings so option lists stay uniform.
func fieldValue(r model.PurchaseRecord, field string) (string, bool) {
	switch field {
	case ByAgent:
		return r.Agent, true
	case ByState:
		return r.State, true
	case ByCity:
		return r.City, true
	case ByBand:
		return r.BandLabel, true
	case ByYear:
		return strconv.Itoa(r.Year), true
	case ByMonth:
		return strconv.Itoa(r.Month), true
	case ByDay:
		return strconv.Itoa(r.Day), true
	default:
		return "", false
	}
}

// ValidField reports whether field names a known grouping dimension.
func ValidField(field string) bool {
	_, ok := fieldValue(model.PurchaseRecord{}, field)
	return ok
}

// Options returns the sorted distinct values of a dimension across the
// given rows. Callers pass already-filtered rows so each dropdown only
// offers options that will return results.
func Options(rows []model.PurchaseRecord, field string) []string {
	seen := make(map[string]bool)
	var opts []string
	for _, r := range rows {
		v, ok := fieldValue(r, field)
		if !ok {
			return nil
		}
		if !seen[v] {
			seen[v] = true
			opts = append(opts, v)
		}
	}
	if field == ByYear || field == ByMonth || field == ByDay {
		sort.Slice(opts, func(i, j int) bool {
			a, _ := strconv.Atoi(opts[i])
			b, _ := strconv.Atoi(opts[j])
			return a < b
		})
	} else {
		sort.Strings(opts)
	}
	return opts
}
