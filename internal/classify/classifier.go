// Package classify maps purchase rows to the price band they fall in.
package classify

import "BioDash/internal/model"

// NoBand is the sentinel label for rows no band interval covers. Band
// construction guarantees coverage for positive prices, so this mainly
// guards unknown agents and floating-point edge effects at band boundaries.
const NoBand = "No Band"

// Label returns the name of the first band (in stored order) whose
// [min, max] interval contains price, or NoBand when none matches.
func Label(agent string, price float64, table model.BandTable) string {
	for _, b := range table[agent] {
		if b.Contains(price) {
			return b.Name
		}
	}
	return NoBand
}

// Apply returns a copy of rows with BandLabel stamped on every row. Every
// row gets some label, so downstream aggregation stays total-preserving.
func Apply(rows []model.PurchaseRecord, table model.BandTable) []model.PurchaseRecord {
	out := make([]model.PurchaseRecord, len(rows))
	for i, r := range rows {
		r.BandLabel = Label(r.Agent, r.Price, table)
		out[i] = r
	}
	return out
}
