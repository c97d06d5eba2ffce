package query

import (
	"gonum.org/v1/gonum/stat"

	"BioDash/internal/model"
)

// Summarize computes the headline statistics shown above the charts.
// An empty row set yields a zero summary.
func Summarize(rows []model.PurchaseRecord) model.Summary {
	var s model.Summary
	if len(rows) == 0 {
		return s
	}

	agents := make(map[string]bool)
	states := make(map[string]bool)
	cities := make(map[string]bool)
	prices := make([]float64, len(rows))

	s.DateMin = rows[0].Date
	s.DateMax = rows[0].Date
	for i, r := range rows {
		agents[r.Agent] = true
		states[r.State] = true
		cities[r.City] = true
		prices[i] = r.Price
		s.Total += r.Price
		if r.Date.Before(s.DateMin) {
			s.DateMin = r.Date
		}
		if r.Date.After(s.DateMax) {
			s.DateMax = r.Date
		}
	}

	s.Records = len(rows)
	s.Agents = len(agents)
	s.States = len(states)
	s.Cities = len(cities)
	s.MeanPrice = stat.Mean(prices, nil)
	return s
}
