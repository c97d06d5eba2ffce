package model

import "time"

// Summary holds the headline statistics for a (possibly filtered) row set.
type Summary struct {
	Records   int       `json:"records"`
	Agents    int       `json:"agents"`
	States    int       `json:"states"`
	Cities    int       `json:"cities"`
	MeanPrice float64   `json:"mean_price"`
	Total     float64   `json:"total"`
	DateMin   time.Time `json:"date_min,omitzero"`
	DateMax   time.Time `json:"date_max,omitzero"`
}

// GroupAggregate is one group's slice of an aggregation by a dimension.
type GroupAggregate struct {
	Key       string  `json:"key"`
	MeanPrice float64 `json:"mean_price"`
	Total     float64 `json:"total"`
	Count     int     `json:"count"`
}

// TimePoint is one (period, agent) cell of a temporal series.
type TimePoint struct {
	Period time.Time `json:"period"`
	Agent  string    `json:"agent"`
	Value  float64   `json:"value"`
}
