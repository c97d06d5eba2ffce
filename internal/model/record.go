package model

import "time"

// PurchaseRecord is a single cleaned row from the source file.
type PurchaseRecord struct {
	Date      time.Time `json:"date"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Day       int       `json:"day"`
	State     string    `json:"state"`
	City      string    `json:"city"`
	Agent     string    `json:"agent"`
	Price     float64   `json:"price"`
	BandLabel string    `json:"band_label"`
}

// SourceData is the output of an ingestion pass: cleaned rows plus a
// fingerprint of the raw source bytes used for cache invalidation.
type SourceData struct {
	Rows        []PurchaseRecord
	Fingerprint string
	DroppedRows int
	LoadedAt    time.Time
}

// PriceSample groups all observed prices for one agent.
type PriceSample struct {
	Agent  string
	Prices []float64
}

// GroupByAgent collects prices per agent, preserving the order in which
// agents first appear in the rows.
func GroupByAgent(rows []PurchaseRecord) []PriceSample {
	index := make(map[string]int)
	var samples []PriceSample
	for _, r := range rows {
		i, ok := index[r.Agent]
		if !ok {
			i = len(samples)
			index[r.Agent] = i
			samples = append(samples, PriceSample{Agent: r.Agent})
		}
		samples[i].Prices = append(samples[i].Prices, r.Price)
	}
	return samples
}
