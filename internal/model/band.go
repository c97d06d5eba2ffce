package model

// Band is one contiguous price range for a single agent. Min and Max are
// always actual observed prices, never interpolated.
type Band struct {
	Index       int       `json:"index"`
	Name        string    `json:"name"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	Members     []float64 `json:"-"`
	MemberCount int       `json:"member_count"`
	Label       string    `json:"label"`
	DisplayName string    `json:"display_name"`
}

// Contains reports whether p falls inside the band, inclusive on both ends.
func (b Band) Contains(p float64) bool {
	return p >= b.Min && p <= b.Max
}

// BandTable maps an agent identifier to its ordered band sequence.
// Built once per loaded dataset and never mutated afterward.
type BandTable map[string][]Band
