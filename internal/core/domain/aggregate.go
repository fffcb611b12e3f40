package domain

// HistogramEntry is one (choice, count) pair of a subject's histogram.
type HistogramEntry struct {
	Choice Choice `json:"choice"`
	Count  int64  `json:"count"`
}

// Aggregate is the read-side view of a subject. Reaction ledgers fill
// Histogram; rating ledgers fill Average, leaving it nil when the subject has
// no ratings.
type Aggregate struct {
	Histogram []HistogramEntry `json:"histogram,omitempty"`
	Average   *float64         `json:"average,omitempty"`
}
