package workflow

// SummaryCounts are the per-employee task buckets derived from status.
// Derived, never stored; recomputed on demand.
type SummaryCounts struct {
	Assigned int `json:"assigned"`
	Ongoing  int `json:"ongoing"`
	Closed   int `json:"closed"`
	Total    int `json:"total"`
}
