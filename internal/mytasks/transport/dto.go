package transport

import (
	"solarfield_backend/internal/workflow"
)

// OverviewResponse is the per-employee task dashboard: lead and job counts
// bucketed by lifecycle stage.
type OverviewResponse struct {
	Leads workflow.SummaryCounts `json:"leads"`
	Jobs  workflow.SummaryCounts `json:"jobs"`
}
