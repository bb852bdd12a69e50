// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"solarfield_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a public enquiry becomes a lead.
type LeadCreated struct {
	BaseEvent
	LeadID       int64  `json:"leadId"`
	CustomerName string `json:"customerName"`
	Mobile       string `json:"mobile"`
	SolarService string `json:"solarService"`
	Channel      string `json:"channel"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published after a lead status transition is persisted.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     int64  `json:"leadId"`
	EmployeeID int64  `json:"employeeId"`
	OldStatus  string `json:"oldStatus"`
	NewStatus  string `json:"newStatus"`
	Comment    string `json:"comment"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadAssigned is published when a supervisor binds a lead to a field
// employee.
type LeadAssigned struct {
	BaseEvent
	LeadID       int64  `json:"leadId"`
	EmployeeID   int64  `json:"employeeId"`
	AssignedByID int64  `json:"assignedById"`
	CustomerName string `json:"customerName"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// =============================================================================
// Job Domain Events
// =============================================================================

// JobCreated is published when staff create a job. LeadID is set when the job
// was created from a lead; the leads module converts that lead on receipt.
type JobCreated struct {
	BaseEvent
	JobID     int64  `json:"jobId"`
	JobCode   string `json:"jobCode"`
	CreatedBy int64  `json:"createdBy"`
	LeadID    *int64 `json:"leadId,omitempty"`
}

func (e JobCreated) EventName() string { return "jobs.created" }

// JobAssigned is published when a job is bound to a field employee.
type JobAssigned struct {
	BaseEvent
	JobID         int64  `json:"jobId"`
	JobCode       string `json:"jobCode"`
	EmployeeID    int64  `json:"employeeId"`
	AssignedByID  int64  `json:"assignedById"`
	ScheduledDate string `json:"scheduledDate"`
}

func (e JobAssigned) EventName() string { return "jobs.assigned" }

// JobStatusChanged is published after a job status transition is persisted.
type JobStatusChanged struct {
	BaseEvent
	JobID      int64  `json:"jobId"`
	EmployeeID int64  `json:"employeeId"`
	OldStatus  string `json:"oldStatus"`
	NewStatus  string `json:"newStatus"`
	Comment    string `json:"comment"`
}

func (e JobStatusChanged) EventName() string { return "jobs.status.changed" }

// JobCompleted is published when a job reaches Completed with settlement data.
type JobCompleted struct {
	BaseEvent
	JobID         int64   `json:"jobId"`
	JobCode       string  `json:"jobCode"`
	EmployeeID    int64   `json:"employeeId"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

func (e JobCompleted) EventName() string { return "jobs.completed" }
