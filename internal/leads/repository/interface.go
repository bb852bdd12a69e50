package repository

import (
	"context"
	"time"

	"solarfield_backend/internal/workflow"
)

// Lead is the persisted lead record.
type Lead struct {
	ID           int64
	FirstName    string
	LastName     string
	Mobile       string
	Email        string
	SolarService string
	CapacityKW   float64
	Location     string
	PropertyType string
	Channel      string
	Message      string
	Status       workflow.Status
	AssignedTo   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateLeadParams are the fields required to insert a lead.
type CreateLeadParams struct {
	FirstName    string
	LastName     string
	Mobile       string
	Email        string
	SolarService string
	CapacityKW   float64
	Location     string
	PropertyType string
	Channel      string
	Message      string
	Status       workflow.Status
}

// ListLeadsParams filter and page a lead listing. A nil AssignedTo lists
// leads for every employee (supervisory view).
type ListLeadsParams struct {
	AssignedTo   *int64
	Search       string
	Status       string
	SolarService string
	Channel      string
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// AssignParams bind a lead to a field employee.
type AssignParams struct {
	LeadID     int64
	EmployeeID int64
	AssignedBy int64
}

// UpdateStatusParams record a validated status transition.
type UpdateStatusParams struct {
	LeadID    int64
	OldStatus workflow.Status
	NewStatus workflow.Status
	Comment   string
	ChangedBy int64
}

// Repository is the persistence boundary of the leads module.
type Repository interface {
	Insert(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetByID(ctx context.Context, id int64) (Lead, error)
	List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error)
	Assign(ctx context.Context, params AssignParams) error
	UpdateStatus(ctx context.Context, params UpdateStatusParams) error
	Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error)
}
