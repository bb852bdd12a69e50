package repository

import (
	"context"
	"time"

	"solarfield_backend/internal/workflow"
)

// Job is the persisted job record with its embedded customer and site.
type Job struct {
	ID                  int64
	JobCode             string
	CustomerFirstName   string
	CustomerLastName    string
	CustomerMobile      string
	CustomerEmail       string
	AddressLine         string
	City                string
	District            string
	State               string
	Pincode             string
	ServiceType         string
	SolarService        string
	PackageID           *int64
	Priority            string
	ScheduledDate       time.Time
	Description         string
	SpecialInstructions string
	EstimatedCost       float64
	Status              workflow.Status
	AssignedTo          *int64
	LeadID              *int64
	CreatedBy           int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PackageRow is the package joined onto a supervisory listing row.
type PackageRow struct {
	ID         int64
	Name       string
	CapacityKW float64
	Price      float64
}

// JobDetail is one supervisory listing row: the job plus its joined package.
type JobDetail struct {
	Job     Job
	Package *PackageRow
}

// CreateJobParams are the fields required to insert a job. Status is always
// Created; the job code is derived from the generated id.
type CreateJobParams struct {
	CustomerFirstName   string
	CustomerLastName    string
	CustomerMobile      string
	CustomerEmail       string
	AddressLine         string
	City                string
	District            string
	State               string
	Pincode             string
	ServiceType         string
	SolarService        string
	PackageID           *int64
	Priority            string
	ScheduledDate       time.Time
	Description         string
	SpecialInstructions string
	EstimatedCost       float64
	LeadID              *int64
	CreatedBy           int64
}

// ListJobsParams filter and page a job listing. A nil AssignedTo lists jobs
// for every employee (supervisory view). The date range filters on the
// scheduled date.
type ListJobsParams struct {
	AssignedTo  *int64
	Search      string
	Status      string
	ServiceType string
	Priority    string
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}

// PaymentRecord is the settlement persisted alongside a Completed transition.
type PaymentRecord struct {
	PaymentMethod  string
	TransactionID  string
	Amount         float64
	DiscountAmount float64
	PaymentStatus  string
}

// UpdateStatusParams record a validated job status transition. Payment is
// non-nil only when the target status is Completed.
type UpdateStatusParams struct {
	JobID        int64
	OldStatus    workflow.Status
	NewStatus    workflow.Status
	Comment      string
	StatusReason string
	ChangedBy    int64
	Payment      *PaymentRecord
}

// AssignParams bind a job to a field employee.
type AssignParams struct {
	JobID      int64
	EmployeeID int64
	AssignedBy int64
}

// Repository is the persistence boundary of the jobs module.
type Repository interface {
	Insert(ctx context.Context, params CreateJobParams) (Job, error)
	GetByID(ctx context.Context, id int64) (Job, error)
	List(ctx context.Context, params ListJobsParams) ([]Job, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]JobDetail, int, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) error
	CreateAssignment(ctx context.Context, params AssignParams) error
	Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error)
}
