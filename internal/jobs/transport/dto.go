package transport

import (
	"solarfield_backend/internal/shared/pagination"
)

// CustomerPayload is the customer block embedded in a job creation request.
type CustomerPayload struct {
	FirstName string `json:"first_name" validate:"required,person_name"`
	LastName  string `json:"last_name" validate:"required,person_name"`
	Mobile    string `json:"mobile" validate:"required,mobile_10"`
	Email     string `json:"email" validate:"omitempty,email_tld"`
}

// LocationPayload is the install-site block embedded in a job creation request.
type LocationPayload struct {
	AddressLine string `json:"address_line" validate:"required,min=10,max=255"`
	City        string `json:"city" validate:"required,min=2,max=100"`
	District    string `json:"district" validate:"omitempty,max=100"`
	State       string `json:"state" validate:"required,min=2,max=100"`
	Pincode     string `json:"pincode" validate:"required,pincode_6"`
}

// CreateJobRequest creates a job directly or from a converted lead.
type CreateJobRequest struct {
	Customer            CustomerPayload `json:"customer" validate:"required"`
	Location            LocationPayload `json:"location" validate:"required"`
	ServiceType         string          `json:"service_type" validate:"required,min=2,max=100"`
	SolarService        string          `json:"solar_service" validate:"required,min=2,max=100"`
	PackageID           *int64          `json:"package_id" validate:"omitempty,gt=0"`
	Priority            string          `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	ScheduledDate       string          `json:"scheduled_date" validate:"required,future_date"`
	Description         string          `json:"description" validate:"omitempty,max=1000"`
	SpecialInstructions string          `json:"special_instructions" validate:"omitempty,min=5,max=1000"`
	EstimatedCost       float64         `json:"estimated_cost" validate:"omitempty,gte=0"`
	LeadID              *int64          `json:"lead_id" validate:"omitempty,gt=0"`
}

// PaymentDetails is the settlement block required when a job moves to
// Completed. Amount and discount are optional; defaults come from the job.
type PaymentDetails struct {
	PaymentMethod  string  `json:"payment_method"`
	TransactionID  string  `json:"transaction_id"`
	Amount         float64 `json:"amount"`
	DiscountAmount float64 `json:"discount_amount"`
}

// UpdateJobStatusRequest moves a job through the shared action surface.
type UpdateJobStatusRequest struct {
	NewStatus      string          `json:"new_status" validate:"required"`
	Comments       string          `json:"comments"`
	StatusReason   string          `json:"status_reason"`
	PaymentDetails *PaymentDetails `json:"payment_details"`
}

// AssignJobRequest binds a job to a field employee.
type AssignJobRequest struct {
	JobID      int64 `json:"job_id" validate:"required,gt=0"`
	EmployeeID int64 `json:"employee_id" validate:"required,gt=0"`
}

// ListJobsRequest filters a job listing.
type ListJobsRequest struct {
	Search      string `form:"search" validate:"max=100"`
	Status      string `form:"status" validate:"omitempty,max=20"`
	ServiceType string `form:"service_type" validate:"omitempty,max=100"`
	Priority    string `form:"priority" validate:"omitempty,oneof=Low Medium High"`
	DateFrom    string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo      string `form:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" validate:"omitempty,min=1"`
	Limit       int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// JobResponse is the wire shape of one job.
type JobResponse struct {
	ID                  int64   `json:"id"`
	JobCode             string  `json:"job_code"`
	CustomerName        string  `json:"customer_name"`
	CustomerMobile      string  `json:"customer_mobile"`
	ServiceType         string  `json:"service_type"`
	SolarService        string  `json:"solar_service"`
	Priority            string  `json:"priority"`
	ScheduledDate       string  `json:"scheduled_date"`
	Description         string  `json:"description,omitempty"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	EstimatedCost       float64 `json:"estimated_cost"`
	Status              string  `json:"status"`
	AssignedTo          *int64  `json:"assigned_to,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

// JobInfo is the job block of a supervisory listing row.
type JobInfo struct {
	ID            int64   `json:"id"`
	JobCode       string  `json:"job_code"`
	ServiceType   string  `json:"service_type"`
	SolarService  string  `json:"solar_service"`
	Priority      string  `json:"priority"`
	ScheduledDate string  `json:"scheduled_date"`
	EstimatedCost float64 `json:"estimated_cost"`
	Status        string  `json:"status"`
	AssignedTo    *int64  `json:"assigned_to,omitempty"`
}

// CustomerInfo is the customer block of a supervisory listing row.
type CustomerInfo struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email,omitempty"`
}

// LocationInfo is the site block of a supervisory listing row.
type LocationInfo struct {
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	District    string `json:"district,omitempty"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// PackageInfo is the package block of a supervisory listing row. Nil when the
// job has no package attached.
type PackageInfo struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	CapacityKW float64 `json:"capacity_kw"`
	Price      float64 `json:"price"`
}

// JobDetailResponse is one supervisory listing row.
type JobDetailResponse struct {
	JobInfo      JobInfo      `json:"job_info"`
	CustomerInfo CustomerInfo `json:"customer_info"`
	LocationInfo LocationInfo `json:"location_info"`
	PackageInfo  *PackageInfo `json:"package_info,omitempty"`
}

// JobListResponse is one page of jobs with pagination metadata.
type JobListResponse struct {
	Jobs       []JobResponse   `json:"jobs"`
	Pagination pagination.Meta `json:"pagination"`
}

// JobDetailListResponse is one page of supervisory job rows.
type JobDetailListResponse struct {
	Jobs       []JobDetailResponse `json:"jobs"`
	Pagination pagination.Meta     `json:"pagination"`
}

// AssignmentResponse confirms a job assignment.
type AssignmentResponse struct {
	JobID      int64  `json:"job_id"`
	JobCode    string `json:"job_code"`
	EmployeeID int64  `json:"employee_id"`
	Status     string `json:"status"`
}
