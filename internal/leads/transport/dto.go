package transport

import (
	"solarfield_backend/internal/shared/pagination"
)

// CreateEnquiryRequest is the public marketing-site enquiry form. Field rules
// are the shared workflow tags registered on the validator.
type CreateEnquiryRequest struct {
	FirstName    string  `json:"first_name" validate:"required,person_name"`
	LastName     string  `json:"last_name" validate:"required,person_name"`
	Mobile       string  `json:"mobile" validate:"required,mobile_10"`
	Email        string  `json:"email" validate:"omitempty,email_tld"`
	SolarService string  `json:"solar_service" validate:"required,min=2,max=100"`
	CapacityKW   float64 `json:"capacity_kw" validate:"omitempty,gt=0"`
	Location     string  `json:"location" validate:"omitempty,min=5,max=255"`
	PropertyType string  `json:"property_type" validate:"omitempty,oneof=Residential Commercial Industrial"`
	Channel      string  `json:"channel" validate:"omitempty,max=50"`
	Message      string  `json:"message" validate:"omitempty,min=5,max=1000"`
}

// UpdateLeadStatusRequest moves a lead through the shared action surface.
// Target and comment are validated by the workflow rules, not tags, so the
// field-error map matches job transitions.
type UpdateLeadStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Comments string `json:"comments"`
}

// AssignLeadRequest binds a lead to a field employee.
type AssignLeadRequest struct {
	LeadID     int64 `json:"lead_id" validate:"required,gt=0"`
	EmployeeID int64 `json:"employee_id" validate:"required,gt=0"`
}

// ListLeadsRequest filters a lead listing.
type ListLeadsRequest struct {
	Search       string `form:"search" validate:"max=100"`
	Status       string `form:"status" validate:"omitempty,max=20"`
	SolarService string `form:"solar_service" validate:"omitempty,max=100"`
	Channel      string `form:"channel" validate:"omitempty,max=50"`
	DateFrom     string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo       string `form:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	Limit        int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// LeadResponse is the wire shape of one lead.
type LeadResponse struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Mobile       string  `json:"mobile"`
	Email        string  `json:"email,omitempty"`
	SolarService string  `json:"solar_service"`
	CapacityKW   float64 `json:"capacity_kw,omitempty"`
	Location     string  `json:"location,omitempty"`
	PropertyType string  `json:"property_type,omitempty"`
	Channel      string  `json:"channel,omitempty"`
	Message      string  `json:"message,omitempty"`
	Status       string  `json:"status"`
	AssignedTo   *int64  `json:"assigned_to,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// LeadAssignmentResponse confirms a lead assignment.
type LeadAssignmentResponse struct {
	LeadID     int64  `json:"lead_id"`
	EmployeeID int64  `json:"employee_id"`
	Status     string `json:"status"`
}

// LeadListResponse is one page of leads with pagination metadata.
type LeadListResponse struct {
	Leads      []LeadResponse  `json:"leads"`
	Pagination pagination.Meta `json:"pagination"`
}
