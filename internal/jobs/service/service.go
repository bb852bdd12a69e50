// Package service implements the job entity manager and the assignment
// coordinator.
package service

import (
	"context"
	"strings"
	"time"

	"solarfield_backend/internal/events"
	"solarfield_backend/internal/jobs/repository"
	"solarfield_backend/internal/jobs/transport"
	"solarfield_backend/internal/shared/pagination"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
	"solarfield_backend/platform/logger"
	"solarfield_backend/platform/phone"
	"solarfield_backend/platform/sanitize"
	appvalidator "solarfield_backend/platform/validator"
)

const defaultPriority = "Medium"

// Service is the job entity manager.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	val  *appvalidator.Validator
	log  *logger.Logger
}

// New creates the jobs service.
func New(repo repository.Repository, bus events.Bus, val *appvalidator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, val: val, log: log}
}

// Create validates and persists a new job in status Created. Field problems
// are collected into one map and rejected before anything touches storage.
func (s *Service) Create(ctx context.Context, principal httpkit.Identity, req transport.CreateJobRequest) (transport.JobResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.JobResponse{}, workflow.FieldErrors(err)
	}

	scheduled, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.ScheduledDate), time.Local)
	if err != nil {
		return transport.JobResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldErrors{"scheduled_date": "date must be YYYY-MM-DD"})
	}

	priority := req.Priority
	if priority == "" {
		priority = defaultPriority
	}

	job, err := s.repo.Insert(ctx, repository.CreateJobParams{
		CustomerFirstName:   strings.TrimSpace(req.Customer.FirstName),
		CustomerLastName:    strings.TrimSpace(req.Customer.LastName),
		CustomerMobile:      phone.NationalDigits(req.Customer.Mobile),
		CustomerEmail:       strings.TrimSpace(req.Customer.Email),
		AddressLine:         strings.TrimSpace(req.Location.AddressLine),
		City:                strings.TrimSpace(req.Location.City),
		District:            strings.TrimSpace(req.Location.District),
		State:               strings.TrimSpace(req.Location.State),
		Pincode:             strings.TrimSpace(req.Location.Pincode),
		ServiceType:         req.ServiceType,
		SolarService:        req.SolarService,
		PackageID:           req.PackageID,
		Priority:            priority,
		ScheduledDate:       scheduled,
		Description:         sanitize.Text(req.Description),
		SpecialInstructions: sanitize.Text(req.SpecialInstructions),
		EstimatedCost:       req.EstimatedCost,
		LeadID:              req.LeadID,
		CreatedBy:           principal.EmployeeID(),
	})
	if err != nil {
		return transport.JobResponse{}, err
	}

	s.bus.Publish(ctx, events.JobCreated{
		BaseEvent: events.NewBaseEvent(),
		JobID:     job.ID,
		JobCode:   job.JobCode,
		CreatedBy: principal.EmployeeID(),
		LeadID:    req.LeadID,
	})

	return toJobResponse(job), nil
}

// List serves a filtered, paginated job listing scoped to the principal
// unless they are a supervisor.
func (s *Service) List(ctx context.Context, principal httpkit.Identity, req transport.ListJobsRequest) (transport.JobListResponse, error) {
	params, page, perPage, err := s.listParams(req)
	if err != nil {
		return transport.JobListResponse{}, err
	}
	if !principal.IsSupervisor() {
		employeeID := principal.EmployeeID()
		params.AssignedTo = &employeeID
	}
	return s.list(ctx, params, page, perPage)
}

// ListForEmployee is the My Tasks delegation: the employee id is the scope.
func (s *Service) ListForEmployee(ctx context.Context, employeeID int64, req transport.ListJobsRequest) (transport.JobListResponse, error) {
	params, page, perPage, err := s.listParams(req)
	if err != nil {
		return transport.JobListResponse{}, err
	}
	params.AssignedTo = &employeeID
	return s.list(ctx, params, page, perPage)
}

func (s *Service) listParams(req transport.ListJobsRequest) (repository.ListJobsParams, int, int, error) {
	if err := s.val.Struct(req); err != nil {
		return repository.ListJobsParams{}, 0, 0, workflow.FieldErrors(err)
	}
	page, perPage, offset := pagination.Normalize(req.Page, req.Limit)
	params := repository.ListJobsParams{
		Search:      strings.TrimSpace(req.Search),
		Status:      req.Status,
		ServiceType: req.ServiceType,
		Priority:    req.Priority,
		Limit:       perPage,
		Offset:      offset,
	}
	if from, ok := parseDate(req.DateFrom); ok {
		params.DateFrom = &from
	}
	if to, ok := parseDate(req.DateTo); ok {
		params.DateTo = &to
	}
	return params, page, perPage, nil
}

func parseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation("2006-01-02", trimmed, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func (s *Service) list(ctx context.Context, params repository.ListJobsParams, page, perPage int) (transport.JobListResponse, error) {
	jobs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.JobListResponse{}, err
	}

	items := make([]transport.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, toJobResponse(job))
	}

	return transport.JobListResponse{
		Jobs:       items,
		Pagination: pagination.NewMeta(total, page, perPage),
	}, nil
}

// ListAll is the unscoped supervisory listing with joined customer, location
// and package blocks.
func (s *Service) ListAll(ctx context.Context, pageNum, limit int) (transport.JobDetailListResponse, error) {
	page, perPage, offset := pagination.Normalize(pageNum, limit)

	details, total, err := s.repo.ListAll(ctx, perPage, offset)
	if err != nil {
		return transport.JobDetailListResponse{}, err
	}

	items := make([]transport.JobDetailResponse, 0, len(details))
	for _, d := range details {
		items = append(items, toJobDetailResponse(d))
	}

	return transport.JobDetailListResponse{
		Jobs:       items,
		Pagination: pagination.NewMeta(total, page, perPage),
	}, nil
}

// UpdateStatus applies a validated status transition. Completed transitions
// must carry settlement details; the amount defaults to the job's estimated
// cost and the discount to zero when omitted.
func (s *Service) UpdateStatus(ctx context.Context, principal httpkit.Identity, jobID int64, req transport.UpdateJobStatusRequest) (transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return transport.JobResponse{}, err
	}

	if !principal.IsSupervisor() {
		if job.AssignedTo == nil || *job.AssignedTo != principal.EmployeeID() {
			return transport.JobResponse{}, apperr.Forbidden("job is not assigned to you")
		}
	}

	target := workflow.Status(req.NewStatus)
	comment := sanitize.Text(req.Comments)
	var completion *workflow.CompletionDetails
	var payment *repository.PaymentRecord
	if target == workflow.StatusCompleted {
		completion = buildCompletion(job, req)
		payment = &repository.PaymentRecord{
			PaymentMethod:  completion.PaymentMethod,
			TransactionID:  completion.TransactionID,
			Amount:         completion.Amount,
			DiscountAmount: completion.DiscountAmount,
			PaymentStatus:  "Completed",
		}
	}

	if err := workflow.ValidateTransition(workflow.TransitionRequest{
		Kind:       workflow.KindJob,
		Current:    job.Status,
		Target:     target,
		Comment:    comment,
		Completion: completion,
	}); err != nil {
		return transport.JobResponse{}, err
	}

	if err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		JobID:        jobID,
		OldStatus:    job.Status,
		NewStatus:    target,
		Comment:      comment,
		StatusReason: strings.TrimSpace(req.StatusReason),
		ChangedBy:    principal.EmployeeID(),
		Payment:      payment,
	}); err != nil {
		return transport.JobResponse{}, err
	}

	s.log.StatusTransition("job", jobID, string(job.Status), string(target), principal.EmployeeID())
	s.bus.Publish(ctx, events.JobStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		JobID:      jobID,
		EmployeeID: principal.EmployeeID(),
		OldStatus:  string(job.Status),
		NewStatus:  string(target),
		Comment:    comment,
	})
	if target == workflow.StatusCompleted {
		s.bus.Publish(ctx, events.JobCompleted{
			BaseEvent:     events.NewBaseEvent(),
			JobID:         jobID,
			JobCode:       job.JobCode,
			EmployeeID:    principal.EmployeeID(),
			PaymentMethod: payment.PaymentMethod,
			Amount:        payment.Amount,
			TransactionID: payment.TransactionID,
		})
	}

	job.Status = target
	return toJobResponse(job), nil
}

// Assign binds a Created job to a field employee and moves it to Assigned.
func (s *Service) Assign(ctx context.Context, principal httpkit.Identity, req transport.AssignJobRequest) (transport.AssignmentResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.AssignmentResponse{}, workflow.FieldErrors(err)
	}

	job, err := s.repo.GetByID(ctx, req.JobID)
	if err != nil {
		return transport.AssignmentResponse{}, err
	}

	if err := s.repo.CreateAssignment(ctx, repository.AssignParams{
		JobID:      req.JobID,
		EmployeeID: req.EmployeeID,
		AssignedBy: principal.EmployeeID(),
	}); err != nil {
		return transport.AssignmentResponse{}, err
	}

	s.log.JobAssigned(req.JobID, req.EmployeeID, principal.EmployeeID())
	s.bus.Publish(ctx, events.JobAssigned{
		BaseEvent:     events.NewBaseEvent(),
		JobID:         req.JobID,
		JobCode:       job.JobCode,
		EmployeeID:    req.EmployeeID,
		AssignedByID:  principal.EmployeeID(),
		ScheduledDate: job.ScheduledDate.Format("2006-01-02"),
	})

	return transport.AssignmentResponse{
		JobID:      req.JobID,
		JobCode:    job.JobCode,
		EmployeeID: req.EmployeeID,
		Status:     string(workflow.StatusAssigned),
	}, nil
}

// Summary computes an employee's job task buckets.
func (s *Service) Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error) {
	return s.repo.Summary(ctx, employeeID)
}

// buildCompletion merges the request's settlement block with the job's
// defaults: amount falls back to the estimated cost, discount to zero.
func buildCompletion(job repository.Job, req transport.UpdateJobStatusRequest) *workflow.CompletionDetails {
	completion := &workflow.CompletionDetails{
		StatusReason: strings.TrimSpace(req.StatusReason),
		Amount:       job.EstimatedCost,
	}
	if req.PaymentDetails != nil {
		completion.PaymentMethod = req.PaymentDetails.PaymentMethod
		completion.TransactionID = strings.TrimSpace(req.PaymentDetails.TransactionID)
		completion.DiscountAmount = req.PaymentDetails.DiscountAmount
		if req.PaymentDetails.Amount > 0 {
			completion.Amount = req.PaymentDetails.Amount
		}
	}
	return completion
}

func toJobResponse(job repository.Job) transport.JobResponse {
	return transport.JobResponse{
		ID:                  job.ID,
		JobCode:             job.JobCode,
		CustomerName:        job.CustomerFirstName + " " + job.CustomerLastName,
		CustomerMobile:      job.CustomerMobile,
		ServiceType:         job.ServiceType,
		SolarService:        job.SolarService,
		Priority:            job.Priority,
		ScheduledDate:       job.ScheduledDate.Format("2006-01-02"),
		Description:         job.Description,
		SpecialInstructions: job.SpecialInstructions,
		EstimatedCost:       job.EstimatedCost,
		Status:              string(job.Status),
		AssignedTo:          job.AssignedTo,
		CreatedAt:           job.CreatedAt.Format(time.RFC3339),
	}
}

func toJobDetailResponse(d repository.JobDetail) transport.JobDetailResponse {
	resp := transport.JobDetailResponse{
		JobInfo: transport.JobInfo{
			ID:            d.Job.ID,
			JobCode:       d.Job.JobCode,
			ServiceType:   d.Job.ServiceType,
			SolarService:  d.Job.SolarService,
			Priority:      d.Job.Priority,
			ScheduledDate: d.Job.ScheduledDate.Format("2006-01-02"),
			EstimatedCost: d.Job.EstimatedCost,
			Status:        string(d.Job.Status),
			AssignedTo:    d.Job.AssignedTo,
		},
		CustomerInfo: transport.CustomerInfo{
			Name:   d.Job.CustomerFirstName + " " + d.Job.CustomerLastName,
			Mobile: d.Job.CustomerMobile,
			Email:  d.Job.CustomerEmail,
		},
		LocationInfo: transport.LocationInfo{
			AddressLine: d.Job.AddressLine,
			City:        d.Job.City,
			District:    d.Job.District,
			State:       d.Job.State,
			Pincode:     d.Job.Pincode,
		},
	}
	if d.Package != nil {
		resp.PackageInfo = &transport.PackageInfo{
			ID:         d.Package.ID,
			Name:       d.Package.Name,
			CapacityKW: d.Package.CapacityKW,
			Price:      d.Package.Price,
		}
	}
	return resp
}
