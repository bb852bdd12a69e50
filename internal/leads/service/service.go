// Package service implements the lead entity manager: enquiry intake,
// scoped listing, and validated status transitions.
package service

import (
	"context"
	"strings"
	"time"

	"solarfield_backend/internal/events"
	"solarfield_backend/internal/leads/repository"
	"solarfield_backend/internal/leads/transport"
	"solarfield_backend/internal/shared/pagination"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
	"solarfield_backend/platform/logger"
	"solarfield_backend/platform/phone"
	"solarfield_backend/platform/sanitize"
	appvalidator "solarfield_backend/platform/validator"
)

// Service is the lead entity manager.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	val  *appvalidator.Validator
	log  *logger.Logger
}

// New creates the leads service.
func New(repo repository.Repository, bus events.Bus, val *appvalidator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, val: val, log: log}
}

// CreateEnquiry turns a public enquiry submission into a lead. Validation is
// collected per field and rejected before anything is persisted. New leads
// wait in Created until a supervisor assigns them.
func (s *Service) CreateEnquiry(ctx context.Context, req transport.CreateEnquiryRequest) (transport.LeadResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadResponse{}, workflow.FieldErrors(err)
	}

	lead, err := s.repo.Insert(ctx, repository.CreateLeadParams{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Mobile:       phone.NationalDigits(req.Mobile),
		Email:        strings.TrimSpace(req.Email),
		SolarService: req.SolarService,
		CapacityKW:   req.CapacityKW,
		Location:     sanitize.Text(req.Location),
		PropertyType: req.PropertyType,
		Channel:      req.Channel,
		Message:      sanitize.Text(req.Message),
		Status:       workflow.StatusCreated,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		CustomerName: lead.FirstName + " " + lead.LastName,
		Mobile:       lead.Mobile,
		SolarService: lead.SolarService,
		Channel:      lead.Channel,
	})

	return toLeadResponse(lead), nil
}

// List serves a filtered, paginated lead listing. Non-supervisors only ever
// see leads assigned to them, regardless of the filters supplied.
func (s *Service) List(ctx context.Context, principal httpkit.Identity, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadListResponse{}, workflow.FieldErrors(err)
	}

	page, perPage, offset := pagination.Normalize(req.Page, req.Limit)

	params := repository.ListLeadsParams{
		Search:       strings.TrimSpace(req.Search),
		Status:       req.Status,
		SolarService: req.SolarService,
		Channel:      req.Channel,
		Limit:        perPage,
		Offset:       offset,
	}
	if !principal.IsSupervisor() {
		employeeID := principal.EmployeeID()
		params.AssignedTo = &employeeID
	}
	if from, ok := parseDate(req.DateFrom); ok {
		params.DateFrom = &from
	}
	if to, ok := parseDate(req.DateTo); ok {
		params.DateTo = &to
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}

	return transport.LeadListResponse{
		Leads:      items,
		Pagination: pagination.NewMeta(total, page, perPage),
	}, nil
}

// ListForEmployee is the My Tasks delegation: the principal's identity is the
// scope filter and the page size is fixed by the caller.
func (s *Service) ListForEmployee(ctx context.Context, employeeID int64, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadListResponse{}, workflow.FieldErrors(err)
	}

	page, perPage, offset := pagination.Normalize(req.Page, req.Limit)

	params := repository.ListLeadsParams{
		AssignedTo:   &employeeID,
		Search:       strings.TrimSpace(req.Search),
		Status:       req.Status,
		SolarService: req.SolarService,
		Channel:      req.Channel,
		Limit:        perPage,
		Offset:       offset,
	}
	if from, ok := parseDate(req.DateFrom); ok {
		params.DateFrom = &from
	}
	if to, ok := parseDate(req.DateTo); ok {
		params.DateTo = &to
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}

	return transport.LeadListResponse{
		Leads:      items,
		Pagination: pagination.NewMeta(total, page, perPage),
	}, nil
}

// UpdateStatus applies a validated status transition. The transition rules
// reject the request before any persistence happens; callers re-fetch
// listings and summaries themselves afterwards.
func (s *Service) UpdateStatus(ctx context.Context, principal httpkit.Identity, leadID int64, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if !principal.IsSupervisor() {
		if lead.AssignedTo == nil || *lead.AssignedTo != principal.EmployeeID() {
			return transport.LeadResponse{}, apperr.Forbidden("lead is not assigned to you")
		}
	}

	target := workflow.Status(req.Status)
	comment := sanitize.Text(req.Comments)
	if err := workflow.ValidateTransition(workflow.TransitionRequest{
		Kind:    workflow.KindLead,
		Current: lead.Status,
		Target:  target,
		Comment: comment,
	}); err != nil {
		return transport.LeadResponse{}, err
	}

	if err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		LeadID:    leadID,
		OldStatus: lead.Status,
		NewStatus: target,
		Comment:   comment,
		ChangedBy: principal.EmployeeID(),
	}); err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.StatusTransition("lead", leadID, string(lead.Status), string(target), principal.EmployeeID())
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		EmployeeID: principal.EmployeeID(),
		OldStatus:  string(lead.Status),
		NewStatus:  string(target),
		Comment:    comment,
	})

	lead.Status = target
	return toLeadResponse(lead), nil
}

// Assign binds a Created lead to a field employee and moves it to Assigned.
// From then on the lead shows up in the employee's task views and the
// employee may drive its transitions.
func (s *Service) Assign(ctx context.Context, principal httpkit.Identity, req transport.AssignLeadRequest) (transport.LeadAssignmentResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LeadAssignmentResponse{}, workflow.FieldErrors(err)
	}

	lead, err := s.repo.GetByID(ctx, req.LeadID)
	if err != nil {
		return transport.LeadAssignmentResponse{}, err
	}

	if err := s.repo.Assign(ctx, repository.AssignParams{
		LeadID:     req.LeadID,
		EmployeeID: req.EmployeeID,
		AssignedBy: principal.EmployeeID(),
	}); err != nil {
		return transport.LeadAssignmentResponse{}, err
	}

	s.log.LeadAssigned(req.LeadID, req.EmployeeID, principal.EmployeeID())
	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       req.LeadID,
		EmployeeID:   req.EmployeeID,
		AssignedByID: principal.EmployeeID(),
		CustomerName: lead.FirstName + " " + lead.LastName,
	})

	return transport.LeadAssignmentResponse{
		LeadID:     req.LeadID,
		EmployeeID: req.EmployeeID,
		Status:     string(workflow.StatusAssigned),
	}, nil
}

// MarkConverted closes a lead after a job was created from it. Already-closed
// leads are left alone so replayed events stay harmless.
func (s *Service) MarkConverted(ctx context.Context, leadID, changedBy int64, jobCode string) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if workflow.IsTerminal(workflow.KindLead, lead.Status) {
		return nil
	}

	comment := "converted to job " + jobCode
	if err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		LeadID:    leadID,
		OldStatus: lead.Status,
		NewStatus: workflow.StatusConverted,
		Comment:   comment,
		ChangedBy: changedBy,
	}); err != nil {
		return err
	}

	// The assignee is whose task view the conversion changes; the actor may
	// be a supervisor.
	affected := changedBy
	if lead.AssignedTo != nil {
		affected = *lead.AssignedTo
	}

	s.log.StatusTransition("lead", leadID, string(lead.Status), string(workflow.StatusConverted), changedBy)
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		EmployeeID: affected,
		OldStatus:  string(lead.Status),
		NewStatus:  string(workflow.StatusConverted),
		Comment:    comment,
	})
	return nil
}

// Summary computes an employee's lead task buckets.
func (s *Service) Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error) {
	return s.repo.Summary(ctx, employeeID)
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:           lead.ID,
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Mobile:       lead.Mobile,
		Email:        lead.Email,
		SolarService: lead.SolarService,
		CapacityKW:   lead.CapacityKW,
		Location:     lead.Location,
		PropertyType: lead.PropertyType,
		Channel:      lead.Channel,
		Message:      lead.Message,
		Status:       string(lead.Status),
		AssignedTo:   lead.AssignedTo,
		CreatedAt:    lead.CreatedAt.Format(time.RFC3339),
	}
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
