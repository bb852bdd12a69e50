package service

import (
	"context"
	"testing"

	"solarfield_backend/internal/events"
	"solarfield_backend/internal/leads/repository"
	"solarfield_backend/internal/leads/transport"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

type fakeRepo struct {
	leads         map[int64]repository.Lead
	updateCalls   int
	insertCalls   int
	assignCalls   int
	lastInsert    repository.CreateLeadParams
	lastUpdate    repository.UpdateStatusParams
	lastAssign    repository.AssignParams
	listParams    repository.ListLeadsParams
	listResult    []repository.Lead
	listTotal     int
	summaryResult workflow.SummaryCounts
}

func (f *fakeRepo) Insert(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.insertCalls++
	f.lastInsert = params
	return repository.Lead{
		ID:        101,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Mobile:    params.Mobile,
		Status:    params.Status,
	}, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListLeadsParams) ([]repository.Lead, int, error) {
	f.listParams = params
	return f.listResult, f.listTotal, nil
}

func (f *fakeRepo) Assign(_ context.Context, params repository.AssignParams) error {
	f.assignCalls++
	f.lastAssign = params
	lead, ok := f.leads[params.LeadID]
	if !ok {
		return apperr.NotFound("lead not found")
	}
	if lead.Status != workflow.StatusCreated {
		return apperr.Conflict("lead is not available for assignment")
	}
	lead.Status = workflow.StatusAssigned
	lead.AssignedTo = &params.EmployeeID
	f.leads[params.LeadID] = lead
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, params repository.UpdateStatusParams) error {
	f.updateCalls++
	f.lastUpdate = params
	return nil
}

func (f *fakeRepo) Summary(_ context.Context, _ int64) (workflow.SummaryCounts, error) {
	return f.summaryResult, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event)            { b.published = append(b.published, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler)   {}
func (b *recordingBus) Unsubscribe(string, events.Handler) {}

func newTestService(repo *fakeRepo, bus *recordingBus) *Service {
	val := appvalidator.New()
	workflow.RegisterRules(val)
	return New(repo, bus, val, logger.NewNop())
}

func fieldIdentity(id int64) httpkit.Identity {
	return httpkit.NewIdentity(id, []string{httpkit.RoleField})
}

func supervisorIdentity(id int64) httpkit.Identity {
	return httpkit.NewIdentity(id, []string{httpkit.RoleSupervisor})
}

func assignedLead(id, employee int64, status workflow.Status) repository.Lead {
	return repository.Lead{ID: id, AssignedTo: &employee, Status: status, FirstName: "Asha", LastName: "Rao"}
}

func TestCreateEnquiryCollectsFieldErrors(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.CreateEnquiry(context.Background(), transport.CreateEnquiryRequest{
		FirstName: "A1",
		LastName:  "",
		Mobile:    "12345",
		Email:     "someone@host.xyz",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fields := apperr.Fields(err)
	for _, want := range []string{"first_name", "last_name", "mobile", "email", "solar_service"} {
		if fields[want] == "" {
			t.Errorf("missing field error for %s, got %v", want, fields)
		}
	}
	if fields["mobile"] != "10 digits only" {
		t.Errorf("mobile message = %q", fields["mobile"])
	}
	if repo.insertCalls != 0 {
		t.Errorf("insert called %d times on invalid enquiry", repo.insertCalls)
	}
}

func TestCreateEnquiryNormalizesAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.CreateEnquiry(context.Background(), transport.CreateEnquiryRequest{
		FirstName:    "Asha",
		LastName:     "Rao",
		Mobile:       "98765-43210",
		SolarService: "Rooftop Installation",
		Message:      "<b>please call</b> after 6pm",
	})
	if err != nil {
		t.Fatalf("CreateEnquiry: %v", err)
	}
	if repo.lastInsert.Mobile != "9876543210" {
		t.Errorf("mobile not normalized to national digits: %q", repo.lastInsert.Mobile)
	}
	if repo.lastInsert.Status != workflow.StatusCreated {
		t.Errorf("new lead status = %s", repo.lastInsert.Status)
	}
	if resp.ID == 0 {
		t.Error("response missing lead id")
	}
	if repo.lastInsert.Message != "please call after 6pm" {
		t.Errorf("message not sanitized before storage: %q", repo.lastInsert.Message)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.created" {
		t.Errorf("published events = %v", bus.published)
	}
}

func TestListScopesFieldEmployeeToOwnLeads(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.List(context.Background(), fieldIdentity(7), transport.ListLeadsRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.listParams.AssignedTo == nil || *repo.listParams.AssignedTo != 7 {
		t.Errorf("field employee listing not scoped: %+v", repo.listParams.AssignedTo)
	}

	_, err = svc.List(context.Background(), supervisorIdentity(1), transport.ListLeadsRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.listParams.AssignedTo != nil {
		t.Error("supervisor listing should not be scoped to one employee")
	}
}

func TestAssignCreatedLeadPersistsAndPublishes(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		101: {ID: 101, FirstName: "Asha", LastName: "Rao", Status: workflow.StatusCreated},
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.Assign(context.Background(), supervisorIdentity(1), transport.AssignLeadRequest{
		LeadID:     101,
		EmployeeID: 3,
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if resp.Status != string(workflow.StatusAssigned) {
		t.Errorf("status = %s", resp.Status)
	}
	if repo.lastAssign.EmployeeID != 3 || repo.lastAssign.AssignedBy != 1 {
		t.Errorf("assignment params = %+v", repo.lastAssign)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.assigned" {
		t.Errorf("published events = %v", bus.published)
	}
}

func TestAssignWorkedLeadConflicts(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		101: assignedLead(101, 3, workflow.StatusInProgress),
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	_, err := svc.Assign(context.Background(), supervisorIdentity(1), transport.AssignLeadRequest{
		LeadID:     101,
		EmployeeID: 9,
	})
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Error("event published for failed assignment")
	}
}

// A fresh enquiry must become actionable for a field employee once a
// supervisor assigns it; before that the employee has no claim on it.
func TestEnquiryActionableOnlyAfterAssignment(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		101: {ID: 101, FirstName: "Asha", LastName: "Rao", Status: workflow.StatusCreated},
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	_, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 101, transport.UpdateLeadStatusRequest{
		Status:   string(workflow.StatusInProgress),
		Comments: "calling the customer",
	})
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindForbidden {
		t.Fatalf("expected forbidden before assignment, got %v", err)
	}

	if _, err := svc.Assign(context.Background(), supervisorIdentity(1), transport.AssignLeadRequest{
		LeadID:     101,
		EmployeeID: 3,
	}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	resp, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 101, transport.UpdateLeadStatusRequest{
		Status:   string(workflow.StatusInProgress),
		Comments: "calling the customer",
	})
	if err != nil {
		t.Fatalf("UpdateStatus after assignment: %v", err)
	}
	if resp.Status != string(workflow.StatusInProgress) {
		t.Errorf("status = %s", resp.Status)
	}
}

func TestMarkConvertedClosesLeadAndPublishes(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		7: assignedLead(7, 3, workflow.StatusQualified),
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	if err := svc.MarkConverted(context.Background(), 7, 1, "JOB-00055"); err != nil {
		t.Fatalf("MarkConverted: %v", err)
	}
	if repo.lastUpdate.NewStatus != workflow.StatusConverted {
		t.Errorf("persisted status = %s", repo.lastUpdate.NewStatus)
	}
	if repo.lastUpdate.Comment != "converted to job JOB-00055" {
		t.Errorf("comment = %q", repo.lastUpdate.Comment)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.status.changed" {
		t.Fatalf("published events = %v", bus.published)
	}
	changed := bus.published[0].(events.LeadStatusChanged)
	if changed.EmployeeID != 3 {
		t.Errorf("event should target the assignee, got %d", changed.EmployeeID)
	}
}

func TestMarkConvertedLeavesClosedLeadAlone(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		8: assignedLead(8, 3, workflow.StatusLost),
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	if err := svc.MarkConverted(context.Background(), 8, 1, "JOB-00056"); err != nil {
		t.Fatalf("MarkConverted on closed lead: %v", err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("closed lead updated %d times", repo.updateCalls)
	}
	if len(bus.published) != 0 {
		t.Error("event published for untouched lead")
	}
}

func TestUpdateStatusEmptyCommentNeverReachesRepository(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		7: assignedLead(7, 3, workflow.StatusAssigned),
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	_, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 7, transport.UpdateLeadStatusRequest{
		Status:   string(workflow.StatusInProgress),
		Comments: "   ",
	})
	if err == nil {
		t.Fatal("expected rejection for blank comment")
	}
	if apperr.Fields(err)["comments"] == "" {
		t.Errorf("expected comments field error, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("repository touched %d times on invalid transition", repo.updateCalls)
	}
	if len(bus.published) != 0 {
		t.Error("event published for rejected transition")
	}
}

func TestUpdateStatusRejectsUnassignedEmployee(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		7: assignedLead(7, 3, workflow.StatusAssigned),
	}}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), fieldIdentity(9), 7, transport.UpdateLeadStatusRequest{
		Status:   string(workflow.StatusInProgress),
		Comments: "starting site visit",
	})
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateStatusValidTransitionPersistsAndPublishes(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		7: assignedLead(7, 3, workflow.StatusAssigned),
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 7, transport.UpdateLeadStatusRequest{
		Status:   string(workflow.StatusInProgress),
		Comments: "customer confirmed site visit",
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != string(workflow.StatusInProgress) {
		t.Errorf("response status = %s", resp.Status)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("update calls = %d", repo.updateCalls)
	}
	if repo.lastUpdate.OldStatus != workflow.StatusAssigned || repo.lastUpdate.NewStatus != workflow.StatusInProgress {
		t.Errorf("persisted transition %s -> %s", repo.lastUpdate.OldStatus, repo.lastUpdate.NewStatus)
	}
	if repo.lastUpdate.ChangedBy != 3 {
		t.Errorf("changed_by = %d", repo.lastUpdate.ChangedBy)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.status.changed" {
		t.Errorf("published events = %v", bus.published)
	}
}

func TestUpdateStatusTerminalLeadConflicts(t *testing.T) {
	repo := &fakeRepo{leads: map[int64]repository.Lead{
		8: assignedLead(8, 3, workflow.StatusConverted),
	}}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 8, transport.UpdateLeadStatusRequest{
		Status:   string(workflow.StatusInProgress),
		Comments: "trying to reopen",
	})
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict for terminal lead, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Error("terminal lead transition reached repository")
	}
}
