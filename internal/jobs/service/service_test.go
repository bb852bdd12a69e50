package service

import (
	"context"
	"testing"
	"time"

	"solarfield_backend/internal/events"
	"solarfield_backend/internal/jobs/repository"
	"solarfield_backend/internal/jobs/transport"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

type fakeRepo struct {
	jobs        map[int64]repository.Job
	insertCalls int
	updateCalls int
	assignCalls int
	lastInsert  repository.CreateJobParams
	lastUpdate  repository.UpdateStatusParams
	lastAssign  repository.AssignParams
	listParams  repository.ListJobsParams
	assignErr   error
}

func (f *fakeRepo) Insert(_ context.Context, params repository.CreateJobParams) (repository.Job, error) {
	f.insertCalls++
	f.lastInsert = params
	return repository.Job{
		ID:                55,
		JobCode:           "JOB-00055",
		CustomerFirstName: params.CustomerFirstName,
		CustomerLastName:  params.CustomerLastName,
		CustomerMobile:    params.CustomerMobile,
		ScheduledDate:     params.ScheduledDate,
		EstimatedCost:     params.EstimatedCost,
		Status:            workflow.StatusCreated,
	}, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return repository.Job{}, apperr.NotFound("job not found")
	}
	return job, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListJobsParams) ([]repository.Job, int, error) {
	f.listParams = params
	return nil, 0, nil
}

func (f *fakeRepo) ListAll(_ context.Context, _, _ int) ([]repository.JobDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, params repository.UpdateStatusParams) error {
	f.updateCalls++
	f.lastUpdate = params
	return nil
}

func (f *fakeRepo) CreateAssignment(_ context.Context, params repository.AssignParams) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assignCalls++
	f.lastAssign = params
	if job, ok := f.jobs[params.JobID]; ok {
		job.Status = workflow.StatusAssigned
		job.AssignedTo = &params.EmployeeID
		f.jobs[params.JobID] = job
	}
	return nil
}

func (f *fakeRepo) Summary(_ context.Context, _ int64) (workflow.SummaryCounts, error) {
	return workflow.SummaryCounts{}, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) { b.published = append(b.published, e) }
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

func validCreateRequest() transport.CreateJobRequest {
	return transport.CreateJobRequest{
		Customer: transport.CustomerPayload{
			FirstName: "Asha",
			LastName:  "Rao",
			Mobile:    "9876543210",
		},
		Location: transport.LocationPayload{
			AddressLine: "14 MG Road, Indiranagar",
			City:        "Bengaluru",
			State:       "Karnataka",
			Pincode:     "560038",
		},
		ServiceType:   "Installation",
		SolarService:  "Rooftop Solar",
		ScheduledDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		EstimatedCost: 185000,
	}
}

func assignedJob(id, employee int64, status workflow.Status) repository.Job {
	return repository.Job{
		ID:            id,
		JobCode:       "JOB-00007",
		Status:        status,
		AssignedTo:    &employee,
		EstimatedCost: 185000,
		ScheduledDate: time.Now().AddDate(0, 0, 3),
	}
}

func TestCreateRejectsShortMobileBeforePersistence(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &recordingBus{})

	req := validCreateRequest()
	req.Customer.Mobile = "12345678"

	_, err := svc.Create(context.Background(), supervisorIdentity(1), req)
	if err == nil {
		t.Fatal("expected validation error for 8-digit mobile")
	}
	fields := apperr.Fields(err)
	if fields["mobile"] != "10 digits only" {
		t.Errorf("mobile field error = %q, want %q", fields["mobile"], "10 digits only")
	}
	if repo.insertCalls != 0 {
		t.Errorf("insert called %d times on invalid request", repo.insertCalls)
	}
}

func TestCreateRejectsPastScheduledDate(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &recordingBus{})

	req := validCreateRequest()
	req.ScheduledDate = "2020-01-01"

	_, err := svc.Create(context.Background(), supervisorIdentity(1), req)
	if err == nil {
		t.Fatal("expected validation error for past date")
	}
	if apperr.Fields(err)["scheduled_date"] == "" {
		t.Errorf("missing scheduled_date field error: %v", err)
	}
	if repo.insertCalls != 0 {
		t.Error("insert called on invalid request")
	}
}

func TestCreateDefaultsPriorityAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.Create(context.Background(), supervisorIdentity(2), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.lastInsert.Priority != "Medium" {
		t.Errorf("default priority = %q", repo.lastInsert.Priority)
	}
	if repo.lastInsert.CreatedBy != 2 {
		t.Errorf("created_by = %d", repo.lastInsert.CreatedBy)
	}
	if resp.JobCode != "JOB-00055" {
		t.Errorf("job code = %q", resp.JobCode)
	}
	if resp.Status != string(workflow.StatusCreated) {
		t.Errorf("new job status = %s", resp.Status)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "jobs.created" {
		t.Errorf("published events = %v", bus.published)
	}
}

func TestCreateFromLeadCarriesLeadOnEvent(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	leadID := int64(41)
	req := validCreateRequest()
	req.LeadID = &leadID

	if _, err := svc.Create(context.Background(), supervisorIdentity(2), req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published events = %v", bus.published)
	}
	created, ok := bus.published[0].(events.JobCreated)
	if !ok {
		t.Fatalf("published event type = %T", bus.published[0])
	}
	if created.LeadID == nil || *created.LeadID != 41 {
		t.Errorf("event lead id = %v", created.LeadID)
	}
}

func TestListFiltersByScheduledDateRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.List(context.Background(), supervisorIdentity(1), transport.ListJobsRequest{
		DateFrom: "2026-09-01",
		DateTo:   "2026-09-30",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.listParams.DateFrom == nil || repo.listParams.DateTo == nil {
		t.Fatalf("date range not passed to repository: %+v", repo.listParams)
	}
	if got := repo.listParams.DateFrom.Format("2006-01-02"); got != "2026-09-01" {
		t.Errorf("date_from = %s", got)
	}
	if got := repo.listParams.DateTo.Format("2006-01-02"); got != "2026-09-30" {
		t.Errorf("date_to = %s", got)
	}

	_, err = svc.List(context.Background(), supervisorIdentity(1), transport.ListJobsRequest{DateFrom: "not-a-date"})
	if err == nil {
		t.Fatal("expected validation error for malformed date")
	}
	if apperr.Fields(err)["date_from"] == "" {
		t.Errorf("missing date_from field error: %v", err)
	}
}

func TestUpdateStatusCompletionHappyPath(t *testing.T) {
	repo := &fakeRepo{jobs: map[int64]repository.Job{
		7: assignedJob(7, 3, workflow.StatusInProgress),
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 7, transport.UpdateJobStatusRequest{
		NewStatus:    string(workflow.StatusCompleted),
		Comments:     "installation commissioned and handed over",
		StatusReason: "work finished",
		PaymentDetails: &transport.PaymentDetails{
			PaymentMethod: "UPI",
			TransactionID: "TXN1",
		},
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != string(workflow.StatusCompleted) {
		t.Errorf("status = %s", resp.Status)
	}
	if repo.lastUpdate.Payment == nil {
		t.Fatal("no payment persisted with completion")
	}
	if repo.lastUpdate.Payment.Amount != 185000 {
		t.Errorf("amount should default to estimated cost, got %v", repo.lastUpdate.Payment.Amount)
	}
	if repo.lastUpdate.Payment.DiscountAmount != 0 {
		t.Errorf("discount should default to zero, got %v", repo.lastUpdate.Payment.DiscountAmount)
	}
	if repo.lastUpdate.Payment.PaymentStatus != "Completed" {
		t.Errorf("payment status = %q", repo.lastUpdate.Payment.PaymentStatus)
	}

	var names []string
	for _, e := range bus.published {
		names = append(names, e.EventName())
	}
	if len(names) != 2 || names[0] != "jobs.status.changed" || names[1] != "jobs.completed" {
		t.Errorf("published events = %v", names)
	}
}

func TestUpdateStatusCompletionMissingSettlementCollectsAllFields(t *testing.T) {
	repo := &fakeRepo{jobs: map[int64]repository.Job{
		7: assignedJob(7, 3, workflow.StatusInProgress),
	}}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 7, transport.UpdateJobStatusRequest{
		NewStatus: string(workflow.StatusCompleted),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fields := apperr.Fields(err)
	for _, want := range []string{"comments", "status_reason", "payment_method", "transaction_id"} {
		if fields[want] == "" {
			t.Errorf("missing field error for %s, got %v", want, fields)
		}
	}
	if repo.updateCalls != 0 {
		t.Error("repository touched on invalid completion")
	}
}

func TestUpdateStatusInvalidPaymentMethod(t *testing.T) {
	repo := &fakeRepo{jobs: map[int64]repository.Job{
		7: assignedJob(7, 3, workflow.StatusInProgress),
	}}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), fieldIdentity(3), 7, transport.UpdateJobStatusRequest{
		NewStatus:    string(workflow.StatusCompleted),
		Comments:     "done",
		StatusReason: "work finished",
		PaymentDetails: &transport.PaymentDetails{
			PaymentMethod: "Barter",
			TransactionID: "TXN9",
		},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperr.Fields(err)["payment_method"] == "" {
		t.Errorf("missing payment_method field error: %v", err)
	}
}

func TestAssignCreatedJob(t *testing.T) {
	repo := &fakeRepo{jobs: map[int64]repository.Job{
		12: {ID: 12, JobCode: "JOB-00012", Status: workflow.StatusCreated, ScheduledDate: time.Now().AddDate(0, 0, 5)},
	}}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.Assign(context.Background(), supervisorIdentity(1), transport.AssignJobRequest{
		JobID:      12,
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
	if len(bus.published) != 1 || bus.published[0].EventName() != "jobs.assigned" {
		t.Errorf("published events = %v", bus.published)
	}
}

func TestAssignRequiresEmployee(t *testing.T) {
	repo := &fakeRepo{jobs: map[int64]repository.Job{}}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.Assign(context.Background(), supervisorIdentity(1), transport.AssignJobRequest{JobID: 12})
	if err == nil {
		t.Fatal("expected validation error for missing employee")
	}
	if apperr.Fields(err)["employee_id"] == "" {
		t.Errorf("missing employee_id field error: %v", err)
	}
	if repo.assignCalls != 0 {
		t.Error("assignment attempted without employee")
	}
}

func TestAssignAlreadyAssignedJobConflicts(t *testing.T) {
	repo := &fakeRepo{
		jobs: map[int64]repository.Job{
			12: assignedJob(12, 3, workflow.StatusAssigned),
		},
		assignErr: apperr.Conflict("job is not available for assignment"),
	}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	_, err := svc.Assign(context.Background(), supervisorIdentity(1), transport.AssignJobRequest{
		JobID:      12,
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

func TestUpdateStatusScopedToAssignee(t *testing.T) {
	repo := &fakeRepo{jobs: map[int64]repository.Job{
		7: assignedJob(7, 3, workflow.StatusAssigned),
	}}
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), fieldIdentity(9), 7, transport.UpdateJobStatusRequest{
		NewStatus: string(workflow.StatusInProgress),
		Comments:  "starting work",
	})
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
