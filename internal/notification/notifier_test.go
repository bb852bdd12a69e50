package notification

import (
	"context"
	"errors"
	"testing"

	"solarfield_backend/internal/events"
	"solarfield_backend/platform/logger"
)

type fakeSender struct {
	to       []string
	subjects []string
	err      error
}

func (f *fakeSender) Send(_ context.Context, to, subject, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.subjects = append(f.subjects, subject)
	return nil
}

type fakeDirectory struct {
	emails map[int64]string
}

func (f *fakeDirectory) EmailFor(_ context.Context, employeeID int64) (string, string, error) {
	email, ok := f.emails[employeeID]
	if !ok {
		return "", "", errors.New("no such employee")
	}
	return "Asha Rao", email, nil
}

type stubBus struct {
	handlers map[string][]events.Handler
}

func newStubBus() *stubBus {
	return &stubBus{handlers: map[string][]events.Handler{}}
}

func (b *stubBus) Publish(ctx context.Context, e events.Event) {
	for _, h := range b.handlers[e.EventName()] {
		_ = h.Handle(ctx, e)
	}
}

func (b *stubBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *stubBus) Subscribe(name string, h events.Handler) {
	b.handlers[name] = append(b.handlers[name], h)
}

func TestAssignmentEventSendsEmailToAssignee(t *testing.T) {
	sender := &fakeSender{}
	bus := newStubBus()
	New(sender, &fakeDirectory{emails: map[int64]string{3: "asha@solarfield.in"}}, bus, logger.NewNop())

	bus.Publish(context.Background(), events.JobAssigned{
		BaseEvent:     events.NewBaseEvent(),
		JobID:         12,
		JobCode:       "JOB-00012",
		EmployeeID:    3,
		AssignedByID:  1,
		ScheduledDate: "2026-09-15",
	})

	if len(sender.to) != 1 || sender.to[0] != "asha@solarfield.in" {
		t.Fatalf("recipients = %v", sender.to)
	}
	if sender.subjects[0] != "New job assigned: JOB-00012" {
		t.Errorf("subject = %q", sender.subjects[0])
	}
}

func TestUnknownAssigneeDoesNotFailTheEvent(t *testing.T) {
	sender := &fakeSender{}
	bus := newStubBus()
	New(sender, &fakeDirectory{emails: map[int64]string{}}, bus, logger.NewNop())

	bus.Publish(context.Background(), events.JobAssigned{
		BaseEvent:  events.NewBaseEvent(),
		JobID:      12,
		EmployeeID: 99,
	})

	if len(sender.to) != 0 {
		t.Errorf("mail sent for unknown assignee: %v", sender.to)
	}
}

func TestSenderFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	bus := newStubBus()
	n := New(sender, &fakeDirectory{emails: map[int64]string{3: "asha@solarfield.in"}}, bus, logger.NewNop())

	err := n.onJobAssigned(context.Background(), events.JobAssigned{
		BaseEvent:  events.NewBaseEvent(),
		JobID:      12,
		EmployeeID: 3,
	})
	if err != nil {
		t.Errorf("delivery failure surfaced as handler error: %v", err)
	}
}
