package notification

import (
	"context"
	"fmt"

	"solarfield_backend/internal/events"
	"solarfield_backend/platform/logger"
)

// EmployeeDirectory resolves an employee id to a deliverable address.
type EmployeeDirectory interface {
	EmailFor(ctx context.Context, employeeID int64) (name string, email string, err error)
}

// Notifier turns assignment events into emails to the assignee.
type Notifier struct {
	sender    Sender
	directory EmployeeDirectory
	log       *logger.Logger
}

// New creates a notifier and subscribes it to the assignment events.
func New(sender Sender, directory EmployeeDirectory, bus events.Bus, log *logger.Logger) *Notifier {
	n := &Notifier{sender: sender, directory: directory, log: log}
	bus.Subscribe(events.JobAssigned{}.EventName(), events.HandlerFunc(n.onJobAssigned))
	return n
}

func (n *Notifier) onJobAssigned(ctx context.Context, event events.Event) error {
	assigned, ok := event.(events.JobAssigned)
	if !ok {
		return nil
	}

	name, email, err := n.directory.EmailFor(ctx, assigned.EmployeeID)
	if err != nil {
		n.log.Warn("assignment notification skipped", "job_id", assigned.JobID, "error", err)
		return nil
	}

	subject := fmt.Sprintf("New job assigned: %s", assigned.JobCode)
	body := fmt.Sprintf(
		"Hi %s,\n\nJob %s has been assigned to you, scheduled for %s.\nPlease review it under My Tasks.\n",
		name, assigned.JobCode, assigned.ScheduledDate,
	)

	if err := n.sender.Send(ctx, email, subject, body); err != nil {
		n.log.Warn("assignment notification failed", "job_id", assigned.JobID, "error", err)
	}
	return nil
}
