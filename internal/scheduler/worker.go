package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"solarfield_backend/internal/notification"
	"solarfield_backend/platform/logger"
)

// Worker processes reminder tasks: it resolves the assignee and emails them.
type Worker struct {
	sender    notification.Sender
	directory notification.EmployeeDirectory
	log       *logger.Logger
}

// NewWorker creates a reminder worker.
func NewWorker(sender notification.Sender, directory notification.EmployeeDirectory, log *logger.Logger) *Worker {
	return &Worker{sender: sender, directory: directory, log: log}
}

// Register mounts the worker's handlers on the asynq mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeJobReminder, w.HandleJobReminder)
}

// HandleJobReminder emails the assignee the day before the scheduled date.
// Returning an error makes asynq retry the task.
func (w *Worker) HandleJobReminder(ctx context.Context, task *asynq.Task) error {
	var payload JobReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	name, email, err := w.directory.EmailFor(ctx, payload.EmployeeID)
	if err != nil {
		w.log.Warn("reminder skipped, assignee unavailable", "job_id", payload.JobID, "error", err)
		return nil
	}

	subject := fmt.Sprintf("Reminder: %s is scheduled for tomorrow", payload.JobCode)
	body := fmt.Sprintf(
		"Hi %s,\n\nJob %s is scheduled for %s.\nPlease confirm your availability under My Tasks.\n",
		name, payload.JobCode, payload.ScheduledDate,
	)

	if err := w.sender.Send(ctx, email, subject, body); err != nil {
		return fmt.Errorf("send reminder for job %d: %w", payload.JobID, err)
	}

	w.log.Info("reminder sent", "job_id", payload.JobID, "employee_id", payload.EmployeeID)
	return nil
}
