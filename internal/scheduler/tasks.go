// Package scheduler enqueues and processes job reminder tasks on asynq.
// Reminders go out the day before a job's scheduled date.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeJobReminder is the asynq task type for day-before job reminders.
const TypeJobReminder = "jobs:reminder"

// JobReminderPayload is the serialized reminder task.
type JobReminderPayload struct {
	JobID         int64  `json:"job_id"`
	JobCode       string `json:"job_code"`
	EmployeeID    int64  `json:"employee_id"`
	ScheduledDate string `json:"scheduled_date"`
}

// NewJobReminderTask builds the asynq task for one reminder.
func NewJobReminderTask(payload JobReminderPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TypeJobReminder, raw), nil
}
