package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

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

func reminderTask(t *testing.T, payload JobReminderPayload) *asynq.Task {
	t.Helper()
	task, err := NewJobReminderTask(payload)
	if err != nil {
		t.Fatalf("NewJobReminderTask: %v", err)
	}
	return task
}

func TestReminderEmailsAssignee(t *testing.T) {
	sender := &fakeSender{}
	w := NewWorker(sender, &fakeDirectory{emails: map[int64]string{3: "asha@solarfield.in"}}, logger.NewNop())

	err := w.HandleJobReminder(context.Background(), reminderTask(t, JobReminderPayload{
		JobID:         12,
		JobCode:       "JOB-00012",
		EmployeeID:    3,
		ScheduledDate: "2026-09-15",
	}))
	if err != nil {
		t.Fatalf("HandleJobReminder: %v", err)
	}
	if len(sender.to) != 1 || sender.to[0] != "asha@solarfield.in" {
		t.Errorf("recipients = %v", sender.to)
	}
	if sender.subjects[0] != "Reminder: JOB-00012 is scheduled for tomorrow" {
		t.Errorf("subject = %q", sender.subjects[0])
	}
}

func TestReminderDeliveryFailureRetries(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	w := NewWorker(sender, &fakeDirectory{emails: map[int64]string{3: "asha@solarfield.in"}}, logger.NewNop())

	err := w.HandleJobReminder(context.Background(), reminderTask(t, JobReminderPayload{
		JobID:      12,
		EmployeeID: 3,
	}))
	if err == nil {
		t.Fatal("expected error so asynq retries")
	}
	if errors.Is(err, asynq.SkipRetry) {
		t.Error("delivery failure must stay retryable")
	}
}

func TestMalformedPayloadSkipsRetry(t *testing.T) {
	w := NewWorker(&fakeSender{}, &fakeDirectory{}, logger.NewNop())

	task := asynq.NewTask(TypeJobReminder, []byte("{not json"))
	err := w.HandleJobReminder(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("expected SkipRetry for malformed payload, got %v", err)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	task := reminderTask(t, JobReminderPayload{JobID: 7, JobCode: "JOB-00007", EmployeeID: 3, ScheduledDate: "2026-09-10"})

	var decoded JobReminderPayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.JobID != 7 || decoded.JobCode != "JOB-00007" {
		t.Errorf("decoded = %+v", decoded)
	}
}
