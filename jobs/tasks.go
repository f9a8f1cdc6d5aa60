package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskQuotationSweep is the task type for the nightly stale-draft sweep.
	TaskQuotationSweep = "quotation:sweep_stale"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewQuotationEmailTask prepares the e-mail that sends a drafted quotation
// to the client.
func NewQuotationEmailTask(code, recipient string) (*asynq.Task, error) {
	return NewSendEmailTask(SendEmailPayload{
		To:      recipient,
		Subject: fmt.Sprintf("Your travel quotation %s", code),
		Body:    fmt.Sprintf("Quotation %s is ready for review.", code),
	})
}

// QuotationSweepPayload tunes the stale-draft sweep.
type QuotationSweepPayload struct {
	MaxAgeDays int `json:"max_age_days"`
}

// NewQuotationSweepTask constructs the sweep task.
func NewQuotationSweepTask(payload QuotationSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuotationSweep, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: SMTP delivery lands with the Mailpit integration.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}
