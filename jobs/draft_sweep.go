package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/tripdesk/tripdesk/internal/jobs"
	"github.com/tripdesk/tripdesk/internal/quotation"
)

// defaultSweepAgeDays is how long a draft may sit untouched before the
// sweep flags it.
const defaultSweepAgeDays = 14

// DraftSweepJob flags quotation drafts that have gone stale so staff can
// chase or abandon them.
type DraftSweepJob struct {
	repo    quotation.Repository
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewDraftSweepJob initialises the sweep handler.
func NewDraftSweepJob(repo quotation.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *DraftSweepJob {
	return &DraftSweepJob{repo: repo, logger: logger, metrics: metrics}
}

// Handle executes the sweep.
func (j *DraftSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.repo == nil {
		return errors.New("draft sweep: handler not configured")
	}
	var payload QuotationSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.MaxAgeDays <= 0 {
		payload.MaxAgeDays = defaultSweepAgeDays
	}

	tracker := j.metrics.Track(TaskQuotationSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	maxAge := time.Duration(payload.MaxAgeDays) * 24 * time.Hour
	stale, err := j.repo.ListStale(ctx, maxAge)
	if err != nil {
		resultErr = err
		return err
	}

	for _, draft := range stale {
		j.metrics.AddStale(string(draft.Status), 1)
		if j.logger != nil {
			j.logger.Warn("stale quotation draft",
				slog.String("code", draft.Code),
				slog.String("status", string(draft.Status)),
				slog.Time("updated_at", draft.UpdatedAt),
			)
		}
	}
	if j.logger != nil {
		j.logger.Info("draft sweep finished",
			slog.Int("stale", len(stale)),
			slog.Int("max_age_days", payload.MaxAgeDays),
		)
	}
	return nil
}
