package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"opsboard/internal/platform/db"
)

const JobRatesRefresh = "rates_refresh"

// Runner executes queued background work one job at a time and records every
// run in job_runs. Periodic jobs are scheduled through cron expressions.
type Runner struct {
	DB       db.Querier
	queue    chan job
	schedule *cron.Cron
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(q db.Querier) *Runner {
	return &Runner{
		DB:    q,
		queue: make(chan job, 128),
	}
}

// Start launches the worker and the cron scheduler. spec follows the
// standard five-field cron format; an empty spec disables the schedule.
func (r *Runner) Start(ctx context.Context, spec, jobType string, run func(context.Context) (any, error)) error {
	go r.worker(ctx)

	r.schedule = cron.New()
	if spec != "" && run != nil {
		if _, err := r.schedule.AddFunc(spec, func() {
			r.Enqueue(jobType, run)
		}); err != nil {
			return fmt.Errorf("invalid cron spec %q: %w", spec, err)
		}
	}
	r.schedule.Start()
	return nil
}

func (r *Runner) Stop() {
	if r.schedule != nil {
		r.schedule.Stop()
	}
}

func (r *Runner) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case r.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow executes the job inline, still recording the run.
func (r *Runner) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return r.runJob(ctx, job{Type: jobType, Run: run})
}

func (r *Runner) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			if _, err := r.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (r *Runner) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := r.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
		details = map[string]any{"error": err.Error()}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := r.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}
