// Package query runs queries on the configured engine and exposes the
// named analytic reports built on top of it.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/observability"
	"inventory-hub/internal/poll"
)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Database     string        // used when a request names no database
	ResultSink   string        // used when a request names no result sink
	PollInterval time.Duration // default 1s
	PollAttempts int           // default 30
	Presigner    domain.ResultPresigner
	Logger       *slog.Logger
	Now          func() time.Time
}

// Runner submits a query, polls it to a terminal state and returns the
// tabular result. It holds no per-job state between calls.
type Runner struct {
	engine     domain.QueryEngine
	database   string
	resultSink string
	policy     poll.Policy
	presigner  domain.ResultPresigner
	logger     *slog.Logger
	now        func() time.Time
}

// NewRunner creates a Runner on engine.
func NewRunner(engine domain.QueryEngine, opts RunnerOptions) *Runner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = 30
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		engine:     engine,
		database:   opts.Database,
		resultSink: opts.ResultSink,
		policy:     poll.Policy{Interval: opts.PollInterval, MaxAttempts: opts.PollAttempts},
		presigner:  opts.Presigner,
		logger:     opts.Logger,
		now:        opts.Now,
	}
}

// EngineName returns the name of the underlying engine.
func (r *Runner) EngineName() string { return r.engine.Name() }

// Configured reports whether the engine can accept work.
func (r *Runner) Configured() bool { return r.engine.Ready() == nil }

// Execute runs req to completion. Errors are typed: *domain.ValidationError,
// *domain.EngineNotConfiguredError, *domain.EngineUnavailableError,
// *domain.QueryFailedError, *domain.QueryTimedOutError, or the context error
// when the caller gives up.
func (r *Runner) Execute(ctx context.Context, req domain.QueryRequest) (*domain.ResultTable, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrValidation("query is required")
	}
	if err := r.engine.Ready(); err != nil {
		return nil, err
	}
	if req.Database == "" {
		req.Database = r.database
	}
	if req.ResultSink == "" {
		req.ResultSink = r.resultSink
	}

	ctx, span := observability.StartSpan(ctx, "query.Execute",
		attribute.String("query.engine", r.engine.Name()),
		attribute.String("db.name", req.Database),
	)
	defer span.End()

	id, err := r.engine.Submit(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, &domain.EngineUnavailableError{Op: "submit", Err: err}
	}
	job := domain.NewQueryJob(id, req, r.now())
	span.SetAttributes(attribute.String("query.id", id))
	r.logger.InfoContext(ctx, "query submitted", "query_id", id, "engine", r.engine.Name(), "database", req.Database)

	_, attempts, err := poll.Until(ctx, r.policy,
		func(ctx context.Context) (domain.EngineStatus, error) {
			return r.engine.Status(ctx, id)
		},
		func(st domain.EngineStatus) bool {
			job.Advance(st, r.now())
			return st.State.EngineTerminal()
		},
	)
	job.Attempts = attempts
	observability.QueryPollAttempts.Observe(float64(attempts))

	switch {
	case errors.Is(err, poll.ErrExhausted):
		job.TimeOut(r.now())
		r.record(ctx, job)
		return nil, &domain.QueryTimedOutError{JobID: id, Attempts: attempts}
	case err != nil && ctx.Err() != nil:
		r.cancel(id)
		return nil, fmt.Errorf("query %s: %w", id, ctx.Err())
	case err != nil:
		span.RecordError(err)
		return nil, &domain.EngineUnavailableError{Op: "status", Err: err}
	}

	r.record(ctx, job)
	if job.State != domain.QueryJobSucceeded {
		return nil, &domain.QueryFailedError{JobID: id, State: job.State, Reason: job.FailureReason}
	}

	raw, err := r.engine.Results(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, &domain.EngineUnavailableError{Op: "results", Err: err}
	}
	table := domain.NewResultTable(*raw)
	table.JobID = id
	table.ResultLocation = job.ResultLocation
	if table.Truncated {
		r.logger.WarnContext(ctx, "query result truncated", "query_id", id, "rows", table.RowCount)
	}
	r.attachDownloadURL(ctx, table)
	span.SetAttributes(attribute.Int("result.rows", table.RowCount), attribute.Bool("result.truncated", table.Truncated))
	return table, nil
}

// cancel asks the engine to stop a job whose caller went away. It runs on a
// fresh context because the caller's is already done.
func (r *Runner) cancel(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.engine.Cancel(ctx, id); err != nil {
		r.logger.Warn("query cancel failed", "query_id", id, "error", err)
		return
	}
	r.logger.Info("query cancelled by caller", "query_id", id)
}

func (r *Runner) record(ctx context.Context, job *domain.QueryJob) {
	observability.QueryJobsTotal.WithLabelValues(r.engine.Name(), string(job.State)).Inc()
	if job.CompletedAt != nil {
		observability.QueryJobDuration.WithLabelValues(r.engine.Name()).
			Observe(job.CompletedAt.Sub(job.SubmittedAt).Seconds())
	}
	level := slog.LevelInfo
	if job.State != domain.QueryJobSucceeded {
		level = slog.LevelWarn
	}
	r.logger.Log(ctx, level, "query finished",
		"query_id", job.ID,
		"state", job.State,
		"attempts", job.Attempts,
		"reason", job.FailureReason,
	)
}

func (r *Runner) attachDownloadURL(ctx context.Context, table *domain.ResultTable) {
	if r.presigner == nil || !strings.HasPrefix(table.ResultLocation, "s3://") {
		return
	}
	u, err := r.presigner.PresignResult(ctx, table.ResultLocation)
	if err != nil {
		r.logger.WarnContext(ctx, "presign result failed", "query_id", table.JobID, "error", err)
		return
	}
	table.DownloadURL = u
}
