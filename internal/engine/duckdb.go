package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/google/uuid"

	"inventory-hub/internal/domain"
)

// DuckDBOptions configures the local engine.
type DuckDBOptions struct {
	// Path is the database file; empty opens an in-memory database.
	Path string
	// InitSQLFile is executed once after opening, e.g. to create and seed the
	// productos/ordenes/detalles_orden/clientes tables.
	InitSQLFile string
	// JobTTL is how long finished jobs stay fetchable (default 10m).
	JobTTL time.Duration
	Logger *slog.Logger
}

// DuckDB runs queries in-process. Each submitted query executes on its own
// goroutine; status and results are kept in memory until the job expires.
type DuckDB struct {
	db     *sql.DB
	jobs   *jobStore
	logger *slog.Logger
	wg     sync.WaitGroup
}

var _ domain.QueryEngine = (*DuckDB)(nil)

// OpenDuckDB opens the database and runs the optional init script.
func OpenDuckDB(ctx context.Context, opts DuckDBOptions) (*DuckDB, error) {
	db, err := sql.Open("duckdb", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	if opts.InitSQLFile != "" {
		script, err := os.ReadFile(opts.InitSQLFile)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("read init sql: %w", err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run init sql %s: %w", opts.InitSQLFile, err)
		}
	}
	return NewDuckDB(db, opts), nil
}

// NewDuckDB wraps an open DuckDB handle.
func NewDuckDB(db *sql.DB, opts DuckDBOptions) *DuckDB {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.JobTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DuckDB{db: db, jobs: newJobStore(ttl, time.Minute), logger: logger}
}

// Name implements domain.QueryEngine.
func (d *DuckDB) Name() string { return "duckdb" }

// Ready implements domain.QueryEngine.
func (d *DuckDB) Ready() error { return nil }

// Submit starts req.Query in the background. Database and ResultSink are
// ignored; the local engine has a single catalog and keeps results in memory.
func (d *DuckDB) Submit(_ context.Context, req domain.QueryRequest) (string, error) {
	now := time.Now()
	d.jobs.maybeCleanup(now)

	jobCtx, cancel := context.WithCancel(context.Background())
	job := &localJob{id: uuid.NewString(), state: domain.QueryJobSubmitted, createdAt: now, cancel: cancel}
	d.jobs.set(job)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		job.setRunning()

		raw, err := d.run(jobCtx, req.Query)
		switch {
		case err == nil:
			job.setSucceeded(raw)
		case errors.Is(jobCtx.Err(), context.Canceled):
			job.setFinished(domain.QueryJobCancelled, "query cancelled")
		default:
			job.setFinished(domain.QueryJobFailed, err.Error())
		}
		d.logger.Debug("duckdb job finished", "query_id", job.id, "state", job.snapshot().State)
	}()
	return job.id, nil
}

func (d *DuckDB) run(ctx context.Context, query string) (*domain.RawResult, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	header := make([]*string, len(cols))
	for i := range cols {
		c := cols[i]
		header[i] = &c
	}
	raw := &domain.RawResult{Columns: cols, Rows: [][]*string{header}}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		cells := make([]*string, len(cols))
		for i, v := range values {
			cells[i] = formatCell(v)
		}
		raw.Rows = append(raw.Rows, cells)
	}
	return raw, rows.Err()
}

func formatCell(v any) *string {
	var s string
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		s = x
	case []byte:
		s = string(x)
	case time.Time:
		s = x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	return &s
}

// Status implements domain.QueryEngine.
func (d *DuckDB) Status(_ context.Context, jobID string) (domain.EngineStatus, error) {
	d.jobs.maybeCleanup(time.Now())
	job, ok := d.jobs.get(jobID)
	if !ok {
		return domain.EngineStatus{}, jobNotFound(jobID)
	}
	return job.snapshot(), nil
}

// Results implements domain.QueryEngine. Only succeeded jobs have results,
// and a job is forgotten once its results have been handed out.
func (d *DuckDB) Results(_ context.Context, jobID string) (*domain.RawResult, error) {
	job, ok := d.jobs.get(jobID)
	if !ok {
		return nil, jobNotFound(jobID)
	}
	raw, ok := job.result()
	if !ok {
		return nil, fmt.Errorf("query %s has no results in state %s", jobID, job.snapshot().State)
	}
	d.jobs.delete(jobID)
	return raw, nil
}

// Cancel interrupts a running job.
func (d *DuckDB) Cancel(_ context.Context, jobID string) error {
	job, ok := d.jobs.get(jobID)
	if !ok {
		return jobNotFound(jobID)
	}
	job.cancel()
	return nil
}

// Close cancels running jobs, waits for them and closes the database.
func (d *DuckDB) Close() error {
	d.jobs.cancelAll()
	d.wg.Wait()
	return d.db.Close()
}

type localJob struct {
	id        string
	createdAt time.Time
	cancel    context.CancelFunc

	mu         sync.Mutex
	state      domain.QueryJobState
	reason     string
	raw        *domain.RawResult
	finishedAt time.Time
}

func (j *localJob) setRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state == domain.QueryJobSubmitted {
		j.state = domain.QueryJobRunning
	}
}

func (j *localJob) setSucceeded(raw *domain.RawResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = domain.QueryJobSucceeded
	j.raw = raw
	j.finishedAt = time.Now()
}

func (j *localJob) setFinished(state domain.QueryJobState, reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = state
	j.reason = reason
	j.finishedAt = time.Now()
}

func (j *localJob) snapshot() domain.EngineStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return domain.EngineStatus{State: j.state, Reason: j.reason}
}

func (j *localJob) result() (*domain.RawResult, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.raw, j.state == domain.QueryJobSucceeded
}

func (j *localJob) expired(now time.Time, ttl time.Duration) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return !j.finishedAt.IsZero() && now.Sub(j.finishedAt) > ttl
}

type jobStore struct {
	ttl             time.Duration
	cleanupInterval time.Duration

	mu          sync.Mutex
	jobs        map[string]*localJob
	lastCleanup time.Time
}

func newJobStore(ttl, cleanupInterval time.Duration) *jobStore {
	return &jobStore{ttl: ttl, cleanupInterval: cleanupInterval, jobs: make(map[string]*localJob)}
}

func (s *jobStore) set(j *localJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.id] = j
}

func (s *jobStore) get(id string) (*localJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}

func (s *jobStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

func (s *jobStore) maybeCleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return 0
	}
	s.lastCleanup = now
	removed := 0
	for id, j := range s.jobs {
		if j.expired(now, s.ttl) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

func (s *jobStore) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		j.cancel()
	}
}
