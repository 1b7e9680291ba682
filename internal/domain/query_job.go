package domain

import "time"

// QueryJobState represents the lifecycle state of a remote query job.
type QueryJobState string

// Query job lifecycle states. TIMED_OUT is reached on the client side only.
const (
	QueryJobSubmitted QueryJobState = "SUBMITTED"
	QueryJobRunning   QueryJobState = "RUNNING"
	QueryJobSucceeded QueryJobState = "SUCCEEDED"
	QueryJobFailed    QueryJobState = "FAILED"
	QueryJobCancelled QueryJobState = "CANCELLED"
	QueryJobTimedOut  QueryJobState = "TIMED_OUT"
)

// Terminal reports whether the state ends the job's lifecycle.
func (s QueryJobState) Terminal() bool {
	switch s {
	case QueryJobSucceeded, QueryJobFailed, QueryJobCancelled, QueryJobTimedOut:
		return true
	}
	return false
}

// EngineTerminal reports whether the engine itself has finished the job.
func (s QueryJobState) EngineTerminal() bool {
	return s == QueryJobSucceeded || s == QueryJobFailed || s == QueryJobCancelled
}

func (s QueryJobState) rank() int {
	switch s {
	case QueryJobSubmitted:
		return 0
	case QueryJobRunning:
		return 1
	default:
		return 2
	}
}

// QueryRequest is one query to run on the engine. Empty Database and
// ResultSink fall back to the runner's defaults.
type QueryRequest struct {
	Query      string `json:"query"`
	Database   string `json:"database,omitempty"`
	ResultSink string `json:"result_sink,omitempty"`
}

// EngineStatus is what the engine reports when a job is polled.
type EngineStatus struct {
	State          QueryJobState
	Reason         string
	ResultLocation string
}

// QueryJob tracks one submitted query for the duration of a single
// execution. It is never persisted.
type QueryJob struct {
	ID             string
	QueryText      string
	Database       string
	State          QueryJobState
	ResultLocation string
	FailureReason  string
	Attempts       int
	SubmittedAt    time.Time
	CompletedAt    *time.Time
}

// NewQueryJob returns a job in the SUBMITTED state.
func NewQueryJob(id string, req QueryRequest, now time.Time) *QueryJob {
	return &QueryJob{
		ID:             id,
		QueryText:      req.Query,
		Database:       req.Database,
		State:          QueryJobSubmitted,
		ResultLocation: req.ResultSink,
		SubmittedAt:    now,
	}
}

// Advance applies a polled status. Transitions never move backwards and a
// terminal job ignores further updates. It reports whether the state changed.
func (j *QueryJob) Advance(st EngineStatus, now time.Time) bool {
	if j.State.Terminal() || st.State == "" || st.State.rank() < j.State.rank() {
		return false
	}
	if st.ResultLocation != "" {
		j.ResultLocation = st.ResultLocation
	}
	if st.State == j.State {
		return false
	}
	j.State = st.State
	if st.State == QueryJobFailed || st.State == QueryJobCancelled {
		j.FailureReason = st.Reason
	}
	if st.State.Terminal() {
		j.CompletedAt = &now
	}
	return true
}

// TimeOut marks a job whose poll budget ran out.
func (j *QueryJob) TimeOut(now time.Time) {
	if j.State.Terminal() {
		return
	}
	j.State = QueryJobTimedOut
	j.CompletedAt = &now
}
