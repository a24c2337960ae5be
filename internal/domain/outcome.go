package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskName identifies one of the three daily tasks.
type TaskName string

const (
	TaskSign     TaskName = "sign"
	TaskView     TaskName = "view"
	TaskQuestion TaskName = "question"
)

// AllTasks lists the tasks in execution order. The order is fixed so
// runs are reproducible.
var AllTasks = []TaskName{TaskSign, TaskView, TaskQuestion}

// ErrorKind classifies a failure so callers can surface credential
// expiry distinctly from ordinary remote errors.
type ErrorKind string

const (
	ErrKindAuthExpired      ErrorKind = "auth_expired"
	ErrKindRemoteRejected   ErrorKind = "remote_rejected"
	ErrKindHTTP             ErrorKind = "http"
	ErrKindTransport        ErrorKind = "transport"
	ErrKindProtocol         ErrorKind = "protocol"
	ErrKindConfigIncomplete ErrorKind = "config_incomplete"
	ErrKindNoArticle        ErrorKind = "no_article_available"
	ErrKindResolverAborted  ErrorKind = "resolver_aborted"
	ErrKindCancelled        ErrorKind = "cancelled"
	ErrKindOther            ErrorKind = "other"
)

// TaskResult records the fate of a single task within one run.
type TaskResult struct {
	Task      TaskName `json:"task"`
	Attempted bool     `json:"attempted"`
	Succeeded bool     `json:"succeeded"`

	// Error carries the failure message when the attempt failed, with
	// ErrorKind as its classification. Both empty on success or skip.
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

// TaskOutcome is the aggregation result for one account over one run:
// which tasks were attempted, which succeeded, which failed and why,
// and the final completion snapshot. It is the orchestrator's return
// contract and the only thing callers need to render.
type TaskOutcome struct {
	RunID        uuid.UUID   `json:"run_id"`
	AccountPhone string      `json:"account_phone"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
	Results      []TaskResult `json:"results"`

	// StatusError is set when the initial status check failed and no
	// task could be attempted.
	StatusError     string    `json:"status_error,omitempty"`
	StatusErrorKind ErrorKind `json:"status_error_kind,omitempty"`

	// FinalStatus is the pre-run flags ORed with this run's successes.
	FinalStatus TaskStatus `json:"final_status"`
}

// Result returns the recorded result for the named task, or nil if the
// run aborted before the task list was assembled.
func (o *TaskOutcome) Result(name TaskName) *TaskResult {
	for i := range o.Results {
		if o.Results[i].Task == name {
			return &o.Results[i]
		}
	}
	return nil
}

// Succeeded reports whether the named task succeeded in this run.
func (o *TaskOutcome) Succeeded(name TaskName) bool {
	r := o.Result(name)
	return r != nil && r.Succeeded
}
