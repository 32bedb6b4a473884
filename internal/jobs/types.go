package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/wealthsense/internal/domain"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeRefreshInsight asks the model for a fresh spending insight.
	JobTypeRefreshInsight JobType = "refresh_insight"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// ErrJobNotFound is returned by JobStore lookups for unknown ids.
var ErrJobNotFound = errors.New("job not found")

// RefreshInsightJob represents one asynchronous insight refresh.
type RefreshInsightJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// TransactionCount is the history length when the job was queued.
	TransactionCount int `json:"transaction_count"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// Insight is set once the job completed.
	Insight *domain.SpendingInsight `json:"insight,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *RefreshInsightJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *RefreshInsightJob) GetType() JobType {
	return JobTypeRefreshInsight
}

// GetStatus implements the Job interface.
func (j *RefreshInsightJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher enqueues jobs.
type Publisher interface {
	// PublishRefreshInsight enqueues an insight refresh.
	PublishRefreshInsight(ctx context.Context, job *RefreshInsightJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes a job. A returned error marks the job failed, or
// retrying when retries remain.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state for status polling.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *RefreshInsightJob) error

	// GetJob retrieves a job by ID. Unknown ids return ErrJobNotFound.
	GetJob(ctx context.Context, jobID string) (*RefreshInsightJob, error)

	// ListJobs retrieves jobs newest first with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*RefreshInsightJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
