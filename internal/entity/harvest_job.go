package entity

import "time"

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// HarvestJob is a harvest run requested through the API.
type HarvestJob struct {
	ID            string     `json:"id"`
	GroupURL      string     `json:"group_url"`
	Scrolls       int        `json:"scrolls"`
	Status        JobStatus  `json:"status"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	PostCount     int        `json:"post_count"`
	CommentCount  int        `json:"comment_count"`
	OutputPath    string     `json:"output_path,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// Done reports whether the job reached a terminal status.
func (j *HarvestJob) Done() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}
