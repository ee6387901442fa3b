package response

import (
	"time"

	"github.com/user/feed-harvester/internal/entity"
)

type SubmitHarvestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// HarvestStatusResponse is a DTO for job status, mirroring entity.HarvestJob
type HarvestStatusResponse struct {
	JobID         string     `json:"job_id"`
	GroupURL      string     `json:"group_url"`
	Status        string     `json:"status"` // "pending", "running", "completed", "failed"
	Scrolls       int        `json:"scrolls"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	PostCount     int        `json:"post_count"`
	CommentCount  int        `json:"comment_count"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

func NewHarvestStatus(job *entity.HarvestJob) HarvestStatusResponse {
	return HarvestStatusResponse{
		JobID:         job.ID,
		GroupURL:      job.GroupURL,
		Status:        string(job.Status),
		Scrolls:       job.Scrolls,
		SubmittedAt:   job.SubmittedAt,
		StartedAt:     job.StartedAt,
		FinishedAt:    job.FinishedAt,
		PostCount:     job.PostCount,
		CommentCount:  job.CommentCount,
		FailureReason: job.FailureReason,
	}
}
