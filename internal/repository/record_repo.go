package repository

import (
	"context"

	"github.com/user/feed-harvester/internal/entity"
)

// RecordRepository stores the final result set of a harvest job.
type RecordRepository interface {
	// SaveRecords replaces the stored records of jobID, keeping their order.
	SaveRecords(ctx context.Context, jobID string, records []entity.Record) error
	// FindByJob returns the records of jobID in result set order.
	FindByJob(ctx context.Context, jobID string) ([]entity.Record, error)
}

// RunRepository keeps a durable summary of every harvest job.
type RunRepository interface {
	// SaveRun creates or updates the summary of job.
	SaveRun(ctx context.Context, job *entity.HarvestJob) error
	// FindRun returns the summary of the job with the given id, or ErrNotFound.
	FindRun(ctx context.Context, id string) (*entity.HarvestJob, error)
	// ListRecent returns the most recently submitted jobs.
	ListRecent(ctx context.Context, limit int) ([]*entity.HarvestJob, error)
}
