package repository

import (
	"context"
	"time"

	"github.com/user/feed-harvester/internal/entity"
)

// JobStatusRepository keeps the live status of harvest jobs.
type JobStatusRepository interface {
	// Save stores job, replacing any previous status, and expires it after ttl.
	Save(ctx context.Context, job *entity.HarvestJob, ttl time.Duration) error
	// Get returns the job with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*entity.HarvestJob, error)
}

// GroupLockRepository prevents two jobs from harvesting the same group at
// the same time.
type GroupLockRepository interface {
	// Acquire takes the lock for groupURL and reports whether it was free.
	Acquire(ctx context.Context, groupURL string, expiry time.Duration) (bool, error)
	// Release frees the lock for groupURL.
	Release(ctx context.Context, groupURL string) error
}
