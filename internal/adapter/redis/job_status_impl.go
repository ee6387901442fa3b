package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/repository"
	"github.com/user/feed-harvester/pkg/utils"
)

const (
	jobKeyPrefix  = "harvester:job:"
	lockKeyPrefix = "harvester:active:"
)

// JobStatusRepoImpl stores job status documents as JSON strings with an expiry.
type JobStatusRepoImpl struct {
	client *redis.Client
}

func NewJobStatusRepo(client *redis.Client) *JobStatusRepoImpl {
	return &JobStatusRepoImpl{client: client}
}

func (r *JobStatusRepoImpl) Save(ctx context.Context, job *entity.HarvestJob, ttl time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	return r.client.Set(ctx, jobKeyPrefix+job.ID, data, ttl).Err()
}

func (r *JobStatusRepoImpl) Get(ctx context.Context, id string) (*entity.HarvestJob, error) {
	data, err := r.client.Get(ctx, jobKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var job entity.HarvestJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return &job, nil
}

// GroupLockRepoImpl marks group URLs under harvest with short-lived keys.
type GroupLockRepoImpl struct {
	client *redis.Client
}

func NewGroupLockRepo(client *redis.Client) *GroupLockRepoImpl {
	return &GroupLockRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *GroupLockRepoImpl) generateKey(url string) string {
	return lockKeyPrefix + utils.HashURL(url)
}

// Acquire sets the lock key only if it does not exist yet. The expiry bounds
// how long a crashed worker can hold a group.
func (r *GroupLockRepoImpl) Acquire(ctx context.Context, groupURL string, expiry time.Duration) (bool, error) {
	return r.client.SetNX(ctx, r.generateKey(groupURL), "1", expiry).Result()
}

func (r *GroupLockRepoImpl) Release(ctx context.Context, groupURL string) error {
	return r.client.Del(ctx, r.generateKey(groupURL)).Err()
}
