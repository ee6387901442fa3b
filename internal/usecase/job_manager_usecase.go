package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/repository"
	"github.com/user/feed-harvester/pkg/metrics"
	"github.com/user/feed-harvester/pkg/utils"
)

var (
	ErrJobNotFound     = errors.New("harvest job not found")
	ErrJobNotFinished  = errors.New("harvest job has not finished yet")
	ErrInvalidGroupURL = utils.ErrInvalidGroupURL
	ErrInvalidScrolls  = errors.New("scroll budget must not be negative")
)

// JobManager defines the interface for submitting harvest jobs and checking
// on them.
type JobManager interface {
	// Submit queues a harvest of groupURL. A nil scrolls uses the default budget.
	Submit(ctx context.Context, groupURL string, scrolls *int) (*entity.HarvestJob, error)
	GetStatus(ctx context.Context, id string) (*entity.HarvestJob, error)
	// Records returns the result set of a finished job.
	Records(ctx context.Context, id string) ([]entity.Record, error)
}

type JobManagerConfig struct {
	DefaultScrolls int
	StatusTTL      time.Duration
}

type jobManagerUseCase struct {
	queueRepo  repository.QueueRepository
	statusRepo repository.JobStatusRepository
	runRepo    repository.RunRepository
	recordRepo repository.RecordRepository
	cfg        JobManagerConfig
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewJobManager creates a new JobManager use case.
func NewJobManager(
	queueRepo repository.QueueRepository,
	statusRepo repository.JobStatusRepository,
	runRepo repository.RunRepository,
	recordRepo repository.RecordRepository,
	cfg JobManagerConfig,
	m *metrics.Metrics,
) JobManager {
	return &jobManagerUseCase{
		queueRepo:  queueRepo,
		statusRepo: statusRepo,
		runRepo:    runRepo,
		recordRepo: recordRepo,
		cfg:        cfg,
		metrics:    m,
		now:        time.Now,
	}
}

func (uc *jobManagerUseCase) Submit(ctx context.Context, groupURL string, scrolls *int) (*entity.HarvestJob, error) {
	normalized, err := utils.NormalizeGroupURL(groupURL)
	if err != nil {
		return nil, err
	}
	budget := uc.cfg.DefaultScrolls
	if scrolls != nil {
		budget = *scrolls
	}
	if budget < 0 {
		return nil, ErrInvalidScrolls
	}

	now := uc.now().UTC()
	job := &entity.HarvestJob{
		ID:          utils.NewJobID(normalized, now),
		GroupURL:    normalized,
		Scrolls:     budget,
		Status:      entity.JobPending,
		SubmittedAt: now,
	}

	// The run row must exist before any record references it.
	if err := uc.runRepo.SaveRun(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record job %s: %w", job.ID, err)
	}
	if err := uc.statusRepo.Save(ctx, job, uc.cfg.StatusTTL); err != nil {
		return nil, fmt.Errorf("failed to store status of job %s: %w", job.ID, err)
	}
	if err := uc.queueRepo.Push(ctx, job.ID); err != nil {
		return nil, fmt.Errorf("failed to queue job %s: %w", job.ID, err)
	}

	if size, err := uc.queueRepo.Size(ctx); err == nil {
		uc.metrics.SetQueueSize(size)
	}
	slog.Info("Harvest job queued", "job_id", job.ID, "url", job.GroupURL, "scrolls", job.Scrolls)
	return job, nil
}

// GetStatus prefers the live status and falls back to the durable summary
// once the live entry has expired.
func (uc *jobManagerUseCase) GetStatus(ctx context.Context, id string) (*entity.HarvestJob, error) {
	job, err := uc.statusRepo.Get(ctx, id)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		slog.Warn("Failed to read live job status", "job_id", id, "error", err)
	}

	job, err = uc.runRepo.FindRun(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job %s: %w", id, err)
	}
	return job, nil
}

func (uc *jobManagerUseCase) Records(ctx context.Context, id string) ([]entity.Record, error) {
	job, err := uc.GetStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.Done() {
		return nil, ErrJobNotFinished
	}
	records, err := uc.recordRepo.FindByJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load records of job %s: %w", id, err)
	}
	return records, nil
}
