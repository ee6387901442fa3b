package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/harvest"
	"github.com/user/feed-harvester/internal/repository"
	"github.com/user/feed-harvester/pkg/metrics"
)

const errGroupBusy = "group is already being harvested by another job"

// JobProcessor defines the interface for running queued harvest jobs.
type JobProcessor interface {
	// ProcessNext runs the next queued job, reporting false when the queue
	// was empty.
	ProcessNext(ctx context.Context) (bool, error)
}

type JobProcessorConfig struct {
	Options    harvest.Options
	OutputDir  string
	JobTimeout time.Duration
	StatusTTL  time.Duration
}

type jobProcessorUseCase struct {
	queueRepo  repository.QueueRepository
	statusRepo repository.JobStatusRepository
	runRepo    repository.RunRepository
	recordRepo repository.RecordRepository
	lockRepo   repository.GroupLockRepository
	harvester  Harvester
	cfg        JobProcessorConfig
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewJobProcessor creates a new instance of the job processor use case.
func NewJobProcessor(
	queueRepo repository.QueueRepository,
	statusRepo repository.JobStatusRepository,
	runRepo repository.RunRepository,
	recordRepo repository.RecordRepository,
	lockRepo repository.GroupLockRepository,
	harvester Harvester,
	cfg JobProcessorConfig,
	m *metrics.Metrics,
) JobProcessor {
	return &jobProcessorUseCase{
		queueRepo:  queueRepo,
		statusRepo: statusRepo,
		runRepo:    runRepo,
		recordRepo: recordRepo,
		lockRepo:   lockRepo,
		harvester:  harvester,
		cfg:        cfg,
		metrics:    m,
		now:        time.Now,
	}
}

func (uc *jobProcessorUseCase) ProcessNext(ctx context.Context) (bool, error) {
	jobID, err := uc.queueRepo.Pop(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrQueueEmpty) {
			// Queue is empty, which is a normal state.
			return false, nil
		}
		return false, fmt.Errorf("failed to pop job from queue: %w", err)
	}
	if size, err := uc.queueRepo.Size(ctx); err == nil {
		uc.metrics.SetQueueSize(size)
	}

	job, err := uc.loadJob(ctx, jobID)
	if err != nil {
		return true, err
	}

	acquired, err := uc.lockRepo.Acquire(ctx, job.GroupURL, uc.cfg.JobTimeout)
	if err != nil {
		return true, fmt.Errorf("failed to lock group of job %s: %w", jobID, err)
	}
	if !acquired {
		slog.Warn("Group busy, failing job", "job_id", jobID, "url", job.GroupURL)
		uc.finish(ctx, job, errors.New(errGroupBusy))
		return true, nil
	}
	defer func() {
		if err := uc.lockRepo.Release(context.WithoutCancel(ctx), job.GroupURL); err != nil {
			slog.Warn("Failed to release group lock", "job_id", jobID, "error", err)
		}
	}()

	started := uc.now().UTC()
	job.Status = entity.JobRunning
	job.StartedAt = &started
	uc.saveStatus(ctx, job)
	slog.Info("Processing harvest job", "job_id", jobID, "url", job.GroupURL)

	opts := uc.cfg.Options
	opts.Scrolls = job.Scrolls
	output := filepath.Join(uc.cfg.OutputDir, jobID+".csv")

	runCtx, cancel := context.WithTimeout(ctx, uc.cfg.JobTimeout)
	defer cancel()
	res, harvestErr := uc.harvester.Harvest(runCtx, HarvestRequest{
		GroupURL:   job.GroupURL,
		Options:    opts,
		OutputPath: output,
	})

	jobErr := harvestErr
	if res != nil {
		job.PostCount, job.CommentCount = res.Posts, res.Comments
		job.OutputPath = output
		// Without stored records the CSV download would be empty, so the job fails.
		if err := uc.recordRepo.SaveRecords(context.WithoutCancel(ctx), jobID, res.Records); err != nil {
			jobErr = errors.Join(jobErr, fmt.Errorf("failed to store job records: %w", err))
		}
	}
	uc.finish(ctx, job, jobErr)
	return true, nil
}

func (uc *jobProcessorUseCase) loadJob(ctx context.Context, id string) (*entity.HarvestJob, error) {
	job, err := uc.statusRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		job, err = uc.runRepo.FindRun(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	return job, nil
}

func (uc *jobProcessorUseCase) finish(ctx context.Context, job *entity.HarvestJob, jobErr error) {
	finished := uc.now().UTC()
	job.FinishedAt = &finished
	if jobErr != nil {
		job.Status = entity.JobFailed
		job.FailureReason = jobErr.Error()
		slog.Error("Harvest job failed", "job_id", job.ID, "error", jobErr)
	} else {
		job.Status = entity.JobCompleted
		slog.Info("Harvest job completed", "job_id", job.ID, "posts", job.PostCount, "comments", job.CommentCount)
	}
	uc.metrics.IncJobs(string(job.Status))
	uc.saveStatus(context.WithoutCancel(ctx), job)
}

// saveStatus writes both the live status and the durable summary. Failures
// are logged; the harvest itself is not affected.
func (uc *jobProcessorUseCase) saveStatus(ctx context.Context, job *entity.HarvestJob) {
	if err := uc.statusRepo.Save(ctx, job, uc.cfg.StatusTTL); err != nil {
		slog.Error("Failed to store job status", "job_id", job.ID, "error", err)
	}
	if err := uc.runRepo.SaveRun(ctx, job); err != nil {
		slog.Error("Failed to store job summary", "job_id", job.ID, "error", err)
	}
}
