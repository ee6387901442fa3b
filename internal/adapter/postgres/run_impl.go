package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/repository"
)

const runColumns = `job_id, group_url, scrolls, status, submitted_at, started_at, finished_at,
	post_count, comment_count, output_path, failure_reason`

// RunRepoImpl provides a concrete implementation for the RunRepository interface using PostgreSQL.
type RunRepoImpl struct {
	db DB
}

// NewRunRepo creates a new instance of RunRepoImpl.
func NewRunRepo(db DB) *RunRepoImpl {
	return &RunRepoImpl{db: db}
}

// SaveRun creates or updates the summary row of a job.
func (r *RunRepoImpl) SaveRun(ctx context.Context, job *entity.HarvestJob) error {
	query := `
		INSERT INTO harvest_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (job_id) DO UPDATE SET
			status = EXCLUDED.status,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at,
			post_count = EXCLUDED.post_count,
			comment_count = EXCLUDED.comment_count,
			output_path = EXCLUDED.output_path,
			failure_reason = EXCLUDED.failure_reason;
	`
	_, err := r.db.Exec(ctx, query,
		job.ID,
		job.GroupURL,
		job.Scrolls,
		string(job.Status),
		job.SubmittedAt,
		job.StartedAt,
		job.FinishedAt,
		job.PostCount,
		job.CommentCount,
		job.OutputPath,
		job.FailureReason,
	)
	return err
}

// FindRun retrieves the summary of a single job.
func (r *RunRepoImpl) FindRun(ctx context.Context, id string) (*entity.HarvestJob, error) {
	row := r.db.QueryRow(ctx, `SELECT `+runColumns+` FROM harvest_runs WHERE job_id = $1`, id)
	job, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return job, err
}

// ListRecent retrieves the most recently submitted jobs.
func (r *RunRepoImpl) ListRecent(ctx context.Context, limit int) ([]*entity.HarvestJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+runColumns+` FROM harvest_runs ORDER BY submitted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*entity.HarvestJob
	for rows.Next() {
		job, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanRun(row pgx.Row) (*entity.HarvestJob, error) {
	var job entity.HarvestJob
	var status string
	err := row.Scan(
		&job.ID,
		&job.GroupURL,
		&job.Scrolls,
		&status,
		&job.SubmittedAt,
		&job.StartedAt,
		&job.FinishedAt,
		&job.PostCount,
		&job.CommentCount,
		&job.OutputPath,
		&job.FailureReason,
	)
	if err != nil {
		return nil, err
	}
	job.Status = entity.JobStatus(status)
	return &job, nil
}
