package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/feed-harvester/internal/entity"
)

// RecordRepoImpl stores result sets in the harvest_records table, one row per
// record with its columns as JSONB.
type RecordRepoImpl struct {
	db DB
}

// NewRecordRepo creates a new instance of RecordRepoImpl.
func NewRecordRepo(db DB) *RecordRepoImpl {
	return &RecordRepoImpl{db: db}
}

// SaveRecords replaces the records of jobID within a single transaction.
func (r *RecordRepoImpl) SaveRecords(ctx context.Context, jobID string, records []entity.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM harvest_records WHERE job_id = $1`, jobID); err != nil {
		return err
	}

	for i, rec := range records {
		fields, err := json.Marshal(entity.ColumnValues(rec))
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO harvest_records (job_id, position, kind, fields) VALUES ($1, $2, $3, $4)`,
			jobID, i, string(rec.Kind()), fields)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindByJob loads the records of jobID. Columns missing from the stored
// document come back absent, null columns come back null.
func (r *RecordRepoImpl) FindByJob(ctx context.Context, jobID string) ([]entity.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT kind, fields FROM harvest_records WHERE job_id = $1 ORDER BY position ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entity.Record
	for rows.Next() {
		var kind string
		var raw []byte
		if err := rows.Scan(&kind, &raw); err != nil {
			return nil, err
		}
		var stored map[string]*string
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, fmt.Errorf("failed to decode record of job %s: %w", jobID, err)
		}
		values := make(map[string]entity.Field, len(stored))
		for col, v := range stored {
			if v == nil {
				values[col] = entity.Null()
			} else {
				values[col] = entity.Text(*v)
			}
		}
		records = append(records, entity.NewRecord(entity.RecordKind(kind), values))
	}
	return records, rows.Err()
}
