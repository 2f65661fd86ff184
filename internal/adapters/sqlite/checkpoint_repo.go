package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/sage/internal/ports/secondary"
)

// CheckpointRepository implements secondary.CheckpointRepository with SQLite.
// The checkpoint is a single row owned exclusively by the learning loop.
type CheckpointRepository struct {
	db *sql.DB
}

// NewCheckpointRepository creates a new SQLite checkpoint repository.
func NewCheckpointRepository(db *sql.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Get retrieves the checkpoint, creating the zero record on first access.
func (r *CheckpointRepository) Get(ctx context.Context) (*secondary.CheckpointRecord, error) {
	record, err := r.get(ctx)
	if err == nil {
		return record, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO checkpoint (id, last_processed_timestamp, lessons_learned) VALUES (1, NULL, 0)",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}

	record, err = r.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created checkpoint: %w", err)
	}
	return record, nil
}

func (r *CheckpointRepository) get(ctx context.Context) (*secondary.CheckpointRecord, error) {
	var (
		last      sql.NullString
		updatedAt time.Time
	)
	record := &secondary.CheckpointRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT last_processed_timestamp, lessons_learned, updated_at FROM checkpoint WHERE id = 1",
	).Scan(&last, &record.LessonsLearned, &updatedAt)
	if err != nil {
		return nil, err
	}
	record.LastProcessedTimestamp = last.String
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Advance sets the cursor and adds to the cumulative lessons counter in a
// single write. Called exactly once per fully processed batch.
func (r *CheckpointRepository) Advance(ctx context.Context, timestamp string, lessonsDelta int) error {
	// Ensure the row exists.
	if _, err := r.Get(ctx); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE checkpoint SET last_processed_timestamp = ?, lessons_learned = lessons_learned + ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1",
		timestamp, lessonsDelta,
	)
	if err != nil {
		return fmt.Errorf("failed to advance checkpoint: %w", err)
	}

	return nil
}

// Ensure CheckpointRepository implements the interface
var _ secondary.CheckpointRepository = (*CheckpointRepository)(nil)
