package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/sage/internal/ports/secondary"
)

// SignalPatternRepository implements secondary.SignalPatternRepository with
// SQLite. This store belongs to the signal observer and is independent of
// the policy store.
type SignalPatternRepository struct {
	db *sql.DB
}

// NewSignalPatternRepository creates a new SQLite signal pattern repository.
func NewSignalPatternRepository(db *sql.DB) *SignalPatternRepository {
	return &SignalPatternRepository{db: db}
}

// Upsert increments the occurrence count for (signal_type, signal_context)
// and returns the new count.
func (r *SignalPatternRepository) Upsert(ctx context.Context, signalType, signalContext, lastSeen string) (int, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO signal_patterns (signal_type, signal_context, occurrence_count, last_seen)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT(signal_type, signal_context) DO UPDATE SET
			occurrence_count = occurrence_count + 1,
			last_seen = excluded.last_seen`,
		signalType, signalContext, lastSeen,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert signal pattern: %w", err)
	}

	var count int
	err = r.db.QueryRowContext(ctx,
		"SELECT occurrence_count FROM signal_patterns WHERE signal_type = ? AND signal_context = ?",
		signalType, signalContext,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to read signal pattern count: %w", err)
	}

	return count, nil
}

// List retrieves all observed patterns, highest occurrence first.
func (r *SignalPatternRepository) List(ctx context.Context) ([]*secondary.SignalPatternRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, signal_type, signal_context, occurrence_count, last_seen FROM signal_patterns ORDER BY occurrence_count DESC, last_seen DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list signal patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*secondary.SignalPatternRecord
	for rows.Next() {
		record := &secondary.SignalPatternRecord{}
		err := rows.Scan(&record.ID, &record.SignalType, &record.SignalContext, &record.OccurrenceCount, &record.LastSeen)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal pattern: %w", err)
		}
		patterns = append(patterns, record)
	}

	return patterns, rows.Err()
}

// Ensure SignalPatternRepository implements the interface
var _ secondary.SignalPatternRepository = (*SignalPatternRepository)(nil)
