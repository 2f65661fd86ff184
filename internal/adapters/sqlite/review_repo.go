package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/sage/internal/ports/secondary"
)

// ReviewRepository implements secondary.ReviewRepository with SQLite.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new SQLite review queue repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review item. New items are always pending.
func (r *ReviewRepository) Create(ctx context.Context, review *secondary.ReviewRecord) error {
	status := review.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (id, kind, content, status) VALUES (?, ?, ?, ?)",
		review.ID, review.Kind, review.ContentJSON, status,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

const reviewColumns = `id, kind, content, status, reviewer_notes, created_at, decided_at`

// GetByID retrieves a review item by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*secondary.ReviewRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id,
	)

	record, err := scanReviewRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return record, nil
}

// List retrieves review items matching the given filters, newest first.
func (r *ReviewRepository) List(ctx context.Context, filters secondary.ReviewFilters) ([]*secondary.ReviewRecord, error) {
	query := "SELECT " + reviewColumns + " FROM reviews WHERE 1=1"
	args := []any{}

	if filters.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filters.Kind)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*secondary.ReviewRecord
	for rows.Next() {
		record, err := scanReviewRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, record)
	}

	return reviews, rows.Err()
}

// UpdateStatus sets the status, reviewer notes, and decision timestamp.
// Transition validity is the service layer's responsibility.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id, status, notes string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET status = ?, reviewer_notes = ?, decided_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, nullable(notes), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("review %s not found", id)
	}

	return nil
}

// CountByStatus returns how many review items have the given status.
func (r *ReviewRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE status = ?", status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// GetNextID returns the next available review ID.
func (r *ReviewRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("REV-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM reviews", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next review ID: %w", err)
	}

	return fmt.Sprintf("REV-%03d", maxID+1), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewRow(row rowScanner) (*secondary.ReviewRecord, error) {
	var (
		notes     sql.NullString
		createdAt time.Time
		decidedAt sql.NullTime
	)

	record := &secondary.ReviewRecord{}
	err := row.Scan(&record.ID, &record.Kind, &record.ContentJSON, &record.Status, &notes, &createdAt, &decidedAt)
	if err != nil {
		return nil, err
	}

	record.ReviewerNotes = notes.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	if decidedAt.Valid {
		record.DecidedAt = decidedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Ensure ReviewRepository implements the interface
var _ secondary.ReviewRepository = (*ReviewRepository)(nil)
