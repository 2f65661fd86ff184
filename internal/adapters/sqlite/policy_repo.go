package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// PolicyRepository implements secondary.PolicyRepository with SQLite.
// The policy table holds exactly one row; every accepted mutation also
// appends to policy_history. Writers are serialized by the learning loop;
// readers always see the last committed version.
type PolicyRepository struct {
	db *sql.DB
}

// NewPolicyRepository creates a new SQLite policy repository.
func NewPolicyRepository(db *sql.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Current retrieves the current policy, creating the default version-1
// record on first access.
func (r *PolicyRepository) Current(ctx context.Context) (*secondary.PolicyRecord, error) {
	record, err := r.get(ctx)
	if err == nil {
		return record, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO policy (id, version, instructions) VALUES (1, 1, ?)",
		primary.DefaultInstructions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create default policy: %w", err)
	}

	record, err = r.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created policy: %w", err)
	}
	return record, nil
}

func (r *PolicyRepository) get(ctx context.Context) (*secondary.PolicyRecord, error) {
	var updatedAt time.Time
	record := &secondary.PolicyRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT version, instructions, updated_at FROM policy WHERE id = 1",
	).Scan(&record.Version, &record.Instructions, &updatedAt)
	if err != nil {
		return nil, err
	}
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// ApplyMutation atomically bumps the version by exactly 1, replaces the
// instructions, and appends a history entry. The whole mutation is one
// transaction: either everything is persisted or nothing is.
func (r *PolicyRepository) ApplyMutation(ctx context.Context, newText, critique, query, response string) (int, error) {
	// Make sure the row exists before mutating it.
	current, err := r.Current(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin mutation: %w", err)
	}
	defer tx.Rollback()

	newVersion := current.Version + 1

	result, err := tx.ExecContext(ctx,
		"UPDATE policy SET version = ?, instructions = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1 AND version = ?",
		newVersion, newText, current.Version,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update policy: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return 0, fmt.Errorf("policy version changed concurrently (expected %d)", current.Version)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO policy_history (version, critique, query, response) VALUES (?, ?, ?, ?)",
		newVersion, critique, nullable(query), nullable(response),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append policy history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit mutation: %w", err)
	}

	return newVersion, nil
}

// History retrieves all mutation entries in version order.
func (r *PolicyRepository) History(ctx context.Context) ([]*secondary.MutationEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT version, critique, query, response, created_at FROM policy_history ORDER BY version ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list policy history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.MutationEntry
	for rows.Next() {
		var (
			query     sql.NullString
			response  sql.NullString
			createdAt time.Time
		)
		entry := &secondary.MutationEntry{}
		if err := rows.Scan(&entry.Version, &entry.Critique, &query, &response, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Query = query.String
		entry.Response = response.String
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Ensure PolicyRepository implements the interface
var _ secondary.PolicyRepository = (*PolicyRepository)(nil)
