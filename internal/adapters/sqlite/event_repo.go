// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/sage/internal/ports/secondary"
)

// EventRepository implements secondary.EventRepository with SQLite.
// The events table is append-only: this type deliberately has no update or
// delete methods. SQLite serializes individual inserts, so concurrent
// writers (execution agent, signal observer) cannot lose or truncate events.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `seq, event_type, timestamp, query, agent_response, success, user_feedback, policy_version, metadata, signal_type, signal_context, conversation_id, turn_number, intent_type, user_id, created_at`

// Append durably writes a new event and fills in the assigned sequence.
func (r *EventRepository) Append(ctx context.Context, event *secondary.EventRecord) error {
	var success sql.NullInt64
	switch event.Success {
	case "true":
		success = sql.NullInt64{Int64: 1, Valid: true}
	case "false":
		success = sql.NullInt64{Int64: 0, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO events (event_type, timestamp, query, agent_response, success, user_feedback, policy_version, metadata, signal_type, signal_context, conversation_id, turn_number, intent_type, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.EventType,
		event.Timestamp,
		event.Query,
		nullable(event.AgentResponse),
		success,
		nullable(event.UserFeedback),
		event.PolicyVersion,
		nullable(event.MetadataJSON),
		nullable(event.SignalType),
		nullable(event.SignalContext),
		nullable(event.ConversationID),
		nullableInt(event.TurnNumber),
		nullable(event.IntentType),
		nullable(event.UserID),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read event sequence: %w", err)
	}
	event.Seq = seq

	return nil
}

// ListAll retrieves all events in append order.
func (r *EventRepository) ListAll(ctx context.Context) ([]*secondary.EventRecord, error) {
	return r.list(ctx, "")
}

// ListSince retrieves events with timestamp strictly greater than the given
// timestamp. Ties on equal timestamps are broken by append order.
func (r *EventRepository) ListSince(ctx context.Context, timestamp string) ([]*secondary.EventRecord, error) {
	return r.list(ctx, timestamp)
}

func (r *EventRepository) list(ctx context.Context, since string) ([]*secondary.EventRecord, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}

	if since != "" {
		query += " WHERE timestamp > ?"
		args = append(args, since)
	}

	query += " ORDER BY timestamp ASC, seq ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		record, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, record)
	}

	return events, rows.Err()
}

// Count returns the total number of events in the log.
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func scanEvent(rows *sql.Rows) (*secondary.EventRecord, error) {
	var (
		agentResponse  sql.NullString
		success        sql.NullInt64
		userFeedback   sql.NullString
		metadata       sql.NullString
		signalType     sql.NullString
		signalContext  sql.NullString
		conversationID sql.NullString
		turnNumber     sql.NullInt64
		intentType     sql.NullString
		userID         sql.NullString
		createdAt      time.Time
	)

	record := &secondary.EventRecord{}
	err := rows.Scan(
		&record.Seq,
		&record.EventType,
		&record.Timestamp,
		&record.Query,
		&agentResponse,
		&success,
		&userFeedback,
		&record.PolicyVersion,
		&metadata,
		&signalType,
		&signalContext,
		&conversationID,
		&turnNumber,
		&intentType,
		&userID,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	record.AgentResponse = agentResponse.String
	if success.Valid {
		if success.Int64 == 1 {
			record.Success = "true"
		} else {
			record.Success = "false"
		}
	}
	record.UserFeedback = userFeedback.String
	record.MetadataJSON = metadata.String
	record.SignalType = signalType.String
	record.SignalContext = signalContext.String
	record.ConversationID = conversationID.String
	record.TurnNumber = int(turnNumber.Int64)
	record.IntentType = intentType.String
	record.UserID = userID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

// Ensure EventRepository implements the interface
var _ secondary.EventRepository = (*EventRepository)(nil)
