package db

// SchemaSQL is the complete schema for fresh sage installs.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All repository
// tests load it via GetSchemaSQL() so that test databases can never drift from
// what production creates. Do not hardcode CREATE TABLE statements in tests.
const SchemaSQL = `
-- Telemetry events (append-only execution log)
-- seq is the append-order tiebreaker for equal timestamps. Rows are never
-- updated or deleted.
CREATE TABLE IF NOT EXISTS events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL CHECK(event_type IN ('task_start', 'task_complete', 'signal_undo', 'signal_abandonment', 'signal_acceptance')),
	timestamp TEXT NOT NULL,
	query TEXT NOT NULL DEFAULT '',
	agent_response TEXT,
	success INTEGER,
	user_feedback TEXT,
	policy_version INTEGER NOT NULL DEFAULT 0,
	metadata TEXT,
	signal_type TEXT,
	signal_context TEXT,
	conversation_id TEXT,
	turn_number INTEGER,
	intent_type TEXT,
	user_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp, seq);

-- Policy (single current row, id always 1)
CREATE TABLE IF NOT EXISTS policy (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	version INTEGER NOT NULL,
	instructions TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Policy mutation history (one row per accepted mutation)
CREATE TABLE IF NOT EXISTS policy_history (
	version INTEGER PRIMARY KEY,
	critique TEXT NOT NULL,
	query TEXT,
	response TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Safety corrections (upsert keyed on task_pattern + user scope)
CREATE TABLE IF NOT EXISTS safety_corrections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_pattern TEXT NOT NULL,
	failure_description TEXT NOT NULL,
	correction TEXT NOT NULL,
	user_id TEXT NOT NULL DEFAULT '',
	occurrence_count INTEGER NOT NULL DEFAULT 1,
	timestamp TEXT NOT NULL,
	UNIQUE(task_pattern, user_id)
);

-- Per-user preferences (upsert keyed on user + key)
CREATE TABLE IF NOT EXISTS user_preferences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	preference_key TEXT NOT NULL,
	preference_value TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority INTEGER NOT NULL CHECK(priority BETWEEN 1 AND 10),
	timestamp TEXT NOT NULL,
	UNIQUE(user_id, preference_key)
);

-- Review queue (human-in-the-loop gate)
CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL CHECK(kind IN ('design_check', 'strategic_sample', 'policy_review')),
	content TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'approved', 'rejected')) DEFAULT 'pending',
	reviewer_notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	decided_at DATETIME
);

-- Learning loop checkpoint (single row, id always 1)
CREATE TABLE IF NOT EXISTS checkpoint (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	last_processed_timestamp TEXT,
	lessons_learned INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Signal observer pattern store (independent of the learning loop)
CREATE TABLE IF NOT EXISTS signal_patterns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	signal_type TEXT NOT NULL,
	signal_context TEXT NOT NULL DEFAULT '',
	occurrence_count INTEGER NOT NULL DEFAULT 1,
	last_seen TEXT NOT NULL,
	UNIQUE(signal_type, signal_context)
);
`

// GetSchemaSQL returns the authoritative schema for use in tests and fresh
// database initialization.
func GetSchemaSQL() string {
	return SchemaSQL
}
