// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests always run against
// the authoritative schema. Do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/sage/internal/db"
	"github.com/example/sage/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedEvent inserts a test event and returns its timestamp.
func seedEvent(t *testing.T, db *sql.DB, eventType, timestamp, query string) string {
	t.Helper()
	if eventType == "" {
		eventType = "task_complete"
	}
	if timestamp == "" {
		timestamp = "2026-01-02T10:00:00Z"
	}
	_, err := db.Exec(
		"INSERT INTO events (event_type, timestamp, query, policy_version) VALUES (?, ?, ?, 1)",
		eventType, timestamp, query,
	)
	if err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	return timestamp
}

// seedReview inserts a test review item and returns its ID.
func seedReview(t *testing.T, db *sql.DB, id, kind, status string) string {
	t.Helper()
	if id == "" {
		id = "REV-001"
	}
	if kind == "" {
		kind = "policy_review"
	}
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec(
		"INSERT INTO reviews (id, kind, content, status) VALUES (?, ?, '{}', ?)",
		id, kind, status,
	)
	if err != nil {
		t.Fatalf("failed to seed review: %v", err)
	}
	return id
}

// mustRecordCorrection records a correction or fails the test.
func mustRecordCorrection(t *testing.T, repo secondary.SafetyRepository, pattern, desc, correction, userID string) {
	t.Helper()
	if err := repo.RecordCorrection(context.Background(), pattern, desc, correction, userID); err != nil {
		t.Fatalf("failed to record correction: %v", err)
	}
}
