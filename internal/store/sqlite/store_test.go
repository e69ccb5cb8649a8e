package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/habitflow/habitflow-server/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	log := logger.New(logger.Config{Writer: os.Stderr, Format: "json"})
	s, err := Open(dbPath, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{"users", "sessions", "habits", "completion_logs"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	log := logger.New(logger.Config{Writer: os.Stderr, Format: "json"})

	s1, err := Open(dbPath, log)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s1.Close()

	// Re-applying the schema on an existing file must not fail.
	s2, err := Open(dbPath, log)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	s2.Close()
}

func TestDayFormatRoundTrip(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	got, err := parseDay(formatDay(day))
	if err != nil {
		t.Fatalf("parseDay: %v", err)
	}
	if !got.Equal(day) {
		t.Errorf("round trip: got %v, want %v", got, day)
	}

	// Non-midnight instants collapse to their calendar day.
	evening := time.Date(2026, 3, 14, 22, 45, 0, 0, time.UTC)
	if formatDay(evening) != "2026-03-14" {
		t.Errorf("formatDay: got %s, want 2026-03-14", formatDay(evening))
	}
}
