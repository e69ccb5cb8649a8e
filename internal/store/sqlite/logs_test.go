package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/store"
)

func day(s string) time.Time {
	t, err := domain.ParseDayKey(s)
	if err != nil {
		panic(err)
	}
	return t
}

func makeTestLog(id, userID, habitID string, date time.Time, completed bool) *domain.CompletionLog {
	now := time.Now()
	l := &domain.CompletionLog{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		HabitID:   habitID,
		UserID:    userID,
		Date:      date,
		Completed: completed,
	}
	if completed {
		l.CompletedAt = &now
	}
	return l
}

// seedHabit creates the user and habit rows the log foreign keys need.
func seedHabit(t *testing.T, s *Store, userID, habitID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.GetUser(ctx, userID); err != nil {
		if err := s.CreateUser(ctx, makeTestUser(userID, userID+"@example.com")); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}
	if err := s.CreateHabit(ctx, makeTestHabit(habitID, userID, "Habit "+habitID)); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
}

func TestCreateAndGetLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")

	log := makeTestLog("log-1", "user-1", "habit-1", day("2026-03-10"), true)
	log.Notes = "felt great"
	if err := s.CreateLog(ctx, log); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	got, err := s.GetLog(ctx, "log-1")
	if err != nil {
		t.Fatalf("GetLog: %v", err)
	}
	if !got.Completed {
		t.Error("Completed: expected true")
	}
	if got.Notes != "felt great" {
		t.Errorf("Notes: got %q", got.Notes)
	}
	if got.DayKey() != "2026-03-10" {
		t.Errorf("DayKey: got %q", got.DayKey())
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt: expected non-nil")
	}
}

func TestCreateLogDuplicateDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")

	d := day("2026-03-10")
	if err := s.CreateLog(ctx, makeTestLog("log-1", "user-1", "habit-1", d, true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	err := s.CreateLog(ctx, makeTestLog("log-2", "user-1", "habit-1", d, false))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// A different day for the same habit is fine.
	if err := s.CreateLog(ctx, makeTestLog("log-3", "user-1", "habit-1", day("2026-03-11"), true)); err != nil {
		t.Errorf("CreateLog next day: %v", err)
	}
}

func TestGetLogForDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")

	d := day("2026-03-10")
	if err := s.CreateLog(ctx, makeTestLog("log-1", "user-1", "habit-1", d, true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	got, err := s.GetLogForDay(ctx, "user-1", "habit-1", d)
	if err != nil {
		t.Fatalf("GetLogForDay: %v", err)
	}
	if got.ID != "log-1" {
		t.Errorf("ID: got %q", got.ID)
	}

	// An afternoon instant on the same day resolves to the same log.
	afternoon := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	got, err = s.GetLogForDay(ctx, "user-1", "habit-1", afternoon)
	if err != nil {
		t.Fatalf("GetLogForDay afternoon: %v", err)
	}
	if got.ID != "log-1" {
		t.Errorf("ID: got %q", got.ID)
	}

	_, err = s.GetLogForDay(ctx, "user-1", "habit-1", day("2026-03-11"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateLogTogglesCompletion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")

	log := makeTestLog("log-1", "user-1", "habit-1", day("2026-03-10"), true)
	if err := s.CreateLog(ctx, log); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	log.MarkIncomplete()
	if err := s.UpdateLog(ctx, log); err != nil {
		t.Fatalf("UpdateLog: %v", err)
	}

	got, err := s.GetLog(ctx, "log-1")
	if err != nil {
		t.Fatalf("GetLog: %v", err)
	}
	if got.Completed {
		t.Error("Completed: expected false after toggle")
	}
	if got.CompletedAt != nil {
		t.Error("CompletedAt: expected nil after toggle")
	}
}

func TestDeleteLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")

	if err := s.CreateLog(ctx, makeTestLog("log-1", "user-1", "habit-1", day("2026-03-10"), true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}
	if err := s.DeleteLog(ctx, "log-1"); err != nil {
		t.Fatalf("DeleteLog: %v", err)
	}
	if _, err := s.GetLog(ctx, "log-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// The day is free again after deletion.
	if err := s.CreateLog(ctx, makeTestLog("log-2", "user-1", "habit-1", day("2026-03-10"), true)); err != nil {
		t.Errorf("CreateLog after delete: %v", err)
	}
}

func TestListLogsByUserRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")
	seedHabit(t, s, "user-2", "habit-2")

	for i, d := range []string{"2026-03-08", "2026-03-09", "2026-03-10", "2026-03-11"} {
		log := makeTestLog("log-"+d, "user-1", "habit-1", day(d), i%2 == 0)
		if err := s.CreateLog(ctx, log); err != nil {
			t.Fatalf("CreateLog(%s): %v", d, err)
		}
	}
	// Another user's log must not leak into the range.
	if err := s.CreateLog(ctx, makeTestLog("log-other", "user-2", "habit-2", day("2026-03-09"), true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	logs, err := s.ListLogsByUser(ctx, "user-1", day("2026-03-09"), day("2026-03-10"))
	if err != nil {
		t.Fatalf("ListLogsByUser: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].DayKey() != "2026-03-09" || logs[1].DayKey() != "2026-03-10" {
		t.Errorf("expected ascending day order, got %q then %q", logs[0].DayKey(), logs[1].DayKey())
	}

	// Unbounded range returns everything for the user.
	logs, err = s.ListLogsByUser(ctx, "user-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListLogsByUser: %v", err)
	}
	if len(logs) != 4 {
		t.Errorf("expected 4 logs, got %d", len(logs))
	}
}

func TestListLogsByHabit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")
	if err := s.CreateHabit(ctx, makeTestHabit("habit-2", "user-1", "Other")); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	if err := s.CreateLog(ctx, makeTestLog("l1", "user-1", "habit-1", day("2026-03-10"), true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}
	if err := s.CreateLog(ctx, makeTestLog("l2", "user-1", "habit-2", day("2026-03-10"), true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	logs, err := s.ListLogsByHabit(ctx, "habit-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListLogsByHabit: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != "l1" {
		t.Errorf("expected only habit-1 logs, got %d", len(logs))
	}
}

func TestListLogsForDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")
	if err := s.CreateHabit(ctx, makeTestHabit("habit-2", "user-1", "Other")); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	if err := s.CreateLog(ctx, makeTestLog("l1", "user-1", "habit-1", day("2026-03-10"), true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}
	if err := s.CreateLog(ctx, makeTestLog("l2", "user-1", "habit-2", day("2026-03-10"), false)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}
	if err := s.CreateLog(ctx, makeTestLog("l3", "user-1", "habit-1", day("2026-03-11"), true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	logs, err := s.ListLogsForDay(ctx, "user-1", day("2026-03-10"))
	if err != nil {
		t.Fatalf("ListLogsForDay: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("expected 2 logs, got %d", len(logs))
	}
}

func TestLogCascadeOnHabitHardDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "user-1", "habit-1")

	if err := s.CreateLog(ctx, makeTestLog("l1", "user-1", "habit-1", day("2026-03-10"), true)); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	// Soft delete keeps history.
	habit, err := s.GetHabit(ctx, "habit-1")
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	habit.MarkDeleted()
	if err := s.UpdateHabit(ctx, habit); err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}
	logs, err := s.ListLogsByHabit(ctx, "habit-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListLogsByHabit: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("soft delete must keep logs, got %d", len(logs))
	}

	// A hard DELETE cascades through the foreign key.
	if _, err := s.db.Exec("DELETE FROM habits WHERE id = ?", "habit-1"); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	logs, err = s.ListLogsByHabit(ctx, "habit-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListLogsByHabit: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("cascade should remove logs, got %d", len(logs))
	}
}
