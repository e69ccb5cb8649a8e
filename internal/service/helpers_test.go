package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/logger"
	"github.com/habitflow/habitflow-server/internal/store"
	"github.com/habitflow/habitflow-server/internal/store/sqlite"
)

type testEnv struct {
	store  store.Store
	habits *HabitService
	logs   *LogService
	stats  *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.Open(dbPath, logger.New(logger.Config{Writer: io.Discard, Format: "json"}))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	habits := NewHabitService(st, log)
	logs := NewLogService(st, habits, log)
	stats := NewStatsService(st, habits, log)

	return &testEnv{store: st, habits: habits, logs: logs, stats: stats}
}

func (e *testEnv) createUser(t *testing.T, id string) {
	t.Helper()
	user := &domain.User{
		Syncable: domain.Syncable{ID: id},
		Email:    id + "@example.com",
		Role:     domain.RoleMember,
	}
	user.InitTimestamps()
	require.NoError(t, e.store.CreateUser(context.Background(), user))
}

func (e *testEnv) createHabit(t *testing.T, userID, name string) *domain.Habit {
	t.Helper()
	habit, err := e.habits.CreateHabit(context.Background(), userID, CreateHabitRequest{Name: name})
	require.NoError(t, err)
	return habit
}

// completeOn writes a completed log for the given day key directly,
// bypassing the toggle path, so tests can lay out arbitrary histories.
func (e *testEnv) completeOn(t *testing.T, userID, habitID, dayKey string) {
	t.Helper()
	day, err := domain.ParseDayKey(dayKey)
	require.NoError(t, err)

	log := &domain.CompletionLog{
		Syncable: domain.Syncable{ID: "log-" + habitID + "-" + dayKey},
		HabitID:  habitID,
		UserID:   userID,
		Date:     day,
	}
	log.InitTimestamps()
	log.MarkCompleted()
	require.NoError(t, e.store.CreateLog(context.Background(), log))
}

func mustDay(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := domain.ParseDayKey(key)
	require.NoError(t, err)
	return d
}
