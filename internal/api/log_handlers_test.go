package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitflow/habitflow-server/internal/domain"
)

func TestToggleLog_CreateThenFlip(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	habitID := ts.createTestHabit(t, token, "Stretch", nil)

	day := domain.DayKey(domain.NormalizeDay(time.Now()))

	// First toggle creates a completed log.
	resp := ts.api.Post("/api/v1/logs/toggle", bearer(token), map[string]any{
		"habit_id": habitID,
		"date":     day,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ToggleResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Log.Completed)
	assert.Equal(t, day, envelope.Data.Log.Date)
	assert.Equal(t, "Stretch", envelope.Data.HabitName)
	assert.Equal(t, "Habit completed!", envelope.Data.Message)
	logID := envelope.Data.Log.ID

	// Second toggle flips the same row back.
	resp = ts.api.Post("/api/v1/logs/toggle", bearer(token), map[string]any{
		"habit_id": habitID,
		"date":     day,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Log.Completed)
	assert.Equal(t, "Habit unchecked", envelope.Data.Message)
	assert.Equal(t, logID, envelope.Data.Log.ID)
}

func TestToggleLog_DefaultsToToday(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	habitID := ts.createTestHabit(t, token, "Floss", nil)

	resp := ts.api.Post("/api/v1/logs/toggle", bearer(token), map[string]any{
		"habit_id": habitID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ToggleResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, domain.DayKey(domain.NormalizeDay(time.Now())), envelope.Data.Log.Date)
}

func TestToggleLog_UnknownHabit(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")

	resp := ts.api.Post("/api/v1/logs/toggle", bearer(token), map[string]any{
		"habit_id": "habit-missing",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestToggleLog_InvalidDate(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	habitID := ts.createTestHabit(t, token, "Walk", nil)

	resp := ts.api.Post("/api/v1/logs/toggle", bearer(token), map[string]any{
		"habit_id": habitID,
		"date":     "April 10th",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBulkUpsertLogs_ItemFailuresAreIsolated(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	readID := ts.createTestHabit(t, token, "Read", nil)
	runID := ts.createTestHabit(t, token, "Run", nil)

	resp := ts.api.Put("/api/v1/logs/bulk", bearer(token), map[string]any{
		"updates": []map[string]any{
			{"habit_id": readID, "date": "2026-04-01", "completed": true},
			{"habit_id": "habit-missing", "date": "2026-04-01", "completed": true},
			{"habit_id": runID, "date": "2026-04-01", "completed": false},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BulkLogResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Results, 3)

	assert.Empty(t, envelope.Data.Results[0].Error)
	require.NotNil(t, envelope.Data.Results[0].Log)
	assert.True(t, envelope.Data.Results[0].Log.Completed)

	assert.NotEmpty(t, envelope.Data.Results[1].Error)
	assert.Nil(t, envelope.Data.Results[1].Log)

	// A completed=false item still creates its row.
	assert.Empty(t, envelope.Data.Results[2].Error)
	require.NotNil(t, envelope.Data.Results[2].Log)
	assert.False(t, envelope.Data.Results[2].Log.Completed)
}

func TestBulkUpsertLogs_SetsStateDirectly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	habitID := ts.createTestHabit(t, token, "Write", nil)

	body := map[string]any{
		"updates": []map[string]any{
			{"habit_id": habitID, "date": "2026-04-02", "completed": true},
		},
	}

	// Replaying the same batch is idempotent, unlike toggle.
	for i := 0; i < 2; i++ {
		resp := ts.api.Put("/api/v1/logs/bulk", bearer(token), body)
		require.Equal(t, http.StatusOK, resp.Code)

		var envelope testEnvelope[BulkLogResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.Len(t, envelope.Data.Results, 1)
		require.NotNil(t, envelope.Data.Results[0].Log)
		assert.True(t, envelope.Data.Results[0].Log.Completed)
	}
}

func TestListHabitLogs_NewestFirstWithRangeAndLimit(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	habitID := ts.createTestHabit(t, token, "Swim", nil)

	updates := []map[string]any{
		{"habit_id": habitID, "date": "2026-04-01", "completed": true},
		{"habit_id": habitID, "date": "2026-04-02", "completed": true},
		{"habit_id": habitID, "date": "2026-04-03", "completed": true},
	}
	resp := ts.api.Put("/api/v1/logs/bulk", bearer(token), map[string]any{"updates": updates})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/logs/habit/"+habitID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListLogsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Logs, 3)
	assert.Equal(t, "2026-04-03", envelope.Data.Logs[0].Date)
	assert.Equal(t, "2026-04-01", envelope.Data.Logs[2].Date)

	// Bounded range.
	resp = ts.api.Get("/api/v1/logs/habit/"+habitID+"?start_date=2026-04-02&end_date=2026-04-03", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Logs, 2)

	// Limit trims from the old end.
	resp = ts.api.Get("/api/v1/logs/habit/"+habitID+"?limit=1", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Logs, 1)
	assert.Equal(t, "2026-04-03", envelope.Data.Logs[0].Date)
}

func TestListHabitLogs_UnknownHabit(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")

	resp := ts.api.Get("/api/v1/logs/habit/habit-missing", bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListLogsForDate(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	readID := ts.createTestHabit(t, token, "Read", nil)
	runID := ts.createTestHabit(t, token, "Run", nil)

	resp := ts.api.Put("/api/v1/logs/bulk", bearer(token), map[string]any{
		"updates": []map[string]any{
			{"habit_id": readID, "date": "2026-04-05", "completed": true},
			{"habit_id": runID, "date": "2026-04-05", "completed": true},
			{"habit_id": readID, "date": "2026-04-06", "completed": true},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/logs/date/2026-04-05", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[LogsForDateResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "2026-04-05", envelope.Data.Date)
	assert.Len(t, envelope.Data.Logs, 2)
}

func TestListLogs_FullHistoryNewestFirst(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.createTestUser(t, "logs@example.com")
	habitID := ts.createTestHabit(t, token, "Journal", nil)

	resp := ts.api.Put("/api/v1/logs/bulk", bearer(token), map[string]any{
		"updates": []map[string]any{
			{"habit_id": habitID, "date": "2026-03-30", "completed": true},
			{"habit_id": habitID, "date": "2026-04-01", "completed": true},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/logs", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListLogsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Logs, 2)
	assert.Equal(t, "2026-04-01", envelope.Data.Logs[0].Date)
	assert.Equal(t, "2026-03-30", envelope.Data.Logs[1].Date)
}
