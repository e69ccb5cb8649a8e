package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/habitflow/habitflow-server/internal/domain"
	domainerrors "github.com/habitflow/habitflow-server/internal/errors"
	"github.com/habitflow/habitflow-server/internal/id"
	"github.com/habitflow/habitflow-server/internal/store"
)

// DefaultLogLimit caps habit-history listings unless the caller asks
// for a different page size.
const DefaultLogLimit = 100

// LogService owns completion records: the toggle write path, bulk
// upserts from offline clients, and history reads.
type LogService struct {
	store  store.Store
	habits *HabitService
	logger *slog.Logger
}

// NewLogService creates a new completion log service.
func NewLogService(store store.Store, habits *HabitService, logger *slog.Logger) *LogService {
	return &LogService{store: store, habits: habits, logger: logger}
}

// ToggleResult pairs the toggled log with its habit for response
// building.
type ToggleResult struct {
	Log   *domain.CompletionLog
	Habit *domain.Habit
}

// Toggle flips the completion state of one habit on one day. A missing
// record is created as completed; an existing one has its boolean
// flipped. The zero date means today.
//
// Two clients toggling the same day race through the store's unique
// index: the loser's insert comes back ErrAlreadyExists and is retried
// as a re-read and flip, so the conflict never reaches the caller.
func (s *LogService) Toggle(ctx context.Context, userID, habitID string, date time.Time, notes string) (*ToggleResult, error) {
	habit, err := s.habits.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}
	day := domain.NormalizeDay(date)

	log, err := s.store.GetLogForDay(ctx, userID, habitID, day)
	switch {
	case err == nil:
		s.flip(log, notes)
		if err := s.store.UpdateLog(ctx, log); err != nil {
			return nil, fmt.Errorf("update log: %w", err)
		}
	case store.IsNotFound(err):
		log, err = s.createToggled(ctx, userID, habitID, day, notes)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("get log for day: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("habit toggled",
			"habit_id", habitID,
			"day", domain.DayKey(day),
			"completed", log.Completed,
		)
	}
	return &ToggleResult{Log: log, Habit: habit}, nil
}

func (s *LogService) flip(log *domain.CompletionLog, notes string) {
	if log.Completed {
		log.MarkIncomplete()
	} else {
		log.MarkCompleted()
	}
	if notes != "" {
		log.Notes = notes
	}
}

// createToggled inserts a fresh completed log, falling back to a
// re-read and flip when a concurrent toggle won the insert race.
func (s *LogService) createToggled(ctx context.Context, userID, habitID string, day time.Time, notes string) (*domain.CompletionLog, error) {
	log, err := s.newLog(userID, habitID, day, notes)
	if err != nil {
		return nil, err
	}
	log.MarkCompleted()

	err = s.store.CreateLog(ctx, log)
	if err == nil {
		return log, nil
	}
	if !store.IsAlreadyExists(err) {
		return nil, fmt.Errorf("create log: %w", err)
	}

	// Lost the race: the row exists now, so flip it instead.
	log, err = s.store.GetLogForDay(ctx, userID, habitID, day)
	if err != nil {
		return nil, fmt.Errorf("re-read log after conflict: %w", err)
	}
	s.flip(log, notes)
	if err := s.store.UpdateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("update log after conflict: %w", err)
	}
	return log, nil
}

func (s *LogService) newLog(userID, habitID string, day time.Time, notes string) (*domain.CompletionLog, error) {
	logID, err := id.Generate("log")
	if err != nil {
		return nil, fmt.Errorf("generate log ID: %w", err)
	}
	log := &domain.CompletionLog{
		Syncable: domain.Syncable{
			ID: logID,
		},
		HabitID: habitID,
		UserID:  userID,
		Date:    day,
		Notes:   notes,
	}
	log.InitTimestamps()
	return log, nil
}

// LogUpdate is one item of a bulk upsert.
type LogUpdate struct {
	HabitID   string    `json:"habit_id" validate:"required"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes" validate:"omitempty,max=500"`
}

// BulkResult reports the outcome of one bulk upsert item.
type BulkResult struct {
	HabitID string                `json:"habit_id"`
	Date    string                `json:"date"`
	Log     *domain.CompletionLog `json:"log,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// BulkUpsert applies a batch of completion states, one find-or-create
// per item. Items fail independently; the batch itself never aborts.
// Unlike Toggle this sets the completion state directly, so replaying
// a batch is idempotent.
func (s *LogService) BulkUpsert(ctx context.Context, userID string, updates []LogUpdate) []BulkResult {
	results := make([]BulkResult, 0, len(updates))
	for _, update := range updates {
		day := domain.NormalizeDay(update.Date)
		if update.Date.IsZero() {
			day = domain.NormalizeDay(time.Now())
		}
		result := BulkResult{HabitID: update.HabitID, Date: domain.DayKey(day)}

		log, err := s.upsertOne(ctx, userID, update, day)
		if err != nil {
			result.Error = err.Error()
			if s.logger != nil {
				s.logger.Warn("bulk upsert item failed",
					"habit_id", update.HabitID,
					"day", result.Date,
					"error", err,
				)
			}
		} else {
			result.Log = log
		}
		results = append(results, result)
	}
	return results
}

func (s *LogService) upsertOne(ctx context.Context, userID string, update LogUpdate, day time.Time) (*domain.CompletionLog, error) {
	if err := validate.Validate(update); err != nil {
		return nil, err
	}
	if _, err := s.habits.GetHabit(ctx, userID, update.HabitID); err != nil {
		return nil, err
	}

	setState := func(log *domain.CompletionLog) {
		if update.Completed {
			log.MarkCompleted()
		} else {
			log.MarkIncomplete()
		}
		if update.Notes != "" {
			log.Notes = update.Notes
		}
	}

	log, err := s.store.GetLogForDay(ctx, userID, update.HabitID, day)
	if err == nil {
		setState(log)
		if err := s.store.UpdateLog(ctx, log); err != nil {
			return nil, fmt.Errorf("update log: %w", err)
		}
		return log, nil
	}
	if !store.IsNotFound(err) {
		return nil, fmt.Errorf("get log for day: %w", err)
	}

	log, err = s.newLog(userID, update.HabitID, day, update.Notes)
	if err != nil {
		return nil, err
	}
	setState(log)

	err = s.store.CreateLog(ctx, log)
	if err == nil {
		return log, nil
	}
	if !store.IsAlreadyExists(err) {
		return nil, fmt.Errorf("create log: %w", err)
	}

	// Insert race: settle on the existing row.
	log, err = s.store.GetLogForDay(ctx, userID, update.HabitID, day)
	if err != nil {
		return nil, fmt.Errorf("re-read log after conflict: %w", err)
	}
	setState(log)
	if err := s.store.UpdateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("update log after conflict: %w", err)
	}
	return log, nil
}

// LogsForHabit returns a habit's history, newest first, optionally
// bounded by [start, end] days. limit <= 0 means DefaultLogLimit.
func (s *LogService) LogsForHabit(ctx context.Context, userID, habitID string, start, end time.Time, limit int) ([]*domain.CompletionLog, error) {
	if _, err := s.habits.GetHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	logs, err := s.store.ListLogsByHabit(ctx, habitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	slices.Reverse(logs)
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// LogsForDate returns the user's logs across all habits for one day.
func (s *LogService) LogsForDate(ctx context.Context, userID string, date time.Time) ([]*domain.CompletionLog, error) {
	logs, err := s.store.ListLogsForDay(ctx, userID, domain.NormalizeDay(date))
	if err != nil {
		return nil, fmt.Errorf("list logs for day: %w", err)
	}
	return logs, nil
}

// AllLogs returns the user's full history, newest first.
func (s *LogService) AllLogs(ctx context.Context, userID string) ([]*domain.CompletionLog, error) {
	logs, err := s.store.ListLogsByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	slices.Reverse(logs)
	return logs, nil
}

// ParseDate parses an incoming day string, tolerating both bare day
// keys and RFC 3339 timestamps.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := domain.ParseDayKey(value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, domainerrors.Validationf("invalid date %q, want YYYY-MM-DD", value)
	}
	return domain.NormalizeDay(t), nil
}
