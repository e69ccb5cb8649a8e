package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/store"
)

const logColumns = `id, created_at, updated_at, deleted_at,
	habit_id, user_id, date, completed, notes, completed_at`

func scanLog(scanner interface{ Scan(dest ...any) error }) (*domain.CompletionLog, error) {
	var l domain.CompletionLog
	var createdAt, updatedAt, date string
	var deletedAt, completedAt sql.NullString
	var completed int

	err := scanner.Scan(
		&l.ID, &createdAt, &updatedAt, &deletedAt,
		&l.HabitID, &l.UserID, &date, &completed, &l.Notes, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if l.DeletedAt, err = parseNullableTime(deletedAt); err != nil {
		return nil, err
	}
	if l.Date, err = parseDay(date); err != nil {
		return nil, err
	}
	if l.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, err
	}
	l.Completed = completed != 0
	return &l, nil
}

func (s *Store) CreateLog(ctx context.Context, log *domain.CompletionLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO completion_logs (id, created_at, updated_at, deleted_at,
			habit_id, user_id, date, completed, notes, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, formatTime(log.CreatedAt), formatTime(log.UpdatedAt), nullTimeString(log.DeletedAt),
		log.HabitID, log.UserID, formatDay(log.Date),
		boolToInt(log.Completed), log.Notes, nullTimeString(log.CompletedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("log already exists for this day")
	}
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	return nil
}

func (s *Store) GetLog(ctx context.Context, id string) (*domain.CompletionLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+logColumns+` FROM completion_logs WHERE id = ?`, id)
	log, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("log %q not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	return log, nil
}

func (s *Store) GetLogForDay(ctx context.Context, userID, habitID string, day time.Time) (*domain.CompletionLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+logColumns+` FROM completion_logs
		WHERE user_id = ? AND habit_id = ? AND date = ?`,
		userID, habitID, formatDay(day))
	log, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("no log for this day")
	}
	if err != nil {
		return nil, fmt.Errorf("get log for day: %w", err)
	}
	return log, nil
}

func (s *Store) UpdateLog(ctx context.Context, log *domain.CompletionLog) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE completion_logs SET
			updated_at = ?, deleted_at = ?,
			completed = ?, notes = ?, completed_at = ?
		WHERE id = ?`,
		formatTime(log.UpdatedAt), nullTimeString(log.DeletedAt),
		boolToInt(log.Completed), log.Notes, nullTimeString(log.CompletedAt),
		log.ID,
	)
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	return checkRowsAffected(res, "log", log.ID)
}

func (s *Store) DeleteLog(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM completion_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return checkRowsAffected(res, "log", id)
}

// listLogs runs a filtered query with an optional day range. The date
// column is a YYYY-MM-DD string, so range bounds are plain comparisons.
func (s *Store) listLogs(ctx context.Context, where string, args []any, from, to time.Time) ([]*domain.CompletionLog, error) {
	query := `SELECT ` + logColumns + ` FROM completion_logs WHERE ` + where + ` AND deleted_at IS NULL`
	if !from.IsZero() {
		query += ` AND date >= ?`
		args = append(args, formatDay(from))
	}
	if !to.IsZero() {
		query += ` AND date <= ?`
		args = append(args, formatDay(to))
	}
	query += ` ORDER BY date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.CompletionLog
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (s *Store) ListLogsByUser(ctx context.Context, userID string, from, to time.Time) ([]*domain.CompletionLog, error) {
	return s.listLogs(ctx, `user_id = ?`, []any{userID}, from, to)
}

func (s *Store) ListLogsByHabit(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CompletionLog, error) {
	return s.listLogs(ctx, `habit_id = ?`, []any{habitID}, from, to)
}

func (s *Store) ListLogsForDay(ctx context.Context, userID string, day time.Time) ([]*domain.CompletionLog, error) {
	d := formatDay(day)
	return s.listLogs(ctx, `user_id = ? AND date = ?`, []any{userID, d}, time.Time{}, time.Time{})
}
