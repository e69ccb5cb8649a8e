package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/store"
)

const habitColumns = `id, created_at, updated_at, deleted_at,
	user_id, name, description, category, color, frequency, target_days, is_active`

func scanHabit(scanner interface{ Scan(dest ...any) error }) (*domain.Habit, error) {
	var h domain.Habit
	var createdAt, updatedAt string
	var deletedAt sql.NullString
	var category, frequency, targetDays string
	var isActive int

	err := scanner.Scan(
		&h.ID, &createdAt, &updatedAt, &deletedAt,
		&h.UserID, &h.Name, &h.Description, &category, &h.Color,
		&frequency, &targetDays, &isActive,
	)
	if err != nil {
		return nil, err
	}

	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if h.DeletedAt, err = parseNullableTime(deletedAt); err != nil {
		return nil, err
	}
	h.Category = domain.Category(category)
	h.Frequency = domain.Frequency(frequency)
	h.IsActive = isActive != 0
	if targetDays != "" && targetDays != "[]" {
		if err := json.Unmarshal([]byte(targetDays), &h.TargetDays); err != nil {
			return nil, fmt.Errorf("parse target days: %w", err)
		}
	}
	return &h, nil
}

func marshalTargetDays(days []int) (string, error) {
	if len(days) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("marshal target days: %w", err)
	}
	return string(b), nil
}

func (s *Store) CreateHabit(ctx context.Context, habit *domain.Habit) error {
	targetDays, err := marshalTargetDays(habit.TargetDays)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO habits (id, created_at, updated_at, deleted_at,
			user_id, name, description, category, color, frequency, target_days, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt), nullTimeString(habit.DeletedAt),
		habit.UserID, habit.Name, habit.Description, string(habit.Category), habit.Color,
		string(habit.Frequency), targetDays, boolToInt(habit.IsActive),
	)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (*domain.Habit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	habit, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("habit %q not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return habit, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit *domain.Habit) error {
	targetDays, err := marshalTargetDays(habit.TargetDays)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits SET
			updated_at = ?, deleted_at = ?,
			name = ?, description = ?, category = ?, color = ?,
			frequency = ?, target_days = ?, is_active = ?
		WHERE id = ?`,
		formatTime(habit.UpdatedAt), nullTimeString(habit.DeletedAt),
		habit.Name, habit.Description, string(habit.Category), habit.Color,
		string(habit.Frequency), targetDays, boolToInt(habit.IsActive),
		habit.ID,
	)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	return checkRowsAffected(res, "habit", habit.ID)
}

func (s *Store) ListHabits(ctx context.Context, userID string, includeInactive bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits
		WHERE user_id = ? AND deleted_at IS NULL`
	if !includeInactive {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (s *Store) CountActiveHabits(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM habits
		WHERE user_id = ? AND deleted_at IS NULL AND is_active = 1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active habits: %w", err)
	}
	return n, nil
}
