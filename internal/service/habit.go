package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/habitflow/habitflow-server/internal/domain"
	domainerrors "github.com/habitflow/habitflow-server/internal/errors"
	"github.com/habitflow/habitflow-server/internal/id"
	"github.com/habitflow/habitflow-server/internal/store"
)

// HabitService owns habit definitions: create, update, list, and soft
// delete. Completion state lives in LogService.
type HabitService struct {
	store  store.Store
	logger *slog.Logger
}

// NewHabitService creates a new habit service.
func NewHabitService(store store.Store, logger *slog.Logger) *HabitService {
	return &HabitService{store: store, logger: logger}
}

// CreateHabitRequest contains new-habit fields. Zero-valued optionals
// fall back to creation defaults.
type CreateHabitRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Category    string `json:"category" validate:"omitempty,oneof=health productivity mindfulness learning fitness social creative other"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Frequency   string `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	TargetDays  []int  `json:"target_days" validate:"omitempty,max=7,dive,min=0,max=6"`
}

// UpdateHabitRequest contains the patchable habit fields. Nil pointers
// leave the field unchanged.
type UpdateHabitRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Category    *string `json:"category" validate:"omitempty,oneof=health productivity mindfulness learning fitness social creative other"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Frequency   *string `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	TargetDays  []int   `json:"target_days" validate:"omitempty,max=7,dive,min=0,max=6"`
}

// CreateHabit validates and stores a new habit for the user.
func (s *HabitService) CreateHabit(ctx context.Context, userID string, req CreateHabitRequest) (*domain.Habit, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	habitID, err := id.Generate("habit")
	if err != nil {
		return nil, fmt.Errorf("generate habit ID: %w", err)
	}

	habit := &domain.Habit{
		Syncable: domain.Syncable{
			ID: habitID,
		},
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.Category(req.Category),
		Color:       req.Color,
		Frequency:   domain.Frequency(req.Frequency),
		TargetDays:  req.TargetDays,
		IsActive:    true,
	}
	habit.ApplyDefaults()
	habit.InitTimestamps()

	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("habit created",
			"habit_id", habitID,
			"user_id", userID,
			"category", habit.Category,
		)
	}
	return habit, nil
}

// GetHabit returns one of the user's active habits. Habits owned by
// other users are reported not-found, never forbidden, so the API does
// not confirm foreign IDs.
func (s *HabitService) GetHabit(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFound("habit not found")
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	if habit.UserID != userID || habit.IsDeleted() || !habit.IsActive {
		return nil, domainerrors.NotFound("habit not found")
	}
	return habit, nil
}

// ListHabits returns the user's active habits, most recently created
// first.
func (s *HabitService) ListHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits, err := s.store.ListHabits(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// UpdateHabit applies a patch to one of the user's habits.
func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID string, req UpdateHabitRequest) (*domain.Habit, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, domainerrors.Validation("name must not be empty")
		}
		habit.Name = *req.Name
	}
	if req.Description != nil {
		habit.Description = *req.Description
	}
	if req.Category != nil {
		habit.Category = domain.Category(*req.Category)
	}
	if req.Color != nil {
		habit.Color = *req.Color
	}
	if req.Frequency != nil {
		habit.Frequency = domain.Frequency(*req.Frequency)
	}
	if req.TargetDays != nil {
		habit.TargetDays = req.TargetDays
	}
	habit.Touch()

	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return habit, nil
}

// DeleteHabit soft-deletes a habit. Its completion history is kept so
// past streaks and heatmaps stay truthful.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return err
	}

	habit.IsActive = false
	habit.MarkDeleted()

	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("habit deleted",
			"habit_id", habitID,
			"user_id", userID,
		)
	}
	return nil
}
