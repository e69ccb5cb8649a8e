package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/service"
)

// recentLogDays is the window of history included in the habit detail view.
const recentLogDays = 30

func (s *Server) registerHabitRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listHabits",
		Method:      http.MethodGet,
		Path:        "/api/v1/habits",
		Summary:     "List habits",
		Description: "Returns the user's active habits with today's completion state",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListHabits)

	huma.Register(s.api, huma.Operation{
		OperationID: "createHabit",
		Method:      http.MethodPost,
		Path:        "/api/v1/habits",
		Summary:     "Create habit",
		Description: "Creates a new habit",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHabit",
		Method:      http.MethodGet,
		Path:        "/api/v1/habits/{id}",
		Summary:     "Get habit",
		Description: "Returns a habit with streaks and recent completion logs",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateHabit",
		Method:      http.MethodPatch,
		Path:        "/api/v1/habits/{id}",
		Summary:     "Update habit",
		Description: "Updates a habit",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteHabit",
		Method:      http.MethodDelete,
		Path:        "/api/v1/habits/{id}",
		Summary:     "Delete habit",
		Description: "Soft-deletes a habit. Completion history is preserved.",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteHabit)
}

// === DTOs ===

// HabitResponse contains habit data in API responses.
type HabitResponse struct {
	ID          string    `json:"id" doc:"Habit ID"`
	Name        string    `json:"name" doc:"Habit name"`
	Description string    `json:"description,omitempty" doc:"Habit description"`
	Category    string    `json:"category" doc:"Habit category"`
	Color       string    `json:"color" doc:"Display color (hex)"`
	Frequency   string    `json:"frequency" doc:"Frequency (daily, weekly, custom)"`
	TargetDays  []int     `json:"target_days,omitempty" doc:"Weekday numbers for custom frequency (0=Sunday)"`
	IsActive    bool      `json:"is_active" doc:"Whether the habit is active"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// HabitWithTodayResponse is a habit annotated with today's completion state.
type HabitWithTodayResponse struct {
	HabitResponse
	CompletedToday bool         `json:"completed_today" doc:"Whether the habit is completed today"`
	TodayLog       *LogResponse `json:"today_log,omitempty" doc:"Today's completion log, if any"`
}

// ListHabitsResponse contains a list of habits.
type ListHabitsResponse struct {
	Habits []HabitWithTodayResponse `json:"habits" doc:"List of habits"`
}

// ListHabitsOutput wraps the list habits response for Huma.
type ListHabitsOutput struct {
	Body ListHabitsResponse
}

// CreateHabitRequest is the request body for creating a habit.
type CreateHabitRequest struct {
	Name        string `json:"name" validate:"required,max=100" doc:"Habit name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Habit description"`
	Category    string `json:"category,omitempty" validate:"omitempty,oneof=health productivity mindfulness learning fitness social creative other" doc:"Habit category"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color (hex)"`
	Frequency   string `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly custom" doc:"Frequency"`
	TargetDays  []int  `json:"target_days,omitempty" validate:"omitempty,max=7,dive,min=0,max=6" doc:"Weekday numbers for custom frequency"`
}

// CreateHabitInput wraps the create habit request for Huma.
type CreateHabitInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateHabitRequest
}

// HabitOutput wraps the habit response for Huma.
type HabitOutput struct {
	Body HabitResponse
}

// GetHabitInput contains parameters for getting a habit.
type GetHabitInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Habit ID"`
}

// HabitDetailResponse is a habit with its streaks and recent history.
type HabitDetailResponse struct {
	HabitResponse
	CurrentStreak int           `json:"current_streak" doc:"Consecutive completed days ending today"`
	LongestStreak int           `json:"longest_streak" doc:"Longest run of completed days"`
	RecentLogs    []LogResponse `json:"recent_logs" doc:"Completion logs for the last 30 days, newest first"`
}

// HabitDetailOutput wraps the habit detail response for Huma.
type HabitDetailOutput struct {
	Body HabitDetailResponse
}

// UpdateHabitRequest is the request body for updating a habit.
type UpdateHabitRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100" doc:"Habit name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Habit description"`
	Category    *string `json:"category,omitempty" validate:"omitempty,oneof=health productivity mindfulness learning fitness social creative other" doc:"Habit category"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color (hex)"`
	Frequency   *string `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly custom" doc:"Frequency"`
	TargetDays  []int   `json:"target_days,omitempty" validate:"omitempty,max=7,dive,min=0,max=6" doc:"Weekday numbers for custom frequency"`
}

// UpdateHabitInput wraps the update habit request for Huma.
type UpdateHabitInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Habit ID"`
	Body          UpdateHabitRequest
}

// DeleteHabitInput contains parameters for deleting a habit.
type DeleteHabitInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Habit ID"`
}

// === Handlers ===

func (s *Server) handleListHabits(ctx context.Context, input *AuthenticatedInput) (*ListHabitsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habits, err := s.services.Habit.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	todayLogs, err := s.services.Log.LogsForDate(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	byHabit := make(map[string]*domain.CompletionLog, len(todayLogs))
	for _, log := range todayLogs {
		byHabit[log.HabitID] = log
	}

	resp := make([]HabitWithTodayResponse, len(habits))
	for i, h := range habits {
		entry := HabitWithTodayResponse{HabitResponse: mapHabitResponse(h)}
		if log, ok := byHabit[h.ID]; ok {
			mapped := mapLogResponse(log)
			entry.TodayLog = &mapped
			entry.CompletedToday = log.Completed
		}
		resp[i] = entry
	}

	return &ListHabitsOutput{Body: ListHabitsResponse{Habits: resp}}, nil
}

func (s *Server) handleCreateHabit(ctx context.Context, input *CreateHabitInput) (*HabitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habit, err := s.services.Habit.CreateHabit(ctx, userID, service.CreateHabitRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Category:    input.Body.Category,
		Color:       input.Body.Color,
		Frequency:   input.Body.Frequency,
		TargetDays:  input.Body.TargetDays,
	})
	if err != nil {
		return nil, err
	}

	return &HabitOutput{Body: mapHabitResponse(habit)}, nil
}

func (s *Server) handleGetHabit(ctx context.Context, input *GetHabitInput) (*HabitDetailOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habit, err := s.services.Habit.GetHabit(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	analytics, err := s.services.Stats.HabitAnalytics(ctx, userID, input.ID, recentLogDays)
	if err != nil {
		return nil, err
	}

	start := domain.DaysAgo(time.Now(), recentLogDays-1)
	logs, err := s.services.Log.LogsForHabit(ctx, userID, input.ID, start, time.Time{}, recentLogDays)
	if err != nil {
		return nil, err
	}

	recent := make([]LogResponse, len(logs))
	for i, log := range logs {
		recent[i] = mapLogResponse(log)
	}

	return &HabitDetailOutput{
		Body: HabitDetailResponse{
			HabitResponse: mapHabitResponse(habit),
			CurrentStreak: analytics.CurrentStreak,
			LongestStreak: analytics.LongestStreak,
			RecentLogs:    recent,
		},
	}, nil
}

func (s *Server) handleUpdateHabit(ctx context.Context, input *UpdateHabitInput) (*HabitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habit, err := s.services.Habit.UpdateHabit(ctx, userID, input.ID, service.UpdateHabitRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Category:    input.Body.Category,
		Color:       input.Body.Color,
		Frequency:   input.Body.Frequency,
		TargetDays:  input.Body.TargetDays,
	})
	if err != nil {
		return nil, err
	}

	return &HabitOutput{Body: mapHabitResponse(habit)}, nil
}

func (s *Server) handleDeleteHabit(ctx context.Context, input *DeleteHabitInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Habit.DeleteHabit(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Habit deleted"}}, nil
}

// === Helpers ===

func mapHabitResponse(h *domain.Habit) HabitResponse {
	return HabitResponse{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Category:    string(h.Category),
		Color:       h.Color,
		Frequency:   string(h.Frequency),
		TargetDays:  h.TargetDays,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}
