package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/habitflow/habitflow-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/dashboard",
		Summary:     "Get dashboard",
		Description: "Returns the combined payload backing the home screen",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHabitStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/habit/{habitID}",
		Summary:     "Get habit stats",
		Description: "Returns one habit's completion statistics for a trailing window",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetHabitStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStatsOverview",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/overview",
		Summary:     "Get stats overview",
		Description: "Returns headline numbers across all habits",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStatsOverview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHabitCompletionRates",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/habits",
		Summary:     "Get per-habit completion rates",
		Description: "Returns each active habit's completion rate for a trailing window",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetHabitCompletionRates)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryDistribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/categories",
		Summary:     "Get category distribution",
		Description: "Returns how active habits are distributed across categories",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCategoryDistribution)
}

// === DTOs ===

// DashboardResponse contains the home-screen dashboard payload.
type DashboardResponse struct {
	TotalHabits   int                 `json:"total_habits" doc:"Number of active habits"`
	ActiveStreaks int                 `json:"active_streaks" doc:"Habits with a current streak of at least one day"`
	HeatmapData   []domain.DayValue   `json:"heatmap_data" doc:"Sparse per-day completion counts (last 180 days)"`
	WeeklyTrend   []domain.TrendPoint `json:"weekly_trend" doc:"Dense 7-day completion trend"`
}

// DashboardOutput wraps the dashboard response for Huma.
type DashboardOutput struct {
	Body DashboardResponse
}

// HabitStatsInput contains parameters for per-habit stats.
type HabitStatsInput struct {
	Authorization string `header:"Authorization"`
	HabitID       string `path:"habitID" doc:"Habit ID"`
	Days          int    `query:"days" doc:"Trailing window in days (default 30)"`
}

// HabitStatsResponse contains one habit's windowed statistics.
type HabitStatsResponse struct {
	HabitID        string                  `json:"habit_id" doc:"Habit ID"`
	CompletionRate float64                 `json:"completion_rate" doc:"Percent of window days completed (0-100)"`
	CompletedDays  int                     `json:"completed_days" doc:"Days completed in the window"`
	TotalDays      int                     `json:"total_days" doc:"Days in the window"`
	DailyData      []domain.HabitDayStatus `json:"daily_data" doc:"Per-day completion status, oldest first"`
	CurrentStreak  int                     `json:"current_streak" doc:"Consecutive completed days ending today"`
	LongestStreak  int                     `json:"longest_streak" doc:"Longest run of completed days"`
}

// HabitStatsOutput wraps the habit stats response for Huma.
type HabitStatsOutput struct {
	Body HabitStatsResponse
}

// OverviewResponse contains the headline stats numbers.
type OverviewResponse struct {
	TotalHabits         int     `json:"total_habits" doc:"Number of active habits"`
	CompletedToday      int     `json:"completed_today" doc:"Habits completed today"`
	CompletedThisWeek   int     `json:"completed_this_week" doc:"Completions in the trailing 7 days"`
	CompletionRateToday float64 `json:"completion_rate_today" doc:"Percent of habits completed today (0-100)"`
	ActiveStreaks       int     `json:"active_streaks" doc:"Habits with a current streak of at least one day"`
}

// OverviewOutput wraps the overview response for Huma.
type OverviewOutput struct {
	Body OverviewResponse
}

// WindowedStatsInput carries the optional trailing-window size.
type WindowedStatsInput struct {
	Authorization string `header:"Authorization"`
	Days          int    `query:"days" doc:"Trailing window in days (default 30)"`
}

// HabitRatesResponse contains per-habit completion rates.
type HabitRatesResponse struct {
	Habits []domain.HabitCompletionRate `json:"habits" doc:"Per-habit completion rates"`
}

// HabitRatesOutput wraps the habit rates response for Huma.
type HabitRatesOutput struct {
	Body HabitRatesResponse
}

// CategoryDistributionResponse contains the category distribution.
type CategoryDistributionResponse struct {
	Categories []domain.CategoryCount `json:"categories" doc:"Non-empty categories in display order"`
}

// CategoryDistributionOutput wraps the category distribution response for Huma.
type CategoryDistributionOutput struct {
	Body CategoryDistributionResponse
}

// === Handlers ===

func (s *Server) handleGetDashboard(ctx context.Context, input *AuthenticatedInput) (*DashboardOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	dashboard, err := s.services.Stats.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardOutput{
		Body: DashboardResponse{
			TotalHabits:   dashboard.TotalHabits,
			ActiveStreaks: dashboard.ActiveStreaks,
			HeatmapData:   dashboard.Heatmap,
			WeeklyTrend:   dashboard.WeeklyTrend,
		},
	}, nil
}

func (s *Server) handleGetHabitStats(ctx context.Context, input *HabitStatsInput) (*HabitStatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	analytics, err := s.services.Stats.HabitAnalytics(ctx, userID, input.HabitID, input.Days)
	if err != nil {
		return nil, err
	}

	return &HabitStatsOutput{
		Body: HabitStatsResponse{
			HabitID:        analytics.HabitID,
			CompletionRate: analytics.CompletionRate,
			CompletedDays:  analytics.CompletedDays,
			TotalDays:      analytics.TotalDays,
			DailyData:      analytics.DailyData,
			CurrentStreak:  analytics.CurrentStreak,
			LongestStreak:  analytics.LongestStreak,
		},
	}, nil
}

func (s *Server) handleGetStatsOverview(ctx context.Context, input *AuthenticatedInput) (*OverviewOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	overview, err := s.services.Stats.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &OverviewOutput{
		Body: OverviewResponse{
			TotalHabits:         overview.TotalHabits,
			CompletedToday:      overview.CompletedToday,
			CompletedThisWeek:   overview.CompletedThisWeek,
			CompletionRateToday: overview.CompletionRateToday,
			ActiveStreaks:       overview.ActiveStreaks,
		},
	}, nil
}

func (s *Server) handleGetHabitCompletionRates(ctx context.Context, input *WindowedStatsInput) (*HabitRatesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	rates, err := s.services.Stats.PerHabitCompletionRates(ctx, userID, input.Days)
	if err != nil {
		return nil, err
	}

	return &HabitRatesOutput{Body: HabitRatesResponse{Habits: rates}}, nil
}

func (s *Server) handleGetCategoryDistribution(ctx context.Context, input *AuthenticatedInput) (*CategoryDistributionOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	categories, err := s.services.Stats.CategoryDistribution(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &CategoryDistributionOutput{Body: CategoryDistributionResponse{Categories: categories}}, nil
}
