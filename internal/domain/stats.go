package domain

import "time"

// Streak summarizes a habit's completion runs relative to a reference day.
type Streak struct {
	// Current is the length of the unbroken run ending on the reference
	// day. Zero when the reference day itself has no qualifying
	// completion, even if the day before ended a long run.
	Current int `json:"current"`
	// Longest is the length of the longest run anywhere in the history.
	// Always >= Current.
	Longest int `json:"longest"`
}

// DayValue is one day's completion count, used for heatmap rendering.
// Days with a zero count are omitted from heatmap payloads.
type DayValue struct {
	Day   string `json:"day"` // canonical day key, e.g. "2026-04-09"
	Value int    `json:"value"`
}

// TrendPoint is one day of the completion trend chart.
type TrendPoint struct {
	Date        string  `json:"date"` // canonical day key
	Completions int     `json:"completions"`
	Percentage  float64 `json:"percentage"` // 0-100 of active habits completed
}

// TodayProgress summarizes the current day across all active habits.
type TodayProgress struct {
	Date           string  `json:"date"`
	TotalHabits    int     `json:"total_habits"`
	CompletedToday int     `json:"completed_today"`
	Percentage     float64 `json:"percentage"` // 0-100, 0 when no active habits
}

// Dashboard is the combined payload backing the home screen.
type Dashboard struct {
	TotalHabits   int          `json:"total_habits"`
	ActiveStreaks int          `json:"active_streaks"` // habits with a current streak >= 1
	Heatmap       []DayValue   `json:"heatmap"`
	WeeklyTrend   []TrendPoint `json:"weekly_trend"`
}

// Overview carries the headline numbers for the stats screen.
type Overview struct {
	TotalHabits         int     `json:"total_habits"`
	CompletedToday      int     `json:"completed_today"`
	CompletedThisWeek   int     `json:"completed_this_week"`
	CompletionRateToday float64 `json:"completion_rate_today"` // 0-100
	ActiveStreaks       int     `json:"active_streaks"`
}

// HabitDayStatus is one day in a habit's analytics window.
type HabitDayStatus struct {
	Date      string `json:"date"` // canonical day key
	Completed bool   `json:"completed"`
}

// HabitAnalytics holds per-habit statistics for a trailing window.
type HabitAnalytics struct {
	HabitID        string           `json:"habit_id"`
	CompletionRate float64          `json:"completion_rate"` // 0-100 over the window
	CompletedDays  int              `json:"completed_days"`
	TotalDays      int              `json:"total_days"`
	DailyData      []HabitDayStatus `json:"daily_data"`
	CurrentStreak  int              `json:"current_streak"`
	LongestStreak  int              `json:"longest_streak"`
}

// HabitCompletionRate pairs a habit with its completion rate for ranking.
type HabitCompletionRate struct {
	HabitID        string   `json:"habit_id"`
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	Color          string   `json:"color"`
	CompletionRate float64  `json:"completion_rate"` // 0-100 over the window
	TotalLogs      int      `json:"total_logs"`
	CompletedLogs  int      `json:"completed_logs"`
}

// CategoryCount is one slice of the category distribution chart.
type CategoryCount struct {
	Category   Category `json:"category"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"` // 0-100 of active habits
}

// DaysAgo returns midnight UTC of the day n days before t's day.
func DaysAgo(t time.Time, n int) time.Time {
	return NormalizeDay(t).AddDate(0, 0, -n)
}
