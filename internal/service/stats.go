package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/store"
)

// Default trailing windows for the aggregation surfaces. All windows
// are inclusive of today and midnight-normalized, so the heatmap,
// trend, and rate views agree about which days they cover.
const (
	DefaultHeatmapDays   = 180
	DefaultTrendDays     = 30
	DefaultAnalyticsDays = 30
	weeklyTrendDays      = 7
)

// StatsService computes dashboard and analytics summaries. Every
// method is a pure read over store state plus the clock; nothing here
// mutates.
type StatsService struct {
	store  store.Store
	habits *HabitService
	logger *slog.Logger

	// now is swappable so tests can pin the reference day.
	now func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, habits *HabitService, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		habits: habits,
		logger: logger,
		now:    time.Now,
	}
}

// roundPercent rounds to a whole percentage, clamped to [0, 100].
// A zero denominator yields 0 rather than NaN.
func roundPercent(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	p := math.Round(float64(numerator) / float64(denominator) * 100)
	return math.Min(math.Max(p, 0), 100)
}

// TodayProgress reports how many active habits have a completed log
// today.
func (s *StatsService) TodayProgress(ctx context.Context, userID string) (*domain.TodayProgress, error) {
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := domain.NormalizeDay(s.now())
	logs, err := s.store.ListLogsForDay(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("list today's logs: %w", err)
	}

	completed := countCompletedForHabits(logs, habits)
	return &domain.TodayProgress{
		Date:           domain.DayKey(today),
		TotalHabits:    len(habits),
		CompletedToday: completed,
		Percentage:     roundPercent(completed, len(habits)),
	}, nil
}

// HeatmapData returns sparse per-day completion counts over the
// trailing window. Days without completions are omitted; value is the
// number of distinct habits completed that day.
func (s *StatsService) HeatmapData(ctx context.Context, userID string, windowDays int) ([]domain.DayValue, error) {
	if windowDays <= 0 {
		windowDays = DefaultHeatmapDays
	}

	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeSet := habitIDSet(habits)

	today := domain.NormalizeDay(s.now())
	start := domain.DaysAgo(today, windowDays-1)
	logs, err := s.store.ListLogsByUser(ctx, userID, start, today)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	// Distinct habits per day; logs are deduplicated per (habit, day)
	// by construction, so counting completed logs is counting habits.
	counts := make(map[string]int)
	for _, l := range logs {
		if l.Completed && activeSet[l.HabitID] {
			counts[l.DayKey()]++
		}
	}

	entries := make([]domain.DayValue, 0, len(counts))
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := domain.DayKey(d)
		if counts[key] > 0 {
			entries = append(entries, domain.DayValue{Day: key, Value: counts[key]})
		}
	}
	return entries, nil
}

// Trend returns one entry per day of the trailing window, oldest
// first, including zero-completion days. Percentages share a single
// denominator: the number of active habits at query time.
func (s *StatsService) Trend(ctx context.Context, userID string, windowDays int) ([]domain.TrendPoint, error) {
	if windowDays <= 0 {
		windowDays = DefaultTrendDays
	}

	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeSet := habitIDSet(habits)

	today := domain.NormalizeDay(s.now())
	start := domain.DaysAgo(today, windowDays-1)
	logs, err := s.store.ListLogsByUser(ctx, userID, start, today)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	counts := make(map[string]int)
	for _, l := range logs {
		if l.Completed && activeSet[l.HabitID] {
			counts[l.DayKey()]++
		}
	}

	points := make([]domain.TrendPoint, 0, windowDays)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := domain.DayKey(d)
		points = append(points, domain.TrendPoint{
			Date:        key,
			Completions: counts[key],
			Percentage:  roundPercent(counts[key], len(habits)),
		})
	}
	return points, nil
}

// Dashboard combines the home-screen numbers in one call: heatmap,
// weekly trend, habit count, and how many habits have a live streak.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	heatmap, err := s.HeatmapData(ctx, userID, DefaultHeatmapDays)
	if err != nil {
		return nil, err
	}

	trend, err := s.Trend(ctx, userID, weeklyTrendDays)
	if err != nil {
		return nil, err
	}

	activeStreaks, err := s.countActiveStreaks(ctx, userID, habits)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		TotalHabits:   len(habits),
		ActiveStreaks: activeStreaks,
		Heatmap:       heatmap,
		WeeklyTrend:   trend,
	}, nil
}

// Overview reports the headline numbers for the stats screen.
func (s *StatsService) Overview(ctx context.Context, userID string) (*domain.Overview, error) {
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeSet := habitIDSet(habits)

	today := domain.NormalizeDay(s.now())
	weekStart := domain.DaysAgo(today, 6)
	logs, err := s.store.ListLogsByUser(ctx, userID, weekStart, today)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	todayKey := domain.DayKey(today)
	completedToday, completedThisWeek := 0, 0
	for _, l := range logs {
		if !l.Completed || !activeSet[l.HabitID] {
			continue
		}
		completedThisWeek++
		if l.DayKey() == todayKey {
			completedToday++
		}
	}

	activeStreaks, err := s.countActiveStreaks(ctx, userID, habits)
	if err != nil {
		return nil, err
	}

	return &domain.Overview{
		TotalHabits:         len(habits),
		CompletedToday:      completedToday,
		CompletedThisWeek:   completedThisWeek,
		CompletionRateToday: roundPercent(completedToday, len(habits)),
		ActiveStreaks:       activeStreaks,
	}, nil
}

// HabitAnalytics returns one habit's completion rate, streaks, and
// per-day record over the trailing window.
func (s *StatsService) HabitAnalytics(ctx context.Context, userID, habitID string, windowDays int) (*domain.HabitAnalytics, error) {
	if windowDays <= 0 {
		windowDays = DefaultAnalyticsDays
	}

	if _, err := s.habits.GetHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}

	// Streaks need the full history, not just the window.
	logs, err := s.store.ListLogsByHabit(ctx, habitID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}
	days := CompletedDaySet(logs)

	today := domain.NormalizeDay(s.now())
	streak := CalculateStreaks(days, today)

	start := domain.DaysAgo(today, windowDays-1)
	daily := make([]domain.HabitDayStatus, 0, windowDays)
	completedDays := 0
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := domain.DayKey(d)
		if days[key] {
			completedDays++
		}
		daily = append(daily, domain.HabitDayStatus{Date: key, Completed: days[key]})
	}

	return &domain.HabitAnalytics{
		HabitID:        habitID,
		CompletionRate: roundPercent(completedDays, windowDays),
		CompletedDays:  completedDays,
		TotalDays:      windowDays,
		DailyData:      daily,
		CurrentStreak:  streak.Current,
		LongestStreak:  streak.Longest,
	}, nil
}

// PerHabitCompletionRates ranks every active habit by its completion
// rate over the trailing window.
func (s *StatsService) PerHabitCompletionRates(ctx context.Context, userID string, windowDays int) ([]domain.HabitCompletionRate, error) {
	if windowDays <= 0 {
		windowDays = DefaultAnalyticsDays
	}

	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := domain.NormalizeDay(s.now())
	start := domain.DaysAgo(today, windowDays-1)
	logs, err := s.store.ListLogsByUser(ctx, userID, start, today)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	type tally struct{ total, completed int }
	byHabit := make(map[string]*tally)
	for _, l := range logs {
		t, ok := byHabit[l.HabitID]
		if !ok {
			t = &tally{}
			byHabit[l.HabitID] = t
		}
		t.total++
		if l.Completed {
			t.completed++
		}
	}

	rates := make([]domain.HabitCompletionRate, 0, len(habits))
	for _, h := range habits {
		t := byHabit[h.ID]
		if t == nil {
			t = &tally{}
		}
		rates = append(rates, domain.HabitCompletionRate{
			HabitID:        h.ID,
			Name:           h.Name,
			Category:       h.Category,
			Color:          h.Color,
			CompletionRate: roundPercent(t.completed, windowDays),
			TotalLogs:      t.total,
			CompletedLogs:  t.completed,
		})
	}
	return rates, nil
}

// CategoryDistribution counts active habits per category.
func (s *StatsService) CategoryDistribution(ctx context.Context, userID string) ([]domain.CategoryCount, error) {
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Category]int)
	for _, h := range habits {
		counts[h.Category]++
	}

	// Fixed enumeration order keeps the payload stable across calls.
	distribution := make([]domain.CategoryCount, 0, len(counts))
	for _, c := range domain.Categories {
		if counts[c] == 0 {
			continue
		}
		distribution = append(distribution, domain.CategoryCount{
			Category:   c,
			Count:      counts[c],
			Percentage: roundPercent(counts[c], len(habits)),
		})
	}
	return distribution, nil
}

// countActiveStreaks counts the habits whose current streak reaches
// today.
func (s *StatsService) countActiveStreaks(ctx context.Context, userID string, habits []*domain.Habit) (int, error) {
	if len(habits) == 0 {
		return 0, nil
	}

	logs, err := s.store.ListLogsByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("list logs: %w", err)
	}

	daysByHabit := make(map[string]map[string]bool)
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if daysByHabit[l.HabitID] == nil {
			daysByHabit[l.HabitID] = make(map[string]bool)
		}
		daysByHabit[l.HabitID][l.DayKey()] = true
	}

	today := domain.NormalizeDay(s.now())
	count := 0
	for _, h := range habits {
		if CalculateStreaks(daysByHabit[h.ID], today).Current >= 1 {
			count++
		}
	}
	return count, nil
}

func habitIDSet(habits []*domain.Habit) map[string]bool {
	set := make(map[string]bool, len(habits))
	for _, h := range habits {
		set[h.ID] = true
	}
	return set
}

func countCompletedForHabits(logs []*domain.CompletionLog, habits []*domain.Habit) int {
	activeSet := habitIDSet(habits)
	n := 0
	for _, l := range logs {
		if l.Completed && activeSet[l.HabitID] {
			n++
		}
	}
	return n
}
