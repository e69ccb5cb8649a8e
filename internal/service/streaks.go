package service

import (
	"slices"
	"time"

	"github.com/habitflow/habitflow-server/internal/domain"
)

// CompletedDaySet reduces logs to the set of day keys with a completed
// log. Incomplete logs count the same as no log at all.
func CompletedDaySet(logs []*domain.CompletionLog) map[string]bool {
	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.Completed {
			days[l.DayKey()] = true
		}
	}
	return days
}

// CalculateStreaks computes the current and longest runs of consecutive
// completed days. It is a pure function of the day set and the
// reference day: insertion order and completion timestamps never
// affect the result.
//
// The current streak is the unbroken run ending on the reference day
// itself. If the reference day has no completion the current streak is
// 0, regardless of how long the run ending yesterday was.
func CalculateStreaks(days map[string]bool, reference time.Time) domain.Streak {
	if len(days) == 0 {
		return domain.Streak{}
	}

	// Walk backward from the reference day until the run breaks.
	current := 0
	for d := domain.NormalizeDay(reference); days[domain.DayKey(d)]; d = d.AddDate(0, 0, -1) {
		current++
	}

	// Longest run anywhere: day keys sort chronologically, so one
	// ordered pass finds every run.
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	longest, run := 0, 0
	var prev time.Time
	for i, k := range keys {
		day, err := domain.ParseDayKey(k)
		if err != nil {
			continue
		}
		if i > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = day
	}

	return domain.Streak{Current: current, Longest: longest}
}
