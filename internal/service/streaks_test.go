package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/habitflow/habitflow-server/internal/domain"
)

func daySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func TestCalculateStreaks(t *testing.T) {
	// Reference day for every case.
	ref := time.Date(2026, 4, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		days map[string]bool
		want domain.Streak
	}{
		{
			name: "no completions ever",
			days: daySet(),
			want: domain.Streak{Current: 0, Longest: 0},
		},
		{
			name: "three consecutive days ending today",
			days: daySet("2026-04-08", "2026-04-09", "2026-04-10"),
			want: domain.Streak{Current: 3, Longest: 3},
		},
		{
			name: "older three-day run, fresh two-day run",
			days: daySet("2026-04-05", "2026-04-06", "2026-04-07", "2026-04-09", "2026-04-10"),
			want: domain.Streak{Current: 2, Longest: 3},
		},
		{
			name: "run ended yesterday, today missed",
			days: daySet("2026-04-07", "2026-04-08", "2026-04-09"),
			want: domain.Streak{Current: 0, Longest: 3},
		},
		{
			name: "single completion today",
			days: daySet("2026-04-10"),
			want: domain.Streak{Current: 1, Longest: 1},
		},
		{
			name: "single completion long ago",
			days: daySet("2025-12-25"),
			want: domain.Streak{Current: 0, Longest: 1},
		},
		{
			name: "runs split across a month boundary",
			days: daySet("2026-03-30", "2026-03-31", "2026-04-01", "2026-04-02"),
			want: domain.Streak{Current: 0, Longest: 4},
		},
		{
			name: "current streak crosses a month boundary",
			days: daySet("2026-03-29", "2026-03-30", "2026-03-31",
				"2026-04-01", "2026-04-02", "2026-04-03", "2026-04-04", "2026-04-05",
				"2026-04-06", "2026-04-07", "2026-04-08", "2026-04-09", "2026-04-10"),
			want: domain.Streak{Current: 13, Longest: 13},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStreaks(tt.days, ref)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateStreaksIgnoresReferenceTimeOfDay(t *testing.T) {
	days := daySet("2026-04-09", "2026-04-10")

	morning := time.Date(2026, 4, 10, 0, 0, 1, 0, time.UTC)
	night := time.Date(2026, 4, 10, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, CalculateStreaks(days, morning), CalculateStreaks(days, night))
	assert.Equal(t, 2, CalculateStreaks(days, morning).Current)
}

func TestCompletedDaySet(t *testing.T) {
	completed := &domain.CompletionLog{Date: mustDay(t, "2026-04-10"), Completed: true}
	missed := &domain.CompletionLog{Date: mustDay(t, "2026-04-09"), Completed: false}

	days := CompletedDaySet([]*domain.CompletionLog{completed, missed})

	assert.True(t, days["2026-04-10"])
	assert.False(t, days["2026-04-09"], "an explicit miss must not count")
	assert.Len(t, days, 1)
}
