package domain

import "time"

// DayKeyFormat is the canonical calendar-day representation used for
// completion dates, streak math, and aggregation buckets.
const DayKeyFormat = "2006-01-02"

// DayKey converts a timestamp to its canonical calendar-day string in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyFormat)
}

// ParseDayKey parses a canonical day string back into a midnight-UTC time.
func ParseDayKey(key string) (time.Time, error) {
	return time.Parse(DayKeyFormat, key)
}

// NormalizeDay truncates a timestamp to midnight UTC so that any two
// instants on the same calendar day map to the same stored date.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CompletionLog records whether a habit was completed on one calendar day.
// At most one log exists per (user, habit, day); the store enforces this
// with a unique index. A log with Completed=false records an explicit
// miss and is distinct from having no log at all.
type CompletionLog struct {
	Syncable
	HabitID string `json:"habit_id"`
	UserID  string `json:"user_id"`
	// Date is always midnight UTC.
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
	// CompletedAt is the instant the completion was recorded.
	// Nil whenever Completed is false.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MarkCompleted flips the log to completed and stamps CompletedAt.
func (l *CompletionLog) MarkCompleted() {
	now := time.Now()
	l.Completed = true
	l.CompletedAt = &now
	l.Touch()
}

// MarkIncomplete flips the log to not-completed and clears CompletedAt.
func (l *CompletionLog) MarkIncomplete() {
	l.Completed = false
	l.CompletedAt = nil
	l.Touch()
}

// DayKey returns the canonical day string for this log's date.
func (l *CompletionLog) DayKey() string {
	return DayKey(l.Date)
}
