package store

import (
	"context"
	"time"

	"github.com/habitflow/habitflow-server/internal/domain"
)

// Store is the persistence interface for the server. The only
// implementation is SQLite; the interface exists so services and
// handlers can be tested against a throwaway database file.
type Store interface {
	Close() error

	UserStore
	SessionStore
	HabitStore
	CompletionLogStore
}

// UserStore manages user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// SessionStore manages refresh-token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	GetSessionsByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// HabitStore manages habit definitions. Deleted habits are kept as
// tombstones so their completion history stays queryable.
type HabitStore interface {
	CreateHabit(ctx context.Context, habit *domain.Habit) error
	GetHabit(ctx context.Context, id string) (*domain.Habit, error)
	UpdateHabit(ctx context.Context, habit *domain.Habit) error
	// ListHabits returns the user's non-deleted habits, most recently
	// created first. Inactive habits are included only when
	// includeInactive is set.
	ListHabits(ctx context.Context, userID string, includeInactive bool) ([]*domain.Habit, error)
	CountActiveHabits(ctx context.Context, userID string) (int, error)
}

// CompletionLogStore manages per-day completion records. At most one
// log exists per (user, habit, day); CreateLog returns ErrAlreadyExists
// when a concurrent writer got there first.
type CompletionLogStore interface {
	CreateLog(ctx context.Context, log *domain.CompletionLog) error
	GetLog(ctx context.Context, id string) (*domain.CompletionLog, error)
	GetLogForDay(ctx context.Context, userID, habitID string, day time.Time) (*domain.CompletionLog, error)
	UpdateLog(ctx context.Context, log *domain.CompletionLog) error
	DeleteLog(ctx context.Context, id string) error
	// ListLogsByUser returns logs in [from, to] day order ascending.
	// Zero from/to values leave that end of the range unbounded.
	ListLogsByUser(ctx context.Context, userID string, from, to time.Time) ([]*domain.CompletionLog, error)
	ListLogsByHabit(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CompletionLog, error)
	ListLogsForDay(ctx context.Context, userID string, day time.Time) ([]*domain.CompletionLog, error)
}
