package api

import (
	"github.com/habitflow/habitflow-server/internal/service"
)

// Services groups the business services the HTTP handlers depend on.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Habit   *service.HabitService
	Log     *service.LogService
	Stats   *service.StatsService
}
