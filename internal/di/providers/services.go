package providers

import (
	"github.com/samber/do/v2"

	"github.com/habitflow/habitflow-server/internal/api"
	"github.com/habitflow/habitflow-server/internal/auth"
	"github.com/habitflow/habitflow-server/internal/logger"
	"github.com/habitflow/habitflow-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideHabitService provides the habit management service.
func ProvideHabitService(i do.Injector) (*service.HabitService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHabitService(storeHandle.Store, log.Logger), nil
}

// ProvideLogService provides the completion log service.
func ProvideLogService(i do.Injector) (*service.LogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	habitService := do.MustInvoke[*service.HabitService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLogService(storeHandle.Store, habitService, log.Logger), nil
}

// ProvideStatsService provides the streak and aggregation service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	habitService := do.MustInvoke[*service.HabitService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, habitService, log.Logger), nil
}

// ProvideAPIServices bundles all business services for the HTTP layer.
func ProvideAPIServices(i do.Injector) (*api.Services, error) {
	return &api.Services{
		Auth:    do.MustInvoke[*service.AuthService](i),
		Session: do.MustInvoke[*service.SessionService](i),
		Habit:   do.MustInvoke[*service.HabitService](i),
		Log:     do.MustInvoke[*service.LogService](i),
		Stats:   do.MustInvoke[*service.StatsService](i),
	}, nil
}
