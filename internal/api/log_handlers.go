package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/service"
)

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLog",
		Method:      http.MethodPost,
		Path:        "/api/v1/logs/toggle",
		Summary:     "Toggle completion",
		Description: "Flips a habit's completion state for a day. Creates the log if none exists.",
		Tags:        []string{"Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLog)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkUpsertLogs",
		Method:      http.MethodPut,
		Path:        "/api/v1/logs/bulk",
		Summary:     "Bulk update completions",
		Description: "Applies a batch of completion states. Items fail independently.",
		Tags:        []string{"Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBulkUpsertLogs)

	huma.Register(s.api, huma.Operation{
		OperationID: "listHabitLogs",
		Method:      http.MethodGet,
		Path:        "/api/v1/logs/habit/{habitID}",
		Summary:     "List habit logs",
		Description: "Returns a habit's completion logs, newest first",
		Tags:        []string{"Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListHabitLogs)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLogsForDate",
		Method:      http.MethodGet,
		Path:        "/api/v1/logs/date/{date}",
		Summary:     "List logs for date",
		Description: "Returns all completion logs for one day across habits",
		Tags:        []string{"Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLogsForDate)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLogs",
		Method:      http.MethodGet,
		Path:        "/api/v1/logs",
		Summary:     "List all logs",
		Description: "Returns the user's full completion history, newest first",
		Tags:        []string{"Logs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLogs)
}

// === DTOs ===

// LogResponse contains completion log data in API responses.
type LogResponse struct {
	ID          string     `json:"id" doc:"Log ID"`
	HabitID     string     `json:"habit_id" doc:"Habit ID"`
	Date        string     `json:"date" doc:"Day key (YYYY-MM-DD, UTC)"`
	Completed   bool       `json:"completed" doc:"Completion state"`
	Notes       string     `json:"notes,omitempty" doc:"Optional notes"`
	CompletedAt *time.Time `json:"completed_at,omitempty" doc:"When the completion was recorded"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time  `json:"updated_at" doc:"Last update time"`
}

// ToggleRequest is the request body for toggling a completion.
type ToggleRequest struct {
	HabitID string `json:"habit_id" validate:"required" doc:"Habit ID"`
	Date    string `json:"date,omitempty" doc:"Day to toggle (YYYY-MM-DD, defaults to today)"`
	Notes   string `json:"notes,omitempty" validate:"omitempty,max=500" doc:"Optional notes"`
}

// ToggleInput wraps the toggle request for Huma.
type ToggleInput struct {
	Authorization string `header:"Authorization"`
	Body          ToggleRequest
}

// ToggleResponse contains the toggled log and a status message.
type ToggleResponse struct {
	Log       LogResponse `json:"log" doc:"The toggled completion log"`
	HabitName string      `json:"habit_name" doc:"Name of the toggled habit"`
	Message   string      `json:"message" doc:"Status message"`
}

// ToggleOutput wraps the toggle response for Huma.
type ToggleOutput struct {
	Body ToggleResponse
}

// BulkLogItem is one entry of a bulk completion update.
type BulkLogItem struct {
	HabitID   string `json:"habit_id" validate:"required" doc:"Habit ID"`
	Date      string `json:"date,omitempty" doc:"Day to set (YYYY-MM-DD, defaults to today)"`
	Completed bool   `json:"completed" doc:"Completion state to set"`
	Notes     string `json:"notes,omitempty" validate:"omitempty,max=500" doc:"Optional notes"`
}

// BulkLogRequest is the request body for bulk completion updates.
type BulkLogRequest struct {
	Updates []BulkLogItem `json:"updates" validate:"required,min=1,max=100" doc:"Completion updates to apply"`
}

// BulkLogInput wraps the bulk request for Huma.
type BulkLogInput struct {
	Authorization string `header:"Authorization"`
	Body          BulkLogRequest
}

// BulkLogResult reports the outcome of one bulk item.
type BulkLogResult struct {
	HabitID string       `json:"habit_id" doc:"Habit ID"`
	Date    string       `json:"date" doc:"Day the update applied to"`
	Log     *LogResponse `json:"log,omitempty" doc:"Resulting log on success"`
	Error   string       `json:"error,omitempty" doc:"Failure reason, if the item failed"`
}

// BulkLogResponse contains per-item bulk results.
type BulkLogResponse struct {
	Results []BulkLogResult `json:"results" doc:"One result per update, in input order"`
}

// BulkLogOutput wraps the bulk response for Huma.
type BulkLogOutput struct {
	Body BulkLogResponse
}

// ListHabitLogsInput contains parameters for listing a habit's logs.
type ListHabitLogsInput struct {
	Authorization string `header:"Authorization"`
	HabitID       string `path:"habitID" doc:"Habit ID"`
	StartDate     string `query:"start_date" doc:"Earliest day to include (YYYY-MM-DD)"`
	EndDate       string `query:"end_date" doc:"Latest day to include (YYYY-MM-DD)"`
	Limit         int    `query:"limit" doc:"Maximum logs to return (default 100)"`
}

// ListLogsResponse contains a list of completion logs.
type ListLogsResponse struct {
	Logs []LogResponse `json:"logs" doc:"Completion logs"`
}

// ListLogsOutput wraps the list logs response for Huma.
type ListLogsOutput struct {
	Body ListLogsResponse
}

// ListLogsForDateInput contains parameters for listing one day's logs.
type ListLogsForDateInput struct {
	Authorization string `header:"Authorization"`
	Date          string `path:"date" doc:"Day to list (YYYY-MM-DD)"`
}

// LogsForDateResponse contains one day's logs across habits.
type LogsForDateResponse struct {
	Date string        `json:"date" doc:"Normalized day key"`
	Logs []LogResponse `json:"logs" doc:"Completion logs for the day"`
}

// LogsForDateOutput wraps the logs-for-date response for Huma.
type LogsForDateOutput struct {
	Body LogsForDateResponse
}

// === Handlers ===

func (s *Server) handleToggleLog(ctx context.Context, input *ToggleInput) (*ToggleOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	date, err := service.ParseDate(input.Body.Date)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Log.Toggle(ctx, userID, input.Body.HabitID, date, input.Body.Notes)
	if err != nil {
		return nil, err
	}

	message := "Habit unchecked"
	if result.Log.Completed {
		message = "Habit completed!"
	}

	return &ToggleOutput{
		Body: ToggleResponse{
			Log:       mapLogResponse(result.Log),
			HabitName: result.Habit.Name,
			Message:   message,
		},
	}, nil
}

func (s *Server) handleBulkUpsertLogs(ctx context.Context, input *BulkLogInput) (*BulkLogOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	// Items with unparseable dates fail in place; the rest go through
	// the service as one batch.
	results := make([]BulkLogResult, len(input.Body.Updates))
	updates := make([]service.LogUpdate, 0, len(input.Body.Updates))
	positions := make([]int, 0, len(input.Body.Updates))

	for i, item := range input.Body.Updates {
		date, err := service.ParseDate(item.Date)
		if err != nil {
			results[i] = BulkLogResult{HabitID: item.HabitID, Date: item.Date, Error: err.Error()}
			continue
		}
		updates = append(updates, service.LogUpdate{
			HabitID:   item.HabitID,
			Date:      date,
			Completed: item.Completed,
			Notes:     item.Notes,
		})
		positions = append(positions, i)
	}

	for j, r := range s.services.Log.BulkUpsert(ctx, userID, updates) {
		result := BulkLogResult{HabitID: r.HabitID, Date: r.Date, Error: r.Error}
		if r.Log != nil {
			mapped := mapLogResponse(r.Log)
			result.Log = &mapped
		}
		results[positions[j]] = result
	}

	return &BulkLogOutput{Body: BulkLogResponse{Results: results}}, nil
}

func (s *Server) handleListHabitLogs(ctx context.Context, input *ListHabitLogsInput) (*ListLogsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	start, err := service.ParseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := service.ParseDate(input.EndDate)
	if err != nil {
		return nil, err
	}

	logs, err := s.services.Log.LogsForHabit(ctx, userID, input.HabitID, start, end, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListLogsOutput{Body: ListLogsResponse{Logs: mapLogResponses(logs)}}, nil
}

func (s *Server) handleListLogsForDate(ctx context.Context, input *ListLogsForDateInput) (*LogsForDateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	date, err := service.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	day := domain.NormalizeDay(date)

	logs, err := s.services.Log.LogsForDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	return &LogsForDateOutput{
		Body: LogsForDateResponse{
			Date: domain.DayKey(day),
			Logs: mapLogResponses(logs),
		},
	}, nil
}

func (s *Server) handleListLogs(ctx context.Context, input *AuthenticatedInput) (*ListLogsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	logs, err := s.services.Log.AllLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListLogsOutput{Body: ListLogsResponse{Logs: mapLogResponses(logs)}}, nil
}

// === Helpers ===

func mapLogResponse(log *domain.CompletionLog) LogResponse {
	return LogResponse{
		ID:          log.ID,
		HabitID:     log.HabitID,
		Date:        domain.DayKey(log.Date),
		Completed:   log.Completed,
		Notes:       log.Notes,
		CompletedAt: log.CompletedAt,
		CreatedAt:   log.CreatedAt,
		UpdatedAt:   log.UpdatedAt,
	}
}

func mapLogResponses(logs []*domain.CompletionLog) []LogResponse {
	resp := make([]LogResponse, len(logs))
	for i, log := range logs {
		resp[i] = mapLogResponse(log)
	}
	return resp
}
