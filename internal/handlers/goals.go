package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/benvon/goaltracker/internal/goals"
	logpkg "github.com/benvon/goaltracker/internal/logger"
	"github.com/benvon/goaltracker/internal/models"
	"github.com/benvon/goaltracker/internal/request"
	"github.com/benvon/goaltracker/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	// MaxTitleLength is the maximum length for a goal title
	MaxTitleLength = 200
	// MaxTaskTextLength is the maximum length for a single task
	MaxTaskTextLength = 500
	// MaxTasksPerGoal caps the task list submitted on creation
	MaxTasksPerGoal = 100
)

// GoalService is the store surface the handlers drive
type GoalService interface {
	Create(ctx context.Context, in goals.CreateGoalInput) (*models.Goal, error)
	ToggleTask(ctx context.Context, id uuid.UUID, index int, completed bool) (*models.Goal, []models.AchievementUnlocked, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Goal, error)
	Filter(ctx context.Context, category string) []*models.Goal
	Now() time.Time
}

// GoalHandler handles goal-related requests
type GoalHandler struct {
	goals  GoalService
	logger *zap.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(svc GoalService, logger *zap.Logger) *GoalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalHandler{goals: svc, logger: logger}
}

// RegisterRoutes registers goal routes on the given router
// The router should already have the /goals prefix (e.g., from apiRouter.PathPrefix("/goals"))
func (h *GoalHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListGoals).Methods("GET")
	r.HandleFunc("", h.CreateGoal).Methods("POST")
	r.HandleFunc("/{id}", h.GetGoal).Methods("GET")
	r.HandleFunc("/{id}/tasks/{index}", h.ToggleTask).Methods("PATCH")
}

// CreateGoalRequest represents a create goal request
type CreateGoalRequest struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Category  string   `json:"category" validate:"required,goal_category"`
	Timeframe string   `json:"timeframe" validate:"required,goal_timeframe"`
	Tasks     []string `json:"tasks" validate:"required,min=1,max=100,dive,max=500"`
}

// ToggleTaskRequest represents a task toggle request
type ToggleTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// GoalResponse is a goal snapshot plus the values derived for display
type GoalResponse struct {
	*models.Goal
	State    models.GoalState `json:"state"`
	DaysLeft int              `json:"days_left"`
	Accent   string           `json:"accent"`
}

// ListGoalsResponse represents the response for listing goals
type ListGoalsResponse struct {
	Goals    []GoalResponse `json:"goals"`
	Category string         `json:"category"`
	Total    int            `json:"total"`
}

// ToggleTaskResponse carries the updated goal and the achievements this toggle unlocked
type ToggleTaskResponse struct {
	Goal     GoalResponse                 `json:"goal"`
	Unlocked []models.AchievementUnlocked `json:"unlocked"`
}

func (h *GoalHandler) toResponse(g *models.Goal, now time.Time) GoalResponse {
	return GoalResponse{
		Goal:     g,
		State:    g.State(),
		DaysLeft: g.DaysLeft(now),
		Accent:   g.Category.Accent(),
	}
}

// ListGoals lists goals, optionally filtered by ?category=
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	category := request.CategoryParam(r, models.CategoryAll)
	if err := validation.ValidateCategoryFilter(category); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	filtered := h.goals.Filter(r.Context(), category)
	now := h.goals.Now()

	response := ListGoalsResponse{
		Goals:    make([]GoalResponse, 0, len(filtered)),
		Category: category,
		Total:    len(filtered),
	}
	for _, g := range filtered {
		response.Goals = append(response.Goals, h.toResponse(g, now))
	}

	respondJSON(w, http.StatusOK, response)
}

// CreateGoal creates a new goal
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !validateRequest(w, req) {
		return
	}

	// Sanitize text input
	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}
	for i := range req.Tasks {
		req.Tasks[i] = validation.SanitizeText(req.Tasks[i])
	}

	goal, err := h.goals.Create(r.Context(), goals.CreateGoalInput{
		Title:     req.Title,
		Category:  req.Category,
		Timeframe: req.Timeframe,
		Tasks:     req.Tasks,
	})
	if err != nil {
		h.respondGoalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.toResponse(goal, h.goals.Now()))
}

// GetGoal retrieves a goal by ID
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := goalID(w, r)
	if !ok {
		return
	}

	goal, err := h.goals.Get(r.Context(), id)
	if err != nil {
		h.respondGoalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toResponse(goal, h.goals.Now()))
}

// ToggleTask sets one task's completion flag
func (h *GoalHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := goalID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task index")
		return
	}

	var req ToggleTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, req) {
		return
	}

	goal, unlocked, err := h.goals.ToggleTask(r.Context(), id, index, *req.Completed)
	if err != nil {
		h.respondGoalError(w, r, err)
		return
	}

	if unlocked == nil {
		unlocked = []models.AchievementUnlocked{}
	}
	respondJSON(w, http.StatusOK, ToggleTaskResponse{
		Goal:     h.toResponse(goal, h.goals.Now()),
		Unlocked: unlocked,
	})
}

func goalID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid goal ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondGoalError maps engine sentinel errors to HTTP statuses
func (h *GoalHandler) respondGoalError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, goals.ErrInvalidInput):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, goals.ErrOutOfRange):
		respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case errors.Is(err, goals.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Goal not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Request was cancelled")
	default:
		h.logger.Error("goal_request_failed",
			zap.String("method", r.Method),
			zap.String("path", logpkg.SanitizePath(r.URL.Path)),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to process goal request")
	}
}

// validateRequest runs the shared validator and reports the first failing field
func validateRequest(w http.ResponseWriter, req any) bool {
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", validation.Describe(err)))
		return false
	}
	return true
}
