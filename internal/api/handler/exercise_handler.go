package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/exercisetracker/exercise-api/internal/core/domain"
	"github.com/exercisetracker/exercise-api/internal/core/ports"
)

// userNotFoundMessage is sent as a 200 text/plain body, not as an error
// envelope, when an exercise is posted for an unknown user.
const userNotFoundMessage = "Could not find user"

// HeaderIdempotentReplay marks responses served from an earlier request with
// the same Idempotency-Key.
const HeaderIdempotentReplay = "Idempotent-Replayed"

// ExerciseHandler handles HTTP requests for exercise operations.
type ExerciseHandler struct {
	service ports.ExerciseService
}

func NewExerciseHandler(service ports.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

// Create handles POST /api/users/:_id/exercises.
//
// @Summary      Log an exercise for a user
// @Tags         exercises
// @Accept       x-www-form-urlencoded,json
// @Produce      json,plain
// @Param        _id              path      string  true   "User ID"
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate submissions"
// @Param        description      formData  string  false  "Description"
// @Param        duration         formData  string  false  "Duration"
// @Param        date             formData  string  false  "Date (defaults to now)"
// @Success      200              {object}  exerciseResponse
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/users/{_id}/exercises [post]
func (h *ExerciseHandler) Create(c echo.Context) error {
	var req createExerciseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var date *time.Time
	if req.Date != "" {
		d, err := domain.ParseDate(string(req.Date))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		date = &d
	}

	result, err := h.service.CreateExercise(c.Request().Context(), ports.CreateExerciseInput{
		UserID:         req.UserID,
		Description:    string(req.Description),
		Duration:       string(req.Duration),
		Date:           date,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.String(http.StatusOK, userNotFoundMessage)
		}
		if errors.Is(err, domain.ErrRequestInProgress) {
			return echo.NewHTTPError(http.StatusConflict, "A request with this Idempotency-Key is still being processed")
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "An error occurred while saving the exercise"})
	}

	if result.Replayed {
		c.Response().Header().Set(HeaderIdempotentReplay, "true")
	}
	return c.JSON(http.StatusOK, toExerciseResponse(result))
}

// Logs handles GET /api/users/:_id/logs.
//
// @Summary      Get a user's exercise log
// @Tags         exercises
// @Produce      json
// @Param        _id    path      string  true   "User ID"
// @Param        from   query     string  false  "Earliest date (inclusive)"
// @Param        to     query     string  false  "Latest date (inclusive)"
// @Param        limit  query     int     false  "Maximum number of entries"
// @Success      200    {object}  exerciseLogResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/users/{_id}/logs [get]
func (h *ExerciseHandler) Logs(c echo.Context) error {
	var req exerciseLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.ExerciseLogInput{UserID: req.UserID, Limit: parseLimit(req.Limit)}
	if req.From != "" {
		from, err := domain.ParseDate(req.From)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		in.From = &from
	}
	if req.To != "" {
		to, err := domain.ParseDate(req.To)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		in.To = &to
	}

	log, err := h.service.GetLog(c.Request().Context(), in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "An error occurred while retrieving the exercise log"})
	}

	return c.JSON(http.StatusOK, toLogResponse(log))
}

// parseLimit reads the leading integer of s. Anything unusable means no limit.
func parseLimit(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func toExerciseResponse(r *ports.ExerciseResult) exerciseResponse {
	return exerciseResponse{
		ID:          r.UserID,
		Username:    r.Username,
		Description: r.Description,
		Duration:    r.Duration,
		Date:        domain.FormatDate(r.Date),
	}
}

func toLogResponse(l *ports.ExerciseLog) exerciseLogResponse {
	entries := make([]logEntryResponse, len(l.Log))
	for i, item := range l.Log {
		entries[i] = logEntryResponse{
			Description: item.Description,
			Duration:    item.Duration,
			Date:        domain.FormatDate(item.Date),
		}
	}
	return exerciseLogResponse{
		ID:       l.UserID,
		Username: l.Username,
		Count:    l.Count,
		Log:      entries,
	}
}
