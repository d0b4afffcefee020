// ABOUTME: Route handlers translating HTTP requests into tracker operations.
// ABOUTME: Domain errors map to status codes; bodies are JSON.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/settings"
)

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// statusFor maps tracker errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateCategory),
		errors.Is(err, models.ErrCategoryInUse),
		errors.Is(err, models.ErrCategoryIsDefault):
		return http.StatusConflict
	case errors.Is(err, models.ErrAmbiguousRef),
		errors.Is(err, models.ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	apiError(c, status, err.Error())
}

func (s *Server) getState(c *gin.Context) {
	state, err := s.tracker.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) listCategories(c *gin.Context) {
	cats := s.tracker.Categories(c.Request.Context())
	if cats == nil {
		cats = []*models.Category{}
	}
	c.JSON(http.StatusOK, cats)
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

func (s *Server) addCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	cat, err := s.tracker.AddCategory(c.Request.Context(), req.Name, req.Icon)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	if err := s.tracker.DeleteCategory(c.Request.Context(), c.Param("ref")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// intakeRequest carries exactly one of Calories or Water.
type intakeRequest struct {
	Category   string     `json:"category"`
	Calories   *int       `json:"calories"`
	Water      *float64   `json:"water"`
	ConsumedAt *time.Time `json:"consumed_at"`
}

func (s *Server) addConsumption(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Category == "" {
		apiError(c, http.StatusBadRequest, "category is required")
		return
	}
	intake, err := models.IntakeFrom(req.Calories, req.Water)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	var at time.Time
	if req.ConsumedAt != nil {
		at = req.ConsumedAt.Local()
	}

	rec, err := s.tracker.AddConsumption(c.Request.Context(), req.Category, intake, at)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// getHistory returns records for one day.
// GET /api/consumptions?date=YYYY-MM-DD (defaults to today).
func (s *Server) getHistory(c *gin.Context) {
	day := time.Now()
	if v := c.Query("date"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = d
	}
	c.JSON(http.StatusOK, s.tracker.History(day))
}

func (s *Server) validateIntake(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	intake, err := models.IntakeFrom(req.Calories, req.Water)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	verdict, err := s.tracker.ValidateIntake(c.Request.Context(), intake)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdict": verdict})
}

func positiveQuery(c *gin.Context, key string, def int) (int, bool) {
	n, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		apiError(c, http.StatusBadRequest, key+" must be a positive integer")
		return 0, false
	}
	return n, true
}

// getWeekly returns week buckets. GET /api/weekly?weeks=1|4|12 (default 1).
func (s *Server) getWeekly(c *gin.Context) {
	weeks, ok := positiveQuery(c, "weeks", 1)
	if !ok {
		return
	}
	buckets, err := s.tracker.Weekly(weeks)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// getTrend returns per-day totals. GET /api/trend?days=N (default 7).
func (s *Server) getTrend(c *gin.Context) {
	days, ok := positiveQuery(c, "days", 7)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.tracker.Trend(days))
}

type targetsRequest struct {
	Calories *int     `json:"calorie_target"`
	Water    *float64 `json:"water_target"`
}

func (s *Server) updateTargets(c *gin.Context) {
	var req targetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Calories == nil && req.Water == nil {
		apiError(c, http.StatusBadRequest, "calorie_target or water_target is required")
		return
	}
	ctx := c.Request.Context()
	if req.Calories != nil {
		if err := s.tracker.UpdateCalorieTarget(ctx, *req.Calories); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.Water != nil {
		if err := s.tracker.UpdateWaterTarget(ctx, *req.Water); err != nil {
			s.fail(c, err)
			return
		}
	}
	s.getState(c)
}

func (s *Server) resetDaily(c *gin.Context) {
	if err := s.tracker.ResetDaily(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	s.getState(c)
}

func (s *Server) getReminders(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Reminders())
}

func (s *Server) updateReminders(c *gin.Context) {
	var req settings.Reminders
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.tracker.ConfigureReminders(c.Request.Context(), req); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.tracker.Reminders())
}

// streamEvents pushes state changes as server-sent events, starting with the
// current state.
func (s *Server) streamEvents(c *gin.Context) {
	events, cancel := s.tracker.Subscribe(16)
	defer cancel()

	state, err := s.tracker.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.SSEvent("state", state)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev.State)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
