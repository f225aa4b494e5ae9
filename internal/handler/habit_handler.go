package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/service"
)

type HabitHandler struct {
	habitService *service.HabitService
	statsService *service.StatsService
	logger       *zap.Logger
}

func NewHabitHandler(habitService *service.HabitService, statsService *service.StatsService, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
		statsService: statsService,
		logger:       logger,
	}
}

type recurrenceRequest struct {
	Frequency  string   `json:"frequency" binding:"required"`
	Interval   int      `json:"interval"`
	DaysOfWeek []int    `json:"days_of_week"`
	DayOfMonth int      `json:"day_of_month"`
	EndDate    string   `json:"end_date"`
	Exceptions []string `json:"exceptions"`
}

func (r *recurrenceRequest) toRule() (*model.RecurrenceRule, error) {
	rule := &model.RecurrenceRule{
		Frequency:  model.Frequency(r.Frequency),
		Interval:   r.Interval,
		DaysOfWeek: r.DaysOfWeek,
		DayOfMonth: r.DayOfMonth,
	}
	if rule.Interval < 1 {
		rule.Interval = 1
	}
	if r.EndDate != "" {
		end, err := time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			return nil, err
		}
		rule.EndDate = &end
	}
	for _, ex := range r.Exceptions {
		day, err := time.Parse("2006-01-02", ex)
		if err != nil {
			return nil, err
		}
		rule.Exceptions = append(rule.Exceptions, day)
	}
	return rule, nil
}

// CreateHabit handles POST /habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req struct {
		Title           string             `json:"title" binding:"required"`
		TargetPerPeriod int                `json:"target_per_period"`
		Recurrence      *recurrenceRequest `json:"recurrence"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var rule *model.RecurrenceRule
	if req.Recurrence != nil {
		var err error
		rule, err = req.Recurrence.toRule()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence rule"})
			return
		}
	}

	habit, err := h.habitService.Create(c.Request.Context(), userID.(int), req.Title, req.TargetPerPeriod, rule)
	if err != nil {
		h.logger.Error("CreateHabit: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

// ListHabits handles GET /habits
func (h *HabitHandler) ListHabits(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	habits, err := h.habitService.ListByUser(c.Request.Context(), userID.(int))
	if err != nil {
		h.logger.Error("ListHabits: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch habits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// CompleteHabit handles POST /habits/:id/complete
// The optional "date" field (YYYY-MM-DD) defaults to today.
func (h *HabitHandler) CompleteHabit(c *gin.Context) {
	habitID, date, ok := h.habitIDAndDate(c)
	if !ok {
		return
	}

	habit, err := h.habitService.Complete(c.Request.Context(), habitID, date)
	if err != nil {
		h.logger.Error("CompleteHabit: failed",
			zap.Int("habit_id", habitID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id":       habit.ID,
		"current_streak": habit.CurrentStreak,
		"best_streak":    habit.BestStreak,
	})
}

// IncompleteHabit handles POST /habits/:id/incomplete
func (h *HabitHandler) IncompleteHabit(c *gin.Context) {
	habitID, date, ok := h.habitIDAndDate(c)
	if !ok {
		return
	}

	habit, err := h.habitService.Incomplete(c.Request.Context(), habitID, date)
	if err != nil {
		h.logger.Error("IncompleteHabit: failed",
			zap.Int("habit_id", habitID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id":       habit.ID,
		"current_streak": habit.CurrentStreak,
		"best_streak":    habit.BestStreak,
	})
}

// ProtectHabit handles POST /habits/:id/protect
// Quota exhaustion is a normal outcome reported in the body, not an error.
func (h *HabitHandler) ProtectHabit(c *gin.Context) {
	habitID, date, ok := h.habitIDAndDate(c)
	if !ok {
		return
	}

	granted, habit, err := h.habitService.Protect(c.Request.Context(), habitID, date)
	if err != nil {
		h.logger.Error("ProtectHabit: failed",
			zap.Int("habit_id", habitID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to use protection day"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"granted":              granted,
		"protection_days_used": habit.ProtectionDaysUsed,
	})
}

// HabitStats handles GET /habits/:id/stats
func (h *HabitHandler) HabitStats(c *gin.Context) {
	habitID, ok := h.habitID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.Overview(c.Request.Context(), habitID)
	if err != nil {
		h.logger.Error("HabitStats: failed",
			zap.Int("habit_id", habitID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HabitHeatmap handles GET /habits/:id/heatmap?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *HabitHandler) HabitHeatmap(c *gin.Context) {
	habitID, ok := h.habitID(c)
	if !ok {
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}

	cells, err := h.statsService.Heatmap(c.Request.Context(), habitID, start, end)
	if err != nil {
		h.logger.Error("HabitHeatmap: failed",
			zap.Int("habit_id", habitID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch heatmap"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cells": cells})
}

// SetRecurrence handles PUT /habits/:id/recurrence
func (h *HabitHandler) SetRecurrence(c *gin.Context) {
	habitID, ok := h.habitID(c)
	if !ok {
		return
	}

	var req recurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	rule, err := req.toRule()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence rule"})
		return
	}

	if err := h.habitService.SetRecurrence(c.Request.Context(), habitID, rule); err != nil {
		h.logger.Error("SetRecurrence: failed",
			zap.Int("habit_id", habitID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recurrence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HabitHandler) habitID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return 0, false
	}
	return id, true
}

func (h *HabitHandler) habitIDAndDate(c *gin.Context) (int, time.Time, bool) {
	id, ok := h.habitID(c)
	if !ok {
		return 0, time.Time{}, false
	}

	var req struct {
		Date string `json:"date"`
	}
	// An absent body means "today"; a body that fails to decode is a
	// client error, not a default.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return 0, time.Time{}, false
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return 0, time.Time{}, false
		}
		date = parsed
	}
	return id, date, true
}
