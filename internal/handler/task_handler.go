package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

type TaskHandler struct {
	repo   *repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(repo *repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{repo: repo, logger: logger}
}

// ListTasks handles GET /tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	tasks, err := h.repo.ListByUser(c.Request.Context(), userID.(int))
	if err != nil {
		h.logger.Error("ListTasks: failed to fetch tasks",
			zap.Int("user_id", userID.(int)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CompleteTask handles POST /tasks/:id/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	idStr := c.Param("id")
	taskID, err := strconv.Atoi(idStr)
	if err != nil {
		h.logger.Warn("CompleteTask: invalid task id format",
			zap.String("task_id", idStr),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.repo.SetStatus(c.Request.Context(), taskID, model.TaskStatusCompleted); err != nil {
		h.logger.Error("CompleteTask: failed to mark task as completed",
			zap.Int("task_id", taskID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task"})
		return
	}

	h.logger.Info("CompleteTask: success", zap.Int("task_id", taskID))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
