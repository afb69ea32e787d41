package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
)

const taskStatusTimeout = 5 * time.Second

// TaskStatusSource looks up background task state. *tasks.Client implements it.
type TaskStatusSource interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController reports on queued background tasks.
type TasksController struct {
	source TaskStatusSource
}

// NewTasksController creates a new TasksController. A nil source means the
// task queue is disabled.
func NewTasksController(source TaskStatusSource) *TasksController {
	return &TasksController{source: source}
}

// TaskStatusResponse is the response for GET /api/tasks/:id
type TaskStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// GetTaskStatus handles GET /api/tasks/:id
// The ID is the task_id returned by POST /api/poll.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.source == nil {
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, "task queue is disabled")
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, CodeInvalidRequest, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), taskStatusTimeout)
	defer cancel()

	status, err := tc.source.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondError(c, http.StatusNotFound, CodeNotFound, "task not found")
		return
	}

	c.JSON(http.StatusOK, TaskStatusResponse{
		ID:     taskID,
		Status: taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
