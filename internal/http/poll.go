package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PollController triggers and reports order polls.
type PollController struct {
	store     PreferenceStore
	scheduler PollScheduler
}

func NewPollController(store PreferenceStore, scheduler PollScheduler) *PollController {
	return &PollController{store: store, scheduler: scheduler}
}

// PollNow enqueues an immediate poll.
func (pc *PollController) PollNow(c *gin.Context) {
	if pc.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, "order poller is disabled")
		return
	}

	taskID, err := pc.scheduler.RunNow(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "enqueue poll")
		return
	}
	respondAccepted(c, "poll queued", gin.H{"task_id": taskID})
}

// GetStatus returns the last poll outcome and the scheduler state.
func (pc *PollController) GetStatus(c *gin.Context) {
	info, err := pollerInfo(pc.store, pc.scheduler)
	if err != nil {
		respondInternalError(c, err, "poll status")
		return
	}
	c.JSON(http.StatusOK, info)
}
