package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/jobs/scheduler"
	"github.com/yungbote/meraki-backend/internal/pkg/batch"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

// JobRunner triggers a registered job by name.
type JobRunner interface {
	RunNow(ctx context.Context, name string) (batch.Result, error)
}

type CronHandler struct {
	log    *logger.Logger
	runner JobRunner
}

func NewCronHandler(log *logger.Logger, runner JobRunner) *CronHandler {
	return &CronHandler{log: log.With("handler", "CronHandler"), runner: runner}
}

// POST /api/cron/update-student-tracking
func (h *CronHandler) UpdateStudentTracking(c *gin.Context) {
	res, err := h.runner.RunNow(c.Request.Context(), scheduler.StudentTrackingJob)
	if errors.Is(err, scheduler.ErrSkipped) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Student tracking update already running",
			"code":    "conflict",
		})
		return
	}
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to update student tracking")
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"result":  res,
		"message": "Student tracking updated successfully",
	})
}
