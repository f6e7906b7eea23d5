package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	bind     *Binder
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, bind *Binder, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), bind: bind, progress: progress}
}

// GET /api/streaks/:studentId answers null for a student with no streak yet.
func (h *ProgressHandler) GetStreak(c *gin.Context) {
	streak, err := h.progress.GetStreak(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch student streak")
		return
	}
	response.RespondOK(c, streak)
}

// POST /api/streaks/:studentId
func (h *ProgressHandler) CompleteActivity(c *gin.Context) {
	streak, err := h.progress.CompleteActivity(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to update student streak")
		return
	}
	response.RespondOK(c, streak)
}

// POST /api/daily-activities
func (h *ProgressHandler) RecordActivity(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId" binding:"notblank"`
		Points    int    `json:"points"`
	}
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to record daily activity")
		return
	}
	row, err := h.progress.RecordActivity(c.Request.Context(), req.StudentID, req.Points)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to record daily activity")
		return
	}
	response.RespondOK(c, row)
}

func (h *ProgressHandler) Leaderboards(c *gin.Context) {
	boards, err := h.progress.Leaderboards(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch leaderboards")
		return
	}
	response.RespondOK(c, boards)
}

// GET /api/student-tries-leaderboard
func (h *ProgressHandler) TriesLeaderboard(c *gin.Context) {
	rows, err := h.progress.TriesLeaderboard(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch leaderboard")
		return
	}
	response.RespondOK(c, rows)
}
