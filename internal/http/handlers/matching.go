package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type MatchingHandler struct {
	log      *logger.Logger
	bind     *Binder
	attempts services.MatchingService
}

func NewMatchingHandler(log *logger.Logger, bind *Binder, attempts services.MatchingService) *MatchingHandler {
	return &MatchingHandler{log: log.With("handler", "MatchingHandler"), bind: bind, attempts: attempts}
}

func (h *MatchingHandler) CreateAttempt(c *gin.Context) {
	var req types.MatchingAttempt
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to create matching attempt")
		return
	}
	row, err := h.attempts.CreateAttempt(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to create matching attempt")
		return
	}
	response.RespondOK(c, row)
}

// GET /api/matching-attempts/student/:studentId?matchingId=
func (h *MatchingHandler) ListAttempts(c *gin.Context) {
	rows, err := h.attempts.ListAttempts(c.Request.Context(), c.Param("studentId"), c.Query("matchingId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch matching attempts")
		return
	}
	response.RespondOK(c, rows)
}

func (h *MatchingHandler) GetAttempt(c *gin.Context) {
	row, err := h.attempts.GetAttempt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch matching attempt")
		return
	}
	response.RespondOK(c, row)
}

func (h *MatchingHandler) UpdateAttempt(c *gin.Context) {
	var patch types.MatchingAttemptPatch
	if err := h.bind.JSON(c, &patch); err != nil {
		response.RespondErr(c, h.log, err, "Failed to update matching attempt")
		return
	}
	row, err := h.attempts.UpdateAttempt(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to update matching attempt")
		return
	}
	response.RespondOK(c, row)
}
