package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type HierarchyHandler struct {
	log       *logger.Logger
	hierarchy services.HierarchyService
}

func NewHierarchyHandler(log *logger.Logger, hierarchy services.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{log: log.With("handler", "HierarchyHandler"), hierarchy: hierarchy}
}

// GET /api/hierarchy/:studentId?rating=
func (h *HierarchyHandler) Tree(c *gin.Context) {
	rating := types.Rating(strings.TrimSpace(c.Query("rating")))
	view, err := h.hierarchy.Tree(c.Request.Context(), c.Param("studentId"), rating)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to build content hierarchy")
		return
	}
	response.RespondOK(c, view)
}
