package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type StudentTryHandler struct {
	log   *logger.Logger
	bind  *Binder
	tries services.StudentTryService
}

func NewStudentTryHandler(log *logger.Logger, bind *Binder, tries services.StudentTryService) *StudentTryHandler {
	return &StudentTryHandler{log: log.With("handler", "StudentTryHandler"), bind: bind, tries: tries}
}

func (h *StudentTryHandler) List(c *gin.Context) {
	rows, err := h.tries.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch student tries")
		return
	}
	response.RespondOK(c, rows)
}

func (h *StudentTryHandler) Create(c *gin.Context) {
	var req types.StudentTry
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to create student try")
		return
	}
	row, err := h.tries.Create(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to create student try")
		return
	}
	response.RespondOK(c, row)
}

func (h *StudentTryHandler) Get(c *gin.Context) {
	row, err := h.tries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch student try")
		return
	}
	response.RespondOK(c, row)
}

func (h *StudentTryHandler) Update(c *gin.Context) {
	var patch types.StudentTryPatch
	if err := h.bind.JSON(c, &patch); err != nil {
		response.RespondErr(c, h.log, err, "Failed to update student try")
		return
	}
	row, err := h.tries.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to update student try")
		return
	}
	response.RespondOK(c, row)
}

// GET /api/student-tries-count/:studentId?contentIds=a,b
func (h *StudentTryHandler) CountsByContent(c *gin.Context) {
	raw := c.Query("contentIds")
	if strings.TrimSpace(raw) == "" {
		response.RespondOK(c, gin.H{})
		return
	}
	counts, err := h.tries.CountsByContent(c.Request.Context(), c.Param("studentId"), strings.Split(raw, ","))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch student tries count")
		return
	}
	response.RespondOK(c, counts)
}

// GET /api/student-try-content/:studentId
func (h *StudentTryHandler) ListTryContent(c *gin.Context) {
	rows, err := h.tries.ListTryContent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch student try content")
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/student-try-content
func (h *StudentTryHandler) ListRecentTryContent(c *gin.Context) {
	rows, err := h.tries.ListRecentTryContent(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch recent student try content")
		return
	}
	response.RespondOK(c, rows)
}
