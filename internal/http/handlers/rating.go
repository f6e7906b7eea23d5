package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type RatingHandler struct {
	log     *logger.Logger
	bind    *Binder
	ratings services.RatingService
}

func NewRatingHandler(log *logger.Logger, bind *Binder, ratings services.RatingService) *RatingHandler {
	return &RatingHandler{log: log.With("handler", "RatingHandler"), bind: bind, ratings: ratings}
}

// POST /api/content-access
func (h *RatingHandler) TrackAccess(c *gin.Context) {
	var req struct {
		StudentID string `json:"student_id" binding:"notblank"`
		ContentID string `json:"content_id" binding:"notblank"`
	}
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to track content access")
		return
	}
	res, err := h.ratings.TrackAccess(c.Request.Context(), req.StudentID, req.ContentID)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to track content access")
		return
	}
	msg := "Content view count updated"
	if res.FirstView {
		msg = "Content access recorded"
	}
	response.RespondOK(c, gin.H{"success": true, "record": res.Record, "message": msg})
}

// POST /api/content-ratings
func (h *RatingHandler) Create(c *gin.Context) {
	var req types.ContentRating
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to create content rating")
		return
	}
	row, err := h.ratings.Create(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to create content rating")
		return
	}
	response.RespondOK(c, row)
}

func (h *RatingHandler) ListByStudent(c *gin.Context) {
	rows, err := h.ratings.ListByStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch student content ratings")
		return
	}
	response.RespondOK(c, rows)
}

func (h *RatingHandler) Get(c *gin.Context) {
	row, err := h.ratings.Get(c.Request.Context(), c.Param("studentId"), c.Param("contentId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content rating")
		return
	}
	response.RespondOK(c, row)
}

// PUT /api/content-ratings/:studentId/:contentId
func (h *RatingHandler) Rate(c *gin.Context) {
	var req struct {
		Rating       *types.Rating `json:"rating"`
		PersonalNote *string       `json:"personal_note"`
	}
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to update content rating")
		return
	}
	row, err := h.ratings.Rate(c.Request.Context(), c.Param("studentId"), c.Param("contentId"), req.Rating, req.PersonalNote)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to update content rating")
		return
	}
	response.RespondOK(c, row)
}

func (h *RatingHandler) Stats(c *gin.Context) {
	stats, err := h.ratings.Stats(c.Request.Context(), c.Param("contentId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content rating stats")
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/personal-content/:studentId
func (h *RatingHandler) PersonalContent(c *gin.Context) {
	rows, err := h.ratings.PersonalContent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch personal content")
		return
	}
	response.RespondOK(c, rows)
}
