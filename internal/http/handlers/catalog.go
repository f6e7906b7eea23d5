package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type CatalogHandler struct {
	log     *logger.Logger
	bind    *Binder
	catalog services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, bind *Binder, catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), bind: bind, catalog: catalog}
}

// GET /api/topics
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	rows, err := h.catalog.ListTopics(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch topics")
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/topics/bowl-challenge
func (h *CatalogHandler) ListBowlChallengeTopics(c *gin.Context) {
	rows, err := h.catalog.ListBowlChallengeTopics(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch bowl challenge topics")
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/topics/:id
func (h *CatalogHandler) GetTopic(c *gin.Context) {
	row, err := h.catalog.GetTopic(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch topic")
		return
	}
	response.RespondOK(c, row)
}

// POST /api/topics
func (h *CatalogHandler) CreateTopic(c *gin.Context) {
	var req types.Topic
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to create topic")
		return
	}
	row, err := h.catalog.CreateTopic(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to create topic")
		return
	}
	response.RespondOK(c, gin.H{"success": true, "topic": row, "message": "Topic created successfully"})
}

// PUT /api/topics/:id
func (h *CatalogHandler) UpdateTopic(c *gin.Context) {
	var patch types.TopicPatch
	if err := h.bind.JSON(c, &patch); err != nil {
		response.RespondErr(c, h.log, err, "Failed to update topic")
		return
	}
	row, err := h.catalog.UpdateTopic(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to update topic")
		return
	}
	response.RespondOK(c, gin.H{"success": true, "topic": row, "message": "Topic updated successfully"})
}

// GET /api/content?topicId=
func (h *CatalogHandler) ListContent(c *gin.Context) {
	rows, err := h.catalog.ListContent(c.Request.Context(), c.Query("topicId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content")
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/content/:id
func (h *CatalogHandler) GetContent(c *gin.Context) {
	row, err := h.catalog.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content")
		return
	}
	response.RespondOK(c, row)
}

// POST /api/content
func (h *CatalogHandler) CreateContent(c *gin.Context) {
	var req types.Content
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to create content")
		return
	}
	row, err := h.catalog.CreateContent(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to create content")
		return
	}
	response.RespondOK(c, gin.H{"success": true, "content": row, "message": "Content created successfully"})
}

// PATCH /api/content/:id
func (h *CatalogHandler) UpdateContent(c *gin.Context) {
	var patch types.ContentPatch
	if err := h.bind.JSON(c, &patch); err != nil {
		response.RespondErr(c, h.log, err, "Failed to update content")
		return
	}
	row, err := h.catalog.UpdateContent(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to update content")
		return
	}
	response.RespondOK(c, row)
}

func (h *CatalogHandler) ListContentGroups(c *gin.Context) {
	rows, err := h.catalog.ListContentGroups(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content groups")
		return
	}
	response.RespondOK(c, rows)
}

func (h *CatalogHandler) ListContentByGroup(c *gin.Context) {
	rows, err := h.catalog.ListContentByGroup(c.Request.Context(), c.Param("groupName"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content by group")
		return
	}
	response.RespondOK(c, rows)
}

func (h *CatalogHandler) SplitTopicContent(c *gin.Context) {
	split, err := h.catalog.SplitTopicContent(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content groups for topic")
		return
	}
	response.RespondOK(c, split)
}

func (h *CatalogHandler) ListImages(c *gin.Context) {
	rows, err := h.catalog.ListImages(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch images")
		return
	}
	response.RespondOK(c, rows)
}

func (h *CatalogHandler) GetImage(c *gin.Context) {
	row, err := h.catalog.GetImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch image")
		return
	}
	response.RespondOK(c, row)
}

func (h *CatalogHandler) ListVideos(c *gin.Context) {
	rows, err := h.catalog.ListVideos(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch videos")
		return
	}
	response.RespondOK(c, rows)
}

func (h *CatalogHandler) GetVideo(c *gin.Context) {
	row, err := h.catalog.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch video")
		return
	}
	response.RespondOK(c, row)
}

// GET /api/content/:id/videos
func (h *CatalogHandler) ListContentVideos(c *gin.Context) {
	rows, err := h.catalog.ListContentVideos(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch content videos")
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/questions?contentId=&topicId=&level=
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	filter := types.QuestionFilter{
		ContentID: strings.TrimSpace(c.Query("contentId")),
		TopicID:   strings.TrimSpace(c.Query("topicId")),
		Level:     c.Query("level"),
	}
	rows, err := h.catalog.ListQuestions(c.Request.Context(), filter)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch questions")
		return
	}
	response.RespondOK(c, rows)
}

func (h *CatalogHandler) GetQuestion(c *gin.Context) {
	row, err := h.catalog.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch question")
		return
	}
	response.RespondOK(c, row)
}

func (h *CatalogHandler) ListMatching(c *gin.Context) {
	rows, err := h.catalog.ListMatching(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch matching activities")
		return
	}
	response.RespondOK(c, rows)
}

func (h *CatalogHandler) GetMatching(c *gin.Context) {
	row, err := h.catalog.GetMatching(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch matching activity")
		return
	}
	response.RespondOK(c, row)
}

func (h *CatalogHandler) ListMatchingByTopic(c *gin.Context) {
	rows, err := h.catalog.ListMatchingByTopic(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to fetch matching activities by topic")
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/matching
func (h *CatalogHandler) CreateMatching(c *gin.Context) {
	var req types.Matching
	if err := h.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err, "Failed to create matching activity")
		return
	}
	row, err := h.catalog.CreateMatching(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err, "Failed to create matching activity")
		return
	}
	response.RespondOK(c, gin.H{"success": true, "matching": row, "message": "Matching activity created successfully"})
}
