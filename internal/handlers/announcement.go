package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/middleware"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

type AnnouncementHandler struct {
	service *services.AnnouncementService
}

func NewAnnouncementHandler(db *gorm.DB) *AnnouncementHandler {
	return &AnnouncementHandler{service: services.NewAnnouncementService(db)}
}

// ListPublished returns the student-facing announcements
// GET /api/announcements
func (h *AnnouncementHandler) ListPublished(c *gin.Context) {
	items, err := h.service.List(true)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// List returns all announcements including drafts
// GET /api/admin/announcements
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.service.List(false)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// GetByID returns one announcement
// GET /api/admin/announcements/:id
func (h *AnnouncementHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// Create adds an announcement, optionally scheduled via publish_at
// POST /api/admin/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req services.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.Create(&req, middleware.GetUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, item)
}

// Update edits an announcement
// PUT /api/admin/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.Update(id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete removes an announcement
// DELETE /api/admin/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "announcement deleted"})
}
