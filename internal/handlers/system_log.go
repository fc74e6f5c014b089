package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

type SystemLogHandler struct {
	service *services.SystemLogService
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{service: services.NewSystemLogService(db)}
}

// List returns paginated audit log entries
// GET /api/admin/logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// GetRetention returns the retention window in days
// GET /api/admin/logs/retention
func (h *SystemLogHandler) GetRetention(c *gin.Context) {
	response.Success(c, gin.H{"retention_days": h.service.GetRetentionDays()})
}

type setRetentionRequest struct {
	RetentionDays int `json:"retention_days" binding:"required,min=1"`
}

// SetRetention updates the retention window
// PUT /api/admin/logs/retention
func (h *SystemLogHandler) SetRetention(c *gin.Context) {
	var req setRetentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SetRetentionDays(req.RetentionDays); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"retention_days": req.RetentionDays})
}

// Cleanup removes entries older than the retention window
// POST /api/admin/logs/cleanup
func (h *SystemLogHandler) Cleanup(c *gin.Context) {
	removed, err := h.service.CleanupOldLogs(h.service.GetRetentionDays())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}
