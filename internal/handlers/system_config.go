package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

type SystemConfigHandler struct {
	service *services.SystemConfigService
}

func NewSystemConfigHandler(db *gorm.DB) *SystemConfigHandler {
	return &SystemConfigHandler{service: services.NewSystemConfigService(db)}
}

// GetEnrollmentWindow returns the window bounds and whether it is open now.
// Public so the student portal can show the deadline before login.
// GET /api/enrollment-window
func (h *SystemConfigHandler) GetEnrollmentWindow(c *gin.Context) {
	response.Success(c, h.service.GetEnrollmentWindow())
}

// UpdateEnrollmentWindow sets the window bounds
// PUT /api/admin/enrollment-window
func (h *SystemConfigHandler) UpdateEnrollmentWindow(c *gin.Context) {
	var req services.UpdateEnrollmentWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateEnrollmentWindow(&req); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, h.service.GetEnrollmentWindow())
}

// ListByGroup returns settings in a config group
// GET /api/admin/configs?group=general
func (h *SystemConfigHandler) ListByGroup(c *gin.Context) {
	configs, err := h.service.GetByGroup(c.DefaultQuery("group", "general"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, configs)
}

type setConfigRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// Set stores one setting
// PUT /api/admin/configs
func (h *SystemConfigHandler) Set(c *gin.Context) {
	var req setConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Set(req.Key, req.Value); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"key": req.Key, "value": req.Value})
}
