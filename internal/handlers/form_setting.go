package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

// FormSettingHandler exposes the admin form-builder API. Field keys live in
// the URL; the key of an existing definition never changes.
type FormSettingHandler struct {
	service *services.FormSettingService
}

func NewFormSettingHandler(db *gorm.DB) *FormSettingHandler {
	return &FormSettingHandler{service: services.NewFormSettingService(db)}
}

// List returns field definitions ordered by (group, sort_order)
// GET /api/admin/form-settings?group=personal
func (h *FormSettingHandler) List(c *gin.Context) {
	fields, err := h.service.List(c.Query("group"), false)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, fields)
}

// Create declares a new form field
// POST /api/admin/form-settings
func (h *FormSettingHandler) Create(c *gin.Context) {
	var req services.CreateFormSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	field, err := h.service.Create(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, field)
}

// Update edits a field definition; the key itself is immutable
// PUT /api/admin/form-settings/:key
func (h *FormSettingHandler) Update(c *gin.Context) {
	var req services.UpdateFormSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	field, err := h.service.Update(c.Param("key"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, field)
}

// Delete removes a field definition. Stored answers under the key are left
// in place and simply stop rendering.
// DELETE /api/admin/form-settings/:key
func (h *FormSettingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("key")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "field deleted"})
}

// Schema returns the visible field definitions for the student form
// GET /api/my/form-settings?group=personal
func (h *FormSettingHandler) Schema(c *gin.Context) {
	fields, err := h.service.List(c.Query("group"), true)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, fields)
}
