package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/middleware"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

type FeeHandler struct {
	service        *services.FeeService
	studentService *services.StudentService
}

func NewFeeHandler(db *gorm.DB) *FeeHandler {
	return &FeeHandler{
		service:        services.NewFeeService(db),
		studentService: services.NewStudentService(db),
	}
}

// ListItems returns the fee schedule
// GET /api/admin/fees
func (h *FeeHandler) ListItems(c *gin.Context) {
	items, err := h.service.ListItems()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// CreateItem adds a fee line
// POST /api/admin/fees
func (h *FeeHandler) CreateItem(c *gin.Context) {
	var req services.CreateFeeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.CreateItem(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateItem edits a fee line
// PUT /api/admin/fees/:id
func (h *FeeHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateFeeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.UpdateItem(id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteItem removes a fee line
// DELETE /api/admin/fees/:id
func (h *FeeHandler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "fee item deleted"})
}

// ListExemptions returns the declared exemption kinds
// GET /api/admin/fee-exemptions
func (h *FeeHandler) ListExemptions(c *gin.Context) {
	items, err := h.service.ListExemptions()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// CreateExemption declares an exemption kind
// POST /api/admin/fee-exemptions
func (h *FeeHandler) CreateExemption(c *gin.Context) {
	var req services.CreateFeeExemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.CreateExemption(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, item)
}

// DeleteExemption removes an exemption kind
// DELETE /api/admin/fee-exemptions/:id
func (h *FeeHandler) DeleteExemption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteExemption(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "exemption deleted"})
}

// MyFees returns the authenticated student's fee summary with any exemption
// applied.
// GET /api/my/fees
func (h *FeeHandler) MyFees(c *gin.Context) {
	student, err := h.studentService.GetByID(middleware.GetUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	summary, err := h.service.SummaryFor(student)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, summary)
}
