package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/middleware"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

type StudentHandler struct {
	service       *services.StudentService
	importService *services.ImportService
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		service:       services.NewStudentService(db),
		importService: services.NewImportService(db),
	}
}

// List returns paginated students
// GET /api/admin/students
func (h *StudentHandler) List(c *gin.Context) {
	var req services.StudentListRequest
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

// GetByID returns one student
// GET /api/admin/students/:id
func (h *StudentHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	student, err := h.service.GetByID(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, student)
}

// Create registers one student. The initial password is derived from the
// last four digits of the phone number.
// POST /api/admin/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	student, err := h.service.Create(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, student)
}

// Update edits a student record
// PUT /api/admin/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	student, err := h.service.Update(id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, student)
}

// Delete removes a student
// DELETE /api/admin/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "student deleted"})
}

// ResetPassword restores the student's initial phone-derived password
// POST /api/admin/students/:id/reset-password
func (h *StudentHandler) ResetPassword(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.ResetPassword(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "password reset"})
}

// PublishResults flips every student's result to visible
// POST /api/admin/students/publish-results
func (h *StudentHandler) PublishResults(c *gin.Context) {
	n, err := h.service.PublishResults()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"published": n})
}

// Import accepts a CSV upload and queues it for processing
// POST /api/admin/students/import
func (h *StudentHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot read file")
		return
	}
	defer f.Close()

	rows, err := h.importService.ParseCSV(f)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	task := &services.ImportTask{
		Rows:       rows,
		UploadedBy: middleware.GetUserID(c),
	}
	queue := services.GetTaskQueue()
	if queue == nil {
		response.Unavailable(c, "import queue not ready")
		return
	}
	if err := queue.Enqueue(task); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"queued": len(rows),
		"async":  queue.IsAsync(),
	})
}

// MyResult returns the authenticated student's exam result, only after
// results are published.
// GET /api/my/result
func (h *StudentHandler) MyResult(c *gin.Context) {
	student, err := h.service.GetByID(middleware.GetUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if !student.ResultPublished {
		response.Forbidden(c, "results are not published yet")
		return
	}

	response.Success(c, gin.H{
		"exam_no":         student.ExamNo,
		"name":            student.Name,
		"accepted":        student.Accepted(),
		"accepted_course": student.AcceptedCourse,
		"scores":          student.Scores,
		"total_score":     student.TotalScore,
	})
}
