package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/middleware"
	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	service        *services.ProfileService
	studentService *services.StudentService
	configService  *services.SystemConfigService
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		service:        services.NewProfileService(db),
		studentService: services.NewStudentService(db),
		configService:  services.NewSystemConfigService(db),
	}
}

type profileResponse struct {
	*models.Profile
	AllCompleted bool `json:"all_completed"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{Profile: p, AllCompleted: p.AllStepsCompleted()}
}

// SaveProfileRequest carries a partial save or a step submission. Values may
// hold any subset of the declared fields; unknown keys are ignored. When
// Step is set the step's completion flag is updated, and Completed=true
// validates the step's required fields first.
type SaveProfileRequest struct {
	Values    map[string]interface{} `json:"values"`
	Step      string                 `json:"step"`
	Completed bool                   `json:"completed"`
}

// enrollmentStudent loads the authenticated student and checks that the
// enrollment form applies to them.
func (h *ProfileHandler) enrollmentStudent(c *gin.Context) (*models.Student, bool) {
	student, err := h.studentService.GetByID(middleware.GetUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	if !student.Accepted() {
		response.Forbidden(c, "enrollment form is only available to accepted students")
		return nil, false
	}
	return student, true
}

// MyProfile returns the student's own profile. A student who has not saved
// anything yet gets an empty scaffold rather than a 404.
// GET /api/my/profile
func (h *ProfileHandler) MyProfile(c *gin.Context) {
	student, ok := h.enrollmentStudent(c)
	if !ok {
		return
	}

	profile, err := h.service.Get(student.ID)
	if errors.Is(err, services.ErrNotFound) {
		profile = &models.Profile{
			StudentID: student.ID,
			Values:    datatypes.JSONMap{},
		}
	} else if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, toProfileResponse(profile))
}

// SaveMyProfile merges a partial save or step submission into the profile
// PUT /api/my/profile
func (h *ProfileHandler) SaveMyProfile(c *gin.Context) {
	student, ok := h.enrollmentStudent(c)
	if !ok {
		return
	}

	if !h.configService.EnrollmentOpen() {
		response.Forbidden(c, "enrollment period is closed")
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.service.Upsert(student.ID, req.Values, req.Step, req.Completed)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, toProfileResponse(profile))
}

// List returns every saved profile for the admin overview
// GET /api/admin/profiles
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.service.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	items := make([]profileResponse, len(profiles))
	for i := range profiles {
		items[i] = toProfileResponse(&profiles[i])
	}
	response.Success(c, items)
}

// GetByStudent returns one student's profile for review. Unlike the student
// view, a missing profile is a 404 here.
// GET /api/admin/students/:id/profile
func (h *ProfileHandler) GetByStudent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile, err := h.service.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, toProfileResponse(profile))
}

// SaveByStudent lets an admin correct a student's answers
// PUT /api/admin/students/:id/profile
func (h *ProfileHandler) SaveByStudent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.service.Upsert(id, req.Values, req.Step, req.Completed)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, toProfileResponse(profile))
}

// DeleteByStudent removes a student's profile
// DELETE /api/admin/students/:id/profile
func (h *ProfileHandler) DeleteByStudent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "profile deleted"})
}
