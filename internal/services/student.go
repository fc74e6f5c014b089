package services

import (
	"errors"
	"strings"
	"time"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"github.com/nisshin-gakuen/admission-portal/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentService manages applicant records and their published results.
type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

type StudentListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	ExamNo    string `form:"exam_no"`
	Name      string `form:"name"`
	Course    string `form:"course"`
	Published *bool  `form:"published"`
}

type StudentListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Student `json:"items"`
}

type CreateStudentRequest struct {
	ExamNo         string         `json:"exam_no" binding:"required"`
	Name           string         `json:"name" binding:"required"`
	Kana           string         `json:"kana"`
	Phone          string         `json:"phone" binding:"required"`
	AcceptedCourse string         `json:"accepted_course"`
	Scores         map[string]any `json:"scores"`
	TotalScore     *int           `json:"total_score"`
	ExemptionKind  string         `json:"exemption_kind"`
}

type UpdateStudentRequest struct {
	Name            *string        `json:"name"`
	Kana            *string        `json:"kana"`
	Phone           *string        `json:"phone"`
	AcceptedCourse  *string        `json:"accepted_course"`
	ResultPublished *bool          `json:"result_published"`
	Scores          map[string]any `json:"scores"`
	TotalScore      *int           `json:"total_score"`
	ExemptionKind   *string        `json:"exemption_kind"`
}

// List returns paginated students for the admin view.
func (s *StudentService) List(req *StudentListRequest) (*StudentListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var students []models.Student
	var total int64

	query := s.db.Model(&models.Student{})
	if req.ExamNo != "" {
		query = query.Where("exam_no = ?", req.ExamNo)
	}
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Course != "" {
		query = query.Where("accepted_course = ?", req.Course)
	}
	if req.Published != nil {
		query = query.Where("result_published = ?", *req.Published)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("exam_no").Find(&students).Error; err != nil {
		return nil, storageErr(err)
	}

	return &StudentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    students,
	}, nil
}

// GetByID returns one student.
func (s *StudentService) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.First(&student, id).Error; err != nil {
		return nil, storageErr(err)
	}
	return &student, nil
}

// GetByExamNo returns one student by exam number.
func (s *StudentService) GetByExamNo(examNo string) (*models.Student, error) {
	var student models.Student
	if err := s.db.Where("exam_no = ?", examNo).First(&student).Error; err != nil {
		return nil, storageErr(err)
	}
	return &student, nil
}

// Create registers a student. The initial password is derived from the
// phone number and hashed; duplicate exam numbers are a conflict.
func (s *StudentService) Create(req *CreateStudentRequest) (*models.Student, error) {
	examNo := strings.TrimSpace(req.ExamNo)
	if examNo == "" {
		return nil, NewValidationError("exam_no", "exam_no is required")
	}

	var count int64
	if err := s.db.Model(&models.Student{}).Where("exam_no = ?", examNo).Count(&count).Error; err != nil {
		return nil, storageErr(err)
	}
	if count > 0 {
		return nil, ErrDuplicateKey
	}

	initial := utils.InitialPasswordFromPhone(req.Phone)
	if initial == "" {
		return nil, NewValidationError("phone", "phone must contain at least four digits")
	}
	hash, err := utils.HashPassword(initial)
	if err != nil {
		return nil, err
	}

	student := models.Student{
		ExamNo:         examNo,
		Name:           req.Name,
		Kana:           req.Kana,
		Phone:          req.Phone,
		PasswordHash:   hash,
		AcceptedCourse: req.AcceptedCourse,
		Scores:         datatypes.JSONMap(req.Scores),
		TotalScore:     req.TotalScore,
		ExemptionKind:  req.ExemptionKind,
	}
	if err := s.db.Create(&student).Error; err != nil {
		return nil, storageErr(err)
	}
	return &student, nil
}

// Update applies a partial edit to a student record.
func (s *StudentService) Update(id uint, req *UpdateStudentRequest) (*models.Student, error) {
	var student models.Student
	if err := s.db.First(&student, id).Error; err != nil {
		return nil, storageErr(err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Kana != nil {
		updates["kana"] = *req.Kana
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AcceptedCourse != nil {
		updates["accepted_course"] = *req.AcceptedCourse
	}
	if req.ResultPublished != nil {
		updates["result_published"] = *req.ResultPublished
	}
	if req.Scores != nil {
		updates["scores"] = datatypes.JSONMap(req.Scores)
	}
	if req.TotalScore != nil {
		updates["total_score"] = *req.TotalScore
	}
	if req.ExemptionKind != nil {
		updates["exemption_kind"] = *req.ExemptionKind
	}

	if len(updates) > 0 {
		if err := s.db.Model(&student).Updates(updates).Error; err != nil {
			return nil, storageErr(err)
		}
	}
	return &student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(id uint) error {
	result := s.db.Delete(&models.Student{}, id)
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword re-derives the student's password from their phone number.
func (s *StudentService) ResetPassword(id uint) error {
	var student models.Student
	if err := s.db.First(&student, id).Error; err != nil {
		return storageErr(err)
	}

	initial := utils.InitialPasswordFromPhone(student.Phone)
	if initial == "" {
		return NewValidationError("phone", "phone must contain at least four digits")
	}
	hash, err := utils.HashPassword(initial)
	if err != nil {
		return err
	}
	return storageErr(s.db.Model(&student).Update("password_hash", hash).Error)
}

// PublishResults flips result_published for all students with a recorded
// course decision. Returns the number of students affected.
func (s *StudentService) PublishResults() (int64, error) {
	result := s.db.Model(&models.Student{}).
		Where("result_published = ?", false).
		Update("result_published", true)
	if result.Error != nil {
		return 0, storageErr(result.Error)
	}
	return result.RowsAffected, nil
}

// UpsertByExamNo creates or updates a student keyed by exam number. Used by
// the CSV import path so re-running an import is idempotent.
func (s *StudentService) UpsertByExamNo(req *CreateStudentRequest) (*models.Student, bool, error) {
	var existing models.Student
	err := s.db.Where("exam_no = ?", strings.TrimSpace(req.ExamNo)).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		student, cerr := s.Create(req)
		return student, true, cerr
	}
	if err != nil {
		return nil, false, storageErr(err)
	}

	updates := map[string]interface{}{
		"name":            req.Name,
		"kana":            req.Kana,
		"phone":           req.Phone,
		"accepted_course": req.AcceptedCourse,
	}
	if req.Scores != nil {
		updates["scores"] = datatypes.JSONMap(req.Scores)
	}
	if req.TotalScore != nil {
		updates["total_score"] = *req.TotalScore
	}
	if req.ExemptionKind != "" {
		updates["exemption_kind"] = req.ExemptionKind
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, false, storageErr(err)
	}
	return &existing, false, nil
}

// TouchLogin records a successful student login.
func (s *StudentService) TouchLogin(id uint) {
	now := time.Now()
	s.db.Model(&models.Student{}).Where("id = ?", id).Update("last_login", now)
}
