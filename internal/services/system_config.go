package services

import (
	"time"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"gorm.io/gorm"
)

// SystemConfigService reads and writes portal-wide key/value settings.
type SystemConfigService struct {
	db *gorm.DB
}

func NewSystemConfigService(db *gorm.DB) *SystemConfigService {
	return &SystemConfigService{db: db}
}

func (s *SystemConfigService) Get(key string) (string, error) {
	var cfg models.SystemConfig
	if err := s.db.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		return "", storageErr(err)
	}
	return cfg.Value, nil
}

func (s *SystemConfigService) GetWithDefault(key, defaultValue string) string {
	value, err := s.Get(key)
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *SystemConfigService) Set(key, value string) error {
	var cfg models.SystemConfig
	err := s.db.Where("`key` = ?", key).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = models.SystemConfig{Key: key, Value: value}
		return storageErr(s.db.Create(&cfg).Error)
	}
	if err != nil {
		return storageErr(err)
	}
	return storageErr(s.db.Model(&cfg).Update("value", value).Error)
}

func (s *SystemConfigService) GetByGroup(group string) ([]models.SystemConfig, error) {
	var configs []models.SystemConfig
	if err := s.db.Where("`group` = ?", group).Find(&configs).Error; err != nil {
		return nil, storageErr(err)
	}
	return configs, nil
}

type EnrollmentWindowResponse struct {
	OpenAt  string `json:"open_at"`
	CloseAt string `json:"close_at"`
	Open    bool   `json:"open"`
}

type UpdateEnrollmentWindowRequest struct {
	OpenAt  *string `json:"open_at"`  // RFC 3339; empty string clears
	CloseAt *string `json:"close_at"` // RFC 3339; empty string clears
}

// GetEnrollmentWindow returns the configured window and whether it is open
// right now. An unset bound does not constrain.
func (s *SystemConfigService) GetEnrollmentWindow() *EnrollmentWindowResponse {
	openAt := s.GetWithDefault("enrollment_open_at", "")
	closeAt := s.GetWithDefault("enrollment_close_at", "")
	return &EnrollmentWindowResponse{
		OpenAt:  openAt,
		CloseAt: closeAt,
		Open:    enrollmentWindowOpen(openAt, closeAt, time.Now()),
	}
}

// EnrollmentOpen reports whether the enrollment window is currently open.
func (s *SystemConfigService) EnrollmentOpen() bool {
	return enrollmentWindowOpen(
		s.GetWithDefault("enrollment_open_at", ""),
		s.GetWithDefault("enrollment_close_at", ""),
		time.Now(),
	)
}

func (s *SystemConfigService) UpdateEnrollmentWindow(req *UpdateEnrollmentWindowRequest) error {
	if req.OpenAt != nil {
		if err := validateWindowBound(*req.OpenAt); err != nil {
			return err
		}
		if err := s.Set("enrollment_open_at", *req.OpenAt); err != nil {
			return err
		}
	}
	if req.CloseAt != nil {
		if err := validateWindowBound(*req.CloseAt); err != nil {
			return err
		}
		if err := s.Set("enrollment_close_at", *req.CloseAt); err != nil {
			return err
		}
	}
	return nil
}

func validateWindowBound(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return NewValidationError("enrollment_window", "timestamps must be RFC 3339")
	}
	return nil
}

// enrollmentWindowOpen evaluates the window at a given instant. Malformed
// stored bounds are ignored rather than locking students out.
func enrollmentWindowOpen(openAt, closeAt string, now time.Time) bool {
	if openAt != "" {
		if t, err := time.Parse(time.RFC3339, openAt); err == nil && now.Before(t) {
			return false
		}
	}
	if closeAt != "" {
		if t, err := time.Parse(time.RFC3339, closeAt); err == nil && now.After(t) {
			return false
		}
	}
	return true
}
