package services

import (
	"time"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"gorm.io/gorm"
)

// AnnouncementService manages admin notices, including scheduled
// publication.
type AnnouncementService struct {
	db *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

type CreateAnnouncementRequest struct {
	Title     string     `json:"title" binding:"required"`
	Body      string     `json:"body"`
	Category  string     `json:"category"`
	Published bool       `json:"published"`
	PublishAt *time.Time `json:"publish_at"`
}

type UpdateAnnouncementRequest struct {
	Title     *string    `json:"title"`
	Body      *string    `json:"body"`
	Category  *string    `json:"category"`
	Published *bool      `json:"published"`
	PublishAt *time.Time `json:"publish_at"`
}

// List returns announcements, newest first. publishedOnly restricts to the
// student-facing set.
func (s *AnnouncementService) List(publishedOnly bool) ([]models.Announcement, error) {
	query := s.db.Model(&models.Announcement{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var items []models.Announcement
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, storageErr(err)
	}
	return items, nil
}

func (s *AnnouncementService) GetByID(id uint) (*models.Announcement, error) {
	var item models.Announcement
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, storageErr(err)
	}
	return &item, nil
}

func (s *AnnouncementService) Create(req *CreateAnnouncementRequest, userID uint) (*models.Announcement, error) {
	item := models.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Published: req.Published,
		PublishAt: req.PublishAt,
		CreatedBy: userID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, storageErr(err)
	}
	return &item, nil
}

func (s *AnnouncementService) Update(id uint, req *UpdateAnnouncementRequest) (*models.Announcement, error) {
	var item models.Announcement
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, storageErr(err)
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if req.PublishAt != nil {
		updates["publish_at"] = *req.PublishAt
	}

	if len(updates) > 0 {
		if err := s.db.Model(&item).Updates(updates).Error; err != nil {
			return nil, storageErr(err)
		}
	}
	return &item, nil
}

func (s *AnnouncementService) Delete(id uint) error {
	result := s.db.Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PublishDue flips Published for announcements whose PublishAt has passed.
// Called by the scheduler; returns the number published.
func (s *AnnouncementService) PublishDue(now time.Time) (int64, error) {
	result := s.db.Model(&models.Announcement{}).
		Where("published = ? AND publish_at IS NOT NULL AND publish_at <= ?", false, now).
		Update("published", true)
	if result.Error != nil {
		return 0, storageErr(result.Error)
	}
	return result.RowsAffected, nil
}
