package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement is an admin-published notice shown to students. A row with
// PublishAt in the future stays hidden until the scheduler flips Published.
type Announcement struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	Category  string         `gorm:"size:50;index" json:"category"` // general, result, enrollment
	Published bool           `gorm:"default:false;index" json:"published"`
	PublishAt *time.Time     `gorm:"index" json:"publish_at"`
	CreatedBy uint           `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Announcement) TableName() string { return "announcements" }
