package models

import (
	"time"

	"gorm.io/gorm"
)

// Document categories.
const (
	DocCategoryCertificate = "certificate"
	DocCategoryDocument    = "document"
)

// Document is an admin-uploaded downloadable file (admission certificate,
// required enrollment paperwork). StoredName is the uuid-based name on
// disk; FileName is the original name offered on download.
type Document struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Category    string         `gorm:"size:50;index;not null" json:"category"`
	FileName    string         `gorm:"size:255;not null" json:"file_name"`
	StoredName  string         `gorm:"uniqueIndex;size:100;not null" json:"-"`
	Size        int64          `json:"size"`
	ContentType string         `gorm:"size:100" json:"content_type"`
	CreatedBy   uint           `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string { return "documents" }
