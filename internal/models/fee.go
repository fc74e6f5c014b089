package models

import (
	"time"

	"gorm.io/gorm"
)

// FeeItem is one line of the enrollment fee schedule.
type FeeItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	AmountYen int            `gorm:"not null" json:"amount_yen"`
	Category  string         `gorm:"size:50;index" json:"category"` // admission, tuition, facility
	DueDate   *time.Time     `json:"due_date"`
	Note      string         `gorm:"size:500" json:"note"`
	SortOrder int            `gorm:"default:0" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FeeItem) TableName() string { return "fee_items" }

// FeeExemption is a fee reduction rule. Kind is the explicit machine tag
// students are matched against; eligibility never depends on the display
// name. Rows are hard-deleted so a removed kind can be declared again.
type FeeExemption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Kind      string    `gorm:"uniqueIndex;size:50;not null" json:"kind"` // sibling, staff, scholarship
	AmountYen int       `gorm:"not null" json:"amount_yen"`
	Note      string    `gorm:"size:500" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FeeExemption) TableName() string { return "fee_exemptions" }
