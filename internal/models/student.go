package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student is one applicant: their exam identity, login credential, and
// published result. AcceptedCourse being non-empty is what admits the
// student to the enrollment form. Rows are hard-deleted so a removed exam
// number can be registered again.
type Student struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ExamNo       string `gorm:"uniqueIndex;size:20;not null" json:"exam_no"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Kana         string `gorm:"size:100" json:"kana"`
	Phone        string `gorm:"size:30" json:"phone"`
	PasswordHash string `gorm:"size:255" json:"-"`

	AcceptedCourse  string            `gorm:"size:100" json:"accepted_course"`
	ResultPublished bool              `gorm:"default:false" json:"result_published"`
	Scores          datatypes.JSONMap `gorm:"type:json" json:"scores"`
	TotalScore      *int              `json:"total_score"`

	// ExemptionKind references FeeExemption.Kind; empty means no exemption.
	ExemptionKind string `gorm:"size:50" json:"exemption_kind"`

	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Student) TableName() string { return "students" }

// Accepted reports whether the student passed and may fill the enrollment
// profile form.
func (s *Student) Accepted() bool {
	return s.AcceptedCourse != ""
}
