package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile holds one student's enrollment form answers. Answers live in a
// JSON map keyed by field key, so an admin-declared field needs no storage
// migration. Values are strings, or booleans for checkbox fields.
type Profile struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	StudentID uint              `gorm:"uniqueIndex;not null" json:"student_id"`
	Values    datatypes.JSONMap `gorm:"type:json" json:"values"`

	PersonalInfoCompleted bool `gorm:"default:false" json:"personal_info_completed"`
	CommuteInfoCompleted  bool `gorm:"default:false" json:"commute_info_completed"`
	ArtSelectionCompleted bool `gorm:"default:false" json:"art_selection_completed"`
	HealthInfoCompleted   bool `gorm:"default:false" json:"health_info_completed"`
	FamilyInfoCompleted   bool `gorm:"default:false" json:"family_info_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// StepCompleted returns the completion flag for the given step.
func (p *Profile) StepCompleted(step string) bool {
	switch step {
	case StepPersonal:
		return p.PersonalInfoCompleted
	case StepCommute:
		return p.CommuteInfoCompleted
	case StepArt:
		return p.ArtSelectionCompleted
	case StepHealth:
		return p.HealthInfoCompleted
	case StepFamily:
		return p.FamilyInfoCompleted
	}
	return false
}

// SetStepCompleted sets the completion flag for the given step.
func (p *Profile) SetStepCompleted(step string, completed bool) {
	switch step {
	case StepPersonal:
		p.PersonalInfoCompleted = completed
	case StepCommute:
		p.CommuteInfoCompleted = completed
	case StepArt:
		p.ArtSelectionCompleted = completed
	case StepHealth:
		p.HealthInfoCompleted = completed
	case StepFamily:
		p.FamilyInfoCompleted = completed
	}
}

// AllStepsCompleted reports whether every step has been submitted. There is
// no stored global flag; readers compute the conjunction on demand.
func (p *Profile) AllStepsCompleted() bool {
	return p.PersonalInfoCompleted &&
		p.CommuteInfoCompleted &&
		p.ArtSelectionCompleted &&
		p.HealthInfoCompleted &&
		p.FamilyInfoCompleted
}

// StepCompletionColumn maps a step name to its database column. Used for
// field-level updates inside the upsert transaction.
func StepCompletionColumn(step string) string {
	switch step {
	case StepPersonal:
		return "personal_info_completed"
	case StepCommute:
		return "commute_info_completed"
	case StepArt:
		return "art_selection_completed"
	case StepHealth:
		return "health_info_completed"
	case StepFamily:
		return "family_info_completed"
	}
	return ""
}
