package models

import "time"

// Refresh token subjects.
const (
	SubjectUser    = "user"
	SubjectStudent = "student"
)

// RefreshToken is a rotating server-side session record. SubjectType tells
// whether SubjectID points at a users row or a students row.
type RefreshToken struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	SubjectType       string     `gorm:"size:20;index;not null" json:"subject_type"`
	SubjectID         uint       `gorm:"index;not null" json:"subject_id"`
	TokenHash         string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt         time.Time  `gorm:"index;not null" json:"expires_at"`
	RevokedAt         *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	ReplacedByTokenID *uint      `gorm:"index" json:"replaced_by_token_id,omitempty"`
	CreatedByIP       string     `gorm:"size:64" json:"created_by_ip,omitempty"`
	UserAgent         string     `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
