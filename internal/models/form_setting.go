package models

import (
	"strings"
	"time"
)

// Field types an administrator can assign to a form field.
const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeTel      = "tel"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeTextarea = "textarea"
	FieldTypeCheckbox = "checkbox"
	FieldTypeRadio    = "radio"
)

// Steps of the enrollment profile form. Each form setting belongs to
// exactly one step via its Group column.
const (
	StepPersonal = "personal"
	StepCommute  = "commute"
	StepArt      = "art"
	StepHealth   = "health"
	StepFamily   = "family"
)

// ValueKind distinguishes how a field's submitted value is stored.
type ValueKind string

const (
	KindString  ValueKind = "string"
	KindBoolean ValueKind = "boolean"
)

// FormSetting is an admin-authored field definition driving the student
// enrollment form: which fields exist, where they render, and whether they
// are required. Rows are hard-deleted so a removed key can be recreated.
type FormSetting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FieldKey        string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Label           string    `gorm:"size:200;not null" json:"label"`
	Type            string    `gorm:"size:20;not null" json:"type"`
	Group           string    `gorm:"size:50;index;not null" json:"group"`
	SortOrder       int       `gorm:"default:0" json:"order"`
	Required        bool      `gorm:"default:false" json:"required"`
	Visible         bool      `gorm:"default:true" json:"visible"`
	Editable        bool      `gorm:"default:true" json:"editable"`
	Options         string    `gorm:"size:2000" json:"options"`
	ValidationRules string    `gorm:"size:500" json:"validation_rules"`
	Placeholder     string    `gorm:"size:200" json:"placeholder"`
	HelpText        string    `gorm:"size:500" json:"help_text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (FormSetting) TableName() string { return "form_settings" }

// Kind returns how submitted values for this field are typed. The kind is
// derived from Type alone; no key-name matching.
func (f *FormSetting) Kind() ValueKind {
	if f.Type == FieldTypeCheckbox {
		return KindBoolean
	}
	return KindString
}

// OptionList splits the stored options string on commas and trims each
// entry. Empty entries are dropped. Only meaningful for select/radio.
func (f *FormSetting) OptionList() []string {
	if f.Options == "" {
		return nil
	}
	var opts []string
	for _, part := range strings.Split(f.Options, ",") {
		if p := strings.TrimSpace(part); p != "" {
			opts = append(opts, p)
		}
	}
	return opts
}

// ValidFieldType reports whether t is one of the supported field types.
func ValidFieldType(t string) bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypeDate,
		FieldTypeSelect, FieldTypeTextarea, FieldTypeCheckbox, FieldTypeRadio:
		return true
	}
	return false
}

// ValidStep reports whether g names one of the form steps.
func ValidStep(g string) bool {
	switch g {
	case StepPersonal, StepCommute, StepArt, StepHealth, StepFamily:
		return true
	}
	return false
}
