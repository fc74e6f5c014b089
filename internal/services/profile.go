package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileService persists enrollment form answers and the per-step
// completion flags.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Get returns a student's profile, or ErrNotFound when the student has not
// saved anything yet. A missing profile is an expected state for a new
// student; callers decide whether that is a 404 or an empty scaffold.
func (s *ProfileService) Get(studentID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("student_id = ?", studentID).First(&profile).Error; err != nil {
		return nil, storageErr(err)
	}
	return &profile, nil
}

// Upsert merges partial answers into the student's profile. When step is
// non-empty the named step's completion flag is set to completed; a submit
// (completed=true) first validates every required field in the step against
// the merged record and, on failure, persists nothing.
//
// The merge is a read-modify-write inside one transaction so concurrent
// partial saves from the same student cannot clobber unrelated fields.
func (s *ProfileService) Upsert(studentID uint, partial map[string]interface{}, step string, completed bool) (*models.Profile, error) {
	if step != "" && !models.ValidStep(step) {
		return nil, NewValidationError("step", "unknown step: "+step)
	}

	fields, err := s.allFields()
	if err != nil {
		return nil, err
	}

	var result *models.Profile
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.Where("student_id = ?", studentID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.Profile{
				StudentID: studentID,
				Values:    datatypes.JSONMap{},
			}
		} else if err != nil {
			return storageErr(err)
		}

		if profile.Values == nil {
			profile.Values = datatypes.JSONMap{}
		}
		mergeValues(profile.Values, partial, fields)

		if step != "" && completed {
			if unsatisfied := ValidateStep(fields, step, profile.Values); len(unsatisfied) > 0 {
				return &ValidationError{Fields: unsatisfied}
			}
		}
		if step != "" {
			profile.SetStepCompleted(step, completed)
		}

		if err := tx.Save(&profile).Error; err != nil {
			return storageErr(err)
		}
		result = &profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a student's profile. Returns ErrNotFound when no row
// existed so the admin handler can answer 404.
func (s *ProfileService) Delete(studentID uint) error {
	result := s.db.Where("student_id = ?", studentID).Delete(&models.Profile{})
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all profiles joined with their students, for the admin
// overview.
func (s *ProfileService) List() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.Order("student_id").Find(&profiles).Error; err != nil {
		return nil, storageErr(err)
	}
	return profiles, nil
}

func (s *ProfileService) allFields() ([]models.FormSetting, error) {
	var fields []models.FormSetting
	if err := s.db.Order("`group`, sort_order, id").Find(&fields).Error; err != nil {
		return nil, storageErr(err)
	}
	return fields, nil
}

// mergeValues copies partial into values field-by-field. Keys without a
// schema definition are dropped; checkbox fields are coerced to booleans.
// Fields absent from partial are left untouched.
func mergeValues(values datatypes.JSONMap, partial map[string]interface{}, fields []models.FormSetting) {
	byKey := make(map[string]*models.FormSetting, len(fields))
	for i := range fields {
		byKey[fields[i].FieldKey] = &fields[i]
	}

	for key, raw := range partial {
		field, ok := byKey[key]
		if !ok {
			continue
		}
		if field.Kind() == models.KindBoolean {
			if b, ok := CoerceBool(raw); ok {
				values[key] = b
			} else {
				// Unrecognized token leaves the field unset.
				delete(values, key)
			}
			continue
		}
		values[key] = toString(raw)
	}
}

// CoerceBool maps a submitted checkbox value onto a boolean.
// "あり"/"true"/true answer yes, "なし"/"false"/false answer no; anything
// else is treated as unanswered.
func CoerceBool(raw interface{}) (value, ok bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.TrimSpace(v) {
		case "あり", "true":
			return true, true
		case "なし", "false":
			return false, true
		}
	}
	return false, false
}

// ValidateStep returns the unsatisfied required fields of a step given the
// record's current values. Boolean fields are satisfied unless unset
// (false counts as answered); string fields must be non-empty after
// trimming. Every failure is reported, not just the first.
func ValidateStep(fields []models.FormSetting, step string, values map[string]interface{}) map[string]string {
	unsatisfied := make(map[string]string)
	for i := range fields {
		f := &fields[i]
		if f.Group != step || !f.Required {
			continue
		}

		raw, present := values[f.FieldKey]
		satisfied := false
		if f.Kind() == models.KindBoolean {
			if present {
				_, satisfied = raw.(bool)
			}
		} else if present {
			s, ok := raw.(string)
			satisfied = ok && strings.TrimSpace(s) != ""
		}

		if !satisfied {
			unsatisfied[f.FieldKey] = f.Label + "は必須項目です"
		}
	}
	if len(unsatisfied) == 0 {
		return nil
	}
	return unsatisfied
}

func toString(raw interface{}) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	// Other JSON scalars arrive as interface{} from gin binding.
	switch v := raw.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
