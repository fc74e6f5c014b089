package services

import (
	"strings"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"gorm.io/gorm"
)

// FormSettingService owns the admin-configurable field schema driving the
// enrollment form.
type FormSettingService struct {
	db *gorm.DB
}

func NewFormSettingService(db *gorm.DB) *FormSettingService {
	return &FormSettingService{db: db}
}

type CreateFormSettingRequest struct {
	Key             string `json:"key" binding:"required"`
	Label           string `json:"label" binding:"required"`
	Type            string `json:"type" binding:"required"`
	Group           string `json:"group" binding:"required"`
	Order           int    `json:"order"`
	Required        bool   `json:"required"`
	Visible         *bool  `json:"visible"`
	Editable        *bool  `json:"editable"`
	Options         string `json:"options"`
	ValidationRules string `json:"validation_rules"`
	Placeholder     string `json:"placeholder"`
	HelpText        string `json:"help_text"`
}

type UpdateFormSettingRequest struct {
	Key             *string `json:"key"` // rejected when present; the key is immutable
	Label           *string `json:"label"`
	Type            *string `json:"type"`
	Group           *string `json:"group"`
	Order           *int    `json:"order"`
	Required        *bool   `json:"required"`
	Visible         *bool   `json:"visible"`
	Editable        *bool   `json:"editable"`
	Options         *string `json:"options"`
	ValidationRules *string `json:"validation_rules"`
	Placeholder     *string `json:"placeholder"`
	HelpText        *string `json:"help_text"`
}

// List returns all field definitions ordered by (group, sort_order),
// optionally filtered by group. visibleOnly restricts to student-facing
// fields.
func (s *FormSettingService) List(group string, visibleOnly bool) ([]models.FormSetting, error) {
	query := s.db.Model(&models.FormSetting{})
	if group != "" {
		query = query.Where("`group` = ?", group)
	}
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}

	var settings []models.FormSetting
	if err := query.Order("`group`, sort_order, id").Find(&settings).Error; err != nil {
		return nil, storageErr(err)
	}
	return settings, nil
}

// GetByKey returns one field definition.
func (s *FormSettingService) GetByKey(key string) (*models.FormSetting, error) {
	var setting models.FormSetting
	if err := s.db.Where("field_key = ?", key).First(&setting).Error; err != nil {
		return nil, storageErr(err)
	}
	return &setting, nil
}

// Create adds a new field definition. Duplicate keys are a conflict, never
// an overwrite.
func (s *FormSettingService) Create(req *CreateFormSettingRequest) (*models.FormSetting, error) {
	if err := validateDefinition(req.Key, req.Label, req.Type, req.Group); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.FormSetting{}).Where("field_key = ?", req.Key).Count(&count).Error; err != nil {
		return nil, storageErr(err)
	}
	if count > 0 {
		return nil, ErrDuplicateKey
	}

	setting := models.FormSetting{
		FieldKey:        strings.TrimSpace(req.Key),
		Label:           req.Label,
		Type:            req.Type,
		Group:           req.Group,
		SortOrder:       req.Order,
		Required:        req.Required,
		Visible:         true,
		Editable:        true,
		Options:         req.Options,
		ValidationRules: req.ValidationRules,
		Placeholder:     req.Placeholder,
		HelpText:        req.HelpText,
	}
	if req.Visible != nil {
		setting.Visible = *req.Visible
	}
	if req.Editable != nil {
		setting.Editable = *req.Editable
	}

	if err := s.db.Create(&setting).Error; err != nil {
		return nil, storageErr(err)
	}
	return &setting, nil
}

// Update applies a partial edit to an existing definition. The field key
// itself is immutable.
func (s *FormSettingService) Update(key string, req *UpdateFormSettingRequest) (*models.FormSetting, error) {
	var setting models.FormSetting
	if err := s.db.Where("field_key = ?", key).First(&setting).Error; err != nil {
		return nil, storageErr(err)
	}

	if req.Key != nil && *req.Key != setting.FieldKey {
		return nil, ErrImmutableKey
	}

	updates := make(map[string]interface{})
	if req.Label != nil {
		if strings.TrimSpace(*req.Label) == "" {
			return nil, NewValidationError("label", "label must not be empty")
		}
		updates["label"] = *req.Label
	}
	if req.Type != nil {
		if !models.ValidFieldType(*req.Type) {
			return nil, NewValidationError("type", "unknown field type: "+*req.Type)
		}
		// A type change does not migrate previously stored values.
		updates["type"] = *req.Type
	}
	if req.Group != nil {
		if !models.ValidStep(*req.Group) {
			return nil, NewValidationError("group", "unknown group: "+*req.Group)
		}
		updates["group"] = *req.Group
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}
	if req.Required != nil {
		updates["required"] = *req.Required
	}
	if req.Visible != nil {
		updates["visible"] = *req.Visible
	}
	if req.Editable != nil {
		updates["editable"] = *req.Editable
	}
	if req.Options != nil {
		updates["options"] = *req.Options
	}
	if req.ValidationRules != nil {
		updates["validation_rules"] = *req.ValidationRules
	}
	if req.Placeholder != nil {
		updates["placeholder"] = *req.Placeholder
	}
	if req.HelpText != nil {
		updates["help_text"] = *req.HelpText
	}

	if len(updates) > 0 {
		if err := s.db.Model(&setting).Updates(updates).Error; err != nil {
			return nil, storageErr(err)
		}
	}
	return &setting, nil
}

// Delete removes a field definition. Stored profile values under the key
// are intentionally left in place (accepted staleness).
func (s *FormSettingService) Delete(key string) error {
	result := s.db.Where("field_key = ?", key).Delete(&models.FormSetting{})
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateDefinition(key, label, fieldType, group string) error {
	fields := make(map[string]string)
	if strings.TrimSpace(key) == "" {
		fields["key"] = "key is required"
	}
	if strings.TrimSpace(label) == "" {
		fields["label"] = "label is required"
	}
	switch {
	case strings.TrimSpace(fieldType) == "":
		fields["type"] = "type is required"
	case !models.ValidFieldType(fieldType):
		fields["type"] = "unknown field type: " + fieldType
	}
	switch {
	case strings.TrimSpace(group) == "":
		fields["group"] = "group is required"
	case !models.ValidStep(group):
		fields["group"] = "unknown group: " + group
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
