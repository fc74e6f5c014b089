package services

import (
	"testing"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Student{},
		&models.FormSetting{},
		&models.Profile{},
		&models.Announcement{},
		&models.Document{},
		&models.FeeItem{},
		&models.FeeExemption{},
		&models.SystemConfig{},
		&models.SystemLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedFormFields inserts a small schema: two required text fields in the
// personal step, a required checkbox in the health step, and an optional
// text field in the commute step.
func seedFormFields(t *testing.T, db *gorm.DB) {
	t.Helper()

	fields := []models.FormSetting{
		{FieldKey: "pet_name", Label: "ペットの名前", Type: models.FieldTypeText, Group: models.StepPersonal, SortOrder: 1, Required: true, Visible: true, Editable: true},
		{FieldKey: "address", Label: "住所", Type: models.FieldTypeText, Group: models.StepPersonal, SortOrder: 2, Required: true, Visible: true, Editable: true},
		{FieldKey: "allergy", Label: "アレルギーの有無", Type: models.FieldTypeCheckbox, Group: models.StepHealth, SortOrder: 1, Required: true, Visible: true, Editable: true},
		{FieldKey: "nearest_station", Label: "最寄り駅", Type: models.FieldTypeText, Group: models.StepCommute, SortOrder: 1, Required: false, Visible: true, Editable: true},
	}
	for _, f := range fields {
		if err := db.Create(&f).Error; err != nil {
			t.Fatalf("failed to seed form field %s: %v", f.FieldKey, err)
		}
	}
}
