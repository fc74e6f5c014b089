package models

import (
	"fmt"

	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Student{},
		&FormSetting{},
		&Profile{},
		&Announcement{},
		&Document{},
		&FeeItem{},
		&FeeExemption{},
		&SystemConfig{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the default form settings and system configs on
// first boot. Existing rows are never touched.
func SeedDefaultData() error {
	var fieldCount int64
	DB.Model(&FormSetting{}).Count(&fieldCount)
	if fieldCount == 0 {
		defaults := []FormSetting{
			{FieldKey: "name_kanji", Label: "氏名（漢字）", Type: FieldTypeText, Group: StepPersonal, SortOrder: 1, Required: true, Visible: true, Editable: true},
			{FieldKey: "name_kana", Label: "氏名（かな）", Type: FieldTypeText, Group: StepPersonal, SortOrder: 2, Required: true, Visible: true, Editable: true},
			{FieldKey: "birth_date", Label: "生年月日", Type: FieldTypeDate, Group: StepPersonal, SortOrder: 3, Required: true, Visible: true, Editable: true},
			{FieldKey: "postal_code", Label: "郵便番号", Type: FieldTypeText, Group: StepPersonal, SortOrder: 4, Required: true, Visible: true, Editable: true, Placeholder: "123-4567"},
			{FieldKey: "address", Label: "住所", Type: FieldTypeTextarea, Group: StepPersonal, SortOrder: 5, Required: true, Visible: true, Editable: true},
			{FieldKey: "email", Label: "メールアドレス", Type: FieldTypeEmail, Group: StepPersonal, SortOrder: 6, Required: false, Visible: true, Editable: true},

			{FieldKey: "commute_method", Label: "通学方法", Type: FieldTypeSelect, Group: StepCommute, SortOrder: 1, Required: true, Visible: true, Editable: true, Options: "徒歩,自転車,電車,バス,その他"},
			{FieldKey: "nearest_station", Label: "最寄り駅", Type: FieldTypeText, Group: StepCommute, SortOrder: 2, Required: false, Visible: true, Editable: true},
			{FieldKey: "commute_minutes", Label: "通学時間（分）", Type: FieldTypeText, Group: StepCommute, SortOrder: 3, Required: false, Visible: true, Editable: true},

			{FieldKey: "art_course", Label: "芸術選択", Type: FieldTypeRadio, Group: StepArt, SortOrder: 1, Required: true, Visible: true, Editable: true, Options: "音楽,美術,書道"},

			{FieldKey: "allergy", Label: "アレルギーの有無", Type: FieldTypeCheckbox, Group: StepHealth, SortOrder: 1, Required: true, Visible: true, Editable: true},
			{FieldKey: "allergy_detail", Label: "アレルギーの内容", Type: FieldTypeTextarea, Group: StepHealth, SortOrder: 2, Required: false, Visible: true, Editable: true, HelpText: "「あり」の場合は内容を記入してください"},
			{FieldKey: "medical_note", Label: "既往症・配慮事項", Type: FieldTypeTextarea, Group: StepHealth, SortOrder: 3, Required: false, Visible: true, Editable: true},

			{FieldKey: "guardian_name", Label: "保護者氏名", Type: FieldTypeText, Group: StepFamily, SortOrder: 1, Required: true, Visible: true, Editable: true},
			{FieldKey: "guardian_tel", Label: "保護者電話番号", Type: FieldTypeTel, Group: StepFamily, SortOrder: 2, Required: true, Visible: true, Editable: true},
			{FieldKey: "has_sibling", Label: "在校生の兄弟姉妹", Type: FieldTypeCheckbox, Group: StepFamily, SortOrder: 3, Required: false, Visible: true, Editable: true},
		}
		for _, f := range defaults {
			if err := DB.Create(&f).Error; err != nil {
				return err
			}
		}
	}

	defaultConfigs := []SystemConfig{
		{Key: "enrollment_open_at", Value: "", Type: "datetime", Group: "enrollment", Label: "Enrollment Window Opens"},
		{Key: "enrollment_close_at", Value: "", Type: "datetime", Group: "enrollment", Label: "Enrollment Window Closes"},
		{Key: "site_notice", Value: "", Type: "string", Group: "general", Label: "Site Notice"},
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("`key` = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
