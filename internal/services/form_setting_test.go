package services

import (
	"errors"
	"testing"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
)

func TestFormSettingCreate(t *testing.T) {
	db := setupTestDB(t)
	service := NewFormSettingService(db)

	field, err := service.Create(&CreateFormSettingRequest{
		Key:      "pet_name",
		Label:    "ペットの名前",
		Type:     models.FieldTypeText,
		Group:    models.StepPersonal,
		Required: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if field.FieldKey != "pet_name" {
		t.Errorf("FieldKey = %q, expected %q", field.FieldKey, "pet_name")
	}
	if !field.Visible || !field.Editable {
		t.Error("visible and editable should default to true")
	}
}

func TestFormSettingCreate_DuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	service := NewFormSettingService(db)

	req := &CreateFormSettingRequest{
		Key:   "pet_name",
		Label: "ペットの名前",
		Type:  models.FieldTypeText,
		Group: models.StepPersonal,
	}
	if _, err := service.Create(req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := service.Create(req)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestFormSettingCreate_Invalid(t *testing.T) {
	db := setupTestDB(t)
	service := NewFormSettingService(db)

	tests := []struct {
		name string
		req  CreateFormSettingRequest
	}{
		{"blank key", CreateFormSettingRequest{Key: "  ", Label: "x", Type: models.FieldTypeText, Group: models.StepPersonal}},
		{"blank label", CreateFormSettingRequest{Key: "k", Label: "", Type: models.FieldTypeText, Group: models.StepPersonal}},
		{"unknown type", CreateFormSettingRequest{Key: "k", Label: "x", Type: "slider", Group: models.StepPersonal}},
		{"unknown group", CreateFormSettingRequest{Key: "k", Label: "x", Type: models.FieldTypeText, Group: "misc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(&tt.req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestFormSettingUpdate_KeyImmutable(t *testing.T) {
	db := setupTestDB(t)
	seedFormFields(t, db)
	service := NewFormSettingService(db)

	renamed := "pet_nickname"
	_, err := service.Update("pet_name", &UpdateFormSettingRequest{Key: &renamed})
	if !errors.Is(err, ErrImmutableKey) {
		t.Errorf("expected ErrImmutableKey, got %v", err)
	}

	// Echoing the same key back is not a rename.
	same := "pet_name"
	if _, err := service.Update("pet_name", &UpdateFormSettingRequest{Key: &same}); err != nil {
		t.Errorf("same-key update should succeed, got %v", err)
	}
}

func TestFormSettingUpdate_Partial(t *testing.T) {
	db := setupTestDB(t)
	seedFormFields(t, db)
	service := NewFormSettingService(db)

	label := "飼育動物の名前"
	required := false
	field, err := service.Update("pet_name", &UpdateFormSettingRequest{
		Label:    &label,
		Required: &required,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if field.Label != label {
		t.Errorf("Label = %q, expected %q", field.Label, label)
	}
	if field.Required {
		t.Error("Required should be false")
	}
	if field.Type != models.FieldTypeText {
		t.Errorf("untouched Type changed to %q", field.Type)
	}
}

func TestFormSettingUpdate_NotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewFormSettingService(db)

	_, err := service.Update("missing", &UpdateFormSettingRequest{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFormSettingDelete_ThenRecreate(t *testing.T) {
	db := setupTestDB(t)
	seedFormFields(t, db)
	service := NewFormSettingService(db)

	if err := service.Delete("pet_name"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := service.Delete("pet_name"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}

	// Hard delete frees the key for reuse.
	if _, err := service.Create(&CreateFormSettingRequest{
		Key:   "pet_name",
		Label: "ペットの名前",
		Type:  models.FieldTypeText,
		Group: models.StepPersonal,
	}); err != nil {
		t.Errorf("recreate after delete failed: %v", err)
	}
}

func TestFormSettingList_Ordering(t *testing.T) {
	db := setupTestDB(t)
	service := NewFormSettingService(db)

	defs := []CreateFormSettingRequest{
		{Key: "b_second", Label: "2", Type: models.FieldTypeText, Group: models.StepPersonal, Order: 2},
		{Key: "a_first", Label: "1", Type: models.FieldTypeText, Group: models.StepPersonal, Order: 1},
		{Key: "c_health", Label: "3", Type: models.FieldTypeText, Group: models.StepHealth, Order: 1},
	}
	for i := range defs {
		if _, err := service.Create(&defs[i]); err != nil {
			t.Fatalf("create %s failed: %v", defs[i].Key, err)
		}
	}

	fields, err := service.List("", false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}

	got := []string{fields[0].FieldKey, fields[1].FieldKey, fields[2].FieldKey}
	expected := []string{"c_health", "a_first", "b_second"}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("order = %v, expected %v", got, expected)
		}
	}
}

func TestFormSettingList_VisibleOnly(t *testing.T) {
	db := setupTestDB(t)
	service := NewFormSettingService(db)

	hidden := false
	if _, err := service.Create(&CreateFormSettingRequest{
		Key: "internal_memo", Label: "内部メモ", Type: models.FieldTypeText, Group: models.StepPersonal, Visible: &hidden,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.Create(&CreateFormSettingRequest{
		Key: "address", Label: "住所", Type: models.FieldTypeText, Group: models.StepPersonal,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	fields, err := service.List("", true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(fields) != 1 || fields[0].FieldKey != "address" {
		t.Errorf("visibleOnly should hide internal_memo, got %+v", fields)
	}
}
