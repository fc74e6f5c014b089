package services

import (
	"errors"
	"time"

	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"gorm.io/gorm"
)

// FeeService manages the fee schedule and exemption rules, and computes a
// student's payable summary.
type FeeService struct {
	db *gorm.DB
}

func NewFeeService(db *gorm.DB) *FeeService {
	return &FeeService{db: db}
}

type CreateFeeItemRequest struct {
	Name      string     `json:"name" binding:"required"`
	AmountYen int        `json:"amount_yen" binding:"required"`
	Category  string     `json:"category"`
	DueDate   *time.Time `json:"due_date"`
	Note      string     `json:"note"`
	Order     int        `json:"order"`
}

type UpdateFeeItemRequest struct {
	Name      *string    `json:"name"`
	AmountYen *int       `json:"amount_yen"`
	Category  *string    `json:"category"`
	DueDate   *time.Time `json:"due_date"`
	Note      *string    `json:"note"`
	Order     *int       `json:"order"`
}

type CreateFeeExemptionRequest struct {
	Name      string `json:"name" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
	AmountYen int    `json:"amount_yen" binding:"required"`
	Note      string `json:"note"`
}

// FeeSummary is the student-facing fee view: schedule, applied exemption,
// and the resulting total.
type FeeSummary struct {
	Items        []models.FeeItem     `json:"items"`
	Exemption    *models.FeeExemption `json:"exemption,omitempty"`
	SubtotalYen  int                  `json:"subtotal_yen"`
	ExemptionYen int                  `json:"exemption_yen"`
	TotalYen     int                  `json:"total_yen"`
}

func (s *FeeService) ListItems() ([]models.FeeItem, error) {
	var items []models.FeeItem
	if err := s.db.Order("sort_order, id").Find(&items).Error; err != nil {
		return nil, storageErr(err)
	}
	return items, nil
}

func (s *FeeService) CreateItem(req *CreateFeeItemRequest) (*models.FeeItem, error) {
	item := models.FeeItem{
		Name:      req.Name,
		AmountYen: req.AmountYen,
		Category:  req.Category,
		DueDate:   req.DueDate,
		Note:      req.Note,
		SortOrder: req.Order,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, storageErr(err)
	}
	return &item, nil
}

func (s *FeeService) UpdateItem(id uint, req *UpdateFeeItemRequest) (*models.FeeItem, error) {
	var item models.FeeItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, storageErr(err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AmountYen != nil {
		updates["amount_yen"] = *req.AmountYen
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}

	if len(updates) > 0 {
		if err := s.db.Model(&item).Updates(updates).Error; err != nil {
			return nil, storageErr(err)
		}
	}
	return &item, nil
}

func (s *FeeService) DeleteItem(id uint) error {
	result := s.db.Delete(&models.FeeItem{}, id)
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FeeService) ListExemptions() ([]models.FeeExemption, error) {
	var items []models.FeeExemption
	if err := s.db.Order("kind").Find(&items).Error; err != nil {
		return nil, storageErr(err)
	}
	return items, nil
}

func (s *FeeService) CreateExemption(req *CreateFeeExemptionRequest) (*models.FeeExemption, error) {
	var count int64
	if err := s.db.Model(&models.FeeExemption{}).Where("kind = ?", req.Kind).Count(&count).Error; err != nil {
		return nil, storageErr(err)
	}
	if count > 0 {
		return nil, ErrDuplicateKey
	}

	item := models.FeeExemption{
		Name:      req.Name,
		Kind:      req.Kind,
		AmountYen: req.AmountYen,
		Note:      req.Note,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, storageErr(err)
	}
	return &item, nil
}

func (s *FeeService) DeleteExemption(id uint) error {
	result := s.db.Delete(&models.FeeExemption{}, id)
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SummaryFor computes a student's fee summary. Exemption eligibility is an
// exact match on the student's exemption_kind tag.
func (s *FeeService) SummaryFor(student *models.Student) (*FeeSummary, error) {
	items, err := s.ListItems()
	if err != nil {
		return nil, err
	}

	summary := &FeeSummary{Items: items}
	for _, item := range items {
		summary.SubtotalYen += item.AmountYen
	}

	if student.ExemptionKind != "" {
		var exemption models.FeeExemption
		err := s.db.Where("kind = ?", student.ExemptionKind).First(&exemption).Error
		if err == nil {
			summary.Exemption = &exemption
			summary.ExemptionYen = exemption.AmountYen
		} else if !errors.Is(storageErr(err), ErrNotFound) {
			return nil, storageErr(err)
		}
	}

	summary.TotalYen = summary.SubtotalYen - summary.ExemptionYen
	if summary.TotalYen < 0 {
		summary.TotalYen = 0
	}
	return summary, nil
}
