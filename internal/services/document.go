package services

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"github.com/nisshin-gakuen/admission-portal/pkg/logger"
	"gorm.io/gorm"
)

// DocumentService stores admin-uploaded downloadable files. Files live
// under a configured directory with uuid-derived names; the DB row and the
// file are created together or not at all.
type DocumentService struct {
	db  *gorm.DB
	dir string
}

func NewDocumentService(db *gorm.DB, dir string) *DocumentService {
	return &DocumentService{db: db, dir: dir}
}

// List returns documents, optionally filtered by category.
func (s *DocumentService) List(category string) ([]models.Document, error) {
	query := s.db.Model(&models.Document{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var docs []models.Document
	if err := query.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, storageErr(err)
	}
	return docs, nil
}

func (s *DocumentService) GetByID(id uint) (*models.Document, error) {
	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		return nil, storageErr(err)
	}
	return &doc, nil
}

// Save writes the uploaded file to disk and records it. When the insert
// fails the file is removed again so no orphan remains observable.
func (s *DocumentService) Save(title, category string, header *multipart.FileHeader, userID uint) (*models.Document, error) {
	if title == "" {
		return nil, NewValidationError("title", "title is required")
	}
	if category != models.DocCategoryCertificate && category != models.DocCategoryDocument {
		return nil, NewValidationError("category", "unknown category: "+category)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	storedPath := filepath.Join(s.dir, storedName)

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(storedPath)
		return nil, err
	}

	doc := models.Document{
		Title:       title,
		Category:    category,
		FileName:    header.Filename,
		StoredName:  storedName,
		Size:        size,
		ContentType: header.Header.Get("Content-Type"),
		CreatedBy:   userID,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		if rmErr := os.Remove(storedPath); rmErr != nil {
			logger.Warn().Err(rmErr).Str("path", storedPath).Msg("failed to remove orphan upload")
		}
		return nil, storageErr(err)
	}
	return &doc, nil
}

// Path returns the on-disk path for a stored document.
func (s *DocumentService) Path(doc *models.Document) string {
	return filepath.Join(s.dir, doc.StoredName)
}

// Delete removes the record and then the stored file. A missing file is
// logged, not fatal; the record going away is what matters to clients.
func (s *DocumentService) Delete(id uint) error {
	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		return storageErr(err)
	}

	if err := s.db.Delete(&doc).Error; err != nil {
		return storageErr(err)
	}

	if err := os.Remove(s.Path(&doc)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Str("stored_name", doc.StoredName).Msg("failed to remove stored file")
	}
	return nil
}
