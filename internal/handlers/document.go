package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"github.com/nisshin-gakuen/admission-portal/internal/middleware"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	service   *services.DocumentService
	maxSizeMB int64
}

func NewDocumentHandler(db *gorm.DB, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{
		service:   services.NewDocumentService(db, cfg.Upload.Dir),
		maxSizeMB: int64(cfg.Upload.MaxSizeMB),
	}
}

// List returns downloadable documents, optionally filtered by category
// GET /api/documents?category=certificate
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.service.List(c.Query("category"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, docs)
}

// Upload stores a new document
// POST /api/admin/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		response.BadRequest(c, "title is required")
		return
	}
	category := c.PostForm("category")
	if category == "" {
		category = "document"
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > h.maxSizeMB*1024*1024 {
		response.BadRequest(c, "file too large")
		return
	}

	doc, err := h.service.Save(title, category, fileHeader, middleware.GetUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, doc)
}

// Download streams a document with its original file name
// GET /api/documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.FileAttachment(h.service.Path(doc), doc.FileName)
}

// Delete removes a document record and its file
// DELETE /api/admin/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "document deleted"})
}
