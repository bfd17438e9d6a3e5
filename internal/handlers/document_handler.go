package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/services"
	"github.com/sjperalta/agent-portal-api/internal/storage"
)

// multipartOverhead is the room left for form fields and part headers on top
// of the file size ceiling.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// @Summary List Documents
// @Description Newest first. Agents only see their own documents.
// @Tags Documents
// @Produce json
// @Param agentId query string false "Agent ID (admins only)"
// @Param inspectionId query string false "Inspection ID"
// @Param category query string false "W9, Agreement, Insurance, InspectionReport or Other"
// @Success 200 {object} map[string]interface{}
// @Router /documents [get]
func (h *DocumentHandler) Index(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context(), currentUser(c), models.DocumentFilter{
		AgentID:      c.Query("agentId"),
		InspectionID: c.Query("inspectionId"),
		Category:     c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]models.DocumentResponse, len(docs))
	for i := range docs {
		resp[i] = docs[i].ToResponse()
	}
	c.JSON(http.StatusOK, gin.H{"documents": resp})
}

// @Summary Get Document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Router /documents/{id} [get]
func (h *DocumentHandler) Show(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": doc.ToResponse()})
}

// @Summary Upload Document
// @Description Uploads a PDF of at most 50MB for an agent, optionally tied to one of its inspections
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param agentId formData string true "Agent ID"
// @Param inspectionId formData string false "Inspection ID"
// @Param title formData string true "Title"
// @Param category formData string false "Category (default Other)"
// @Param file formData file true "PDF file"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxFileSize+multipartOverhead)

	input, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := h.documentService.Upload(c.Request.Context(), currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": doc.ToResponse()})
}

// readUpload extracts the form fields and file. A missing file is left for the
// service to report; an oversized one is rejected before it is read.
func readUpload(c *gin.Context) (services.UploadInput, error) {
	fileHeader, err := c.FormFile("file")
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return services.UploadInput{}, apperr.Validation(storage.ErrFileTooLarge.Error())
	case err != nil && !errors.Is(err, http.ErrMissingFile):
		return services.UploadInput{}, apperr.Validation("No form data received")
	}

	input := services.UploadInput{
		AgentID:      c.PostForm("agentId"),
		InspectionID: c.PostForm("inspectionId"),
		Title:        c.PostForm("title"),
		Category:     c.PostForm("category"),
	}
	if fileHeader == nil {
		return input, nil
	}

	if fileHeader.Size > storage.MaxFileSize {
		return input, apperr.Validation(storage.ErrFileTooLarge.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return input, apperr.Internal("failed to open upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return input, apperr.Internal("failed to read upload", err)
	}

	input.FileName = fileHeader.Filename
	input.ContentType = fileHeader.Header.Get("Content-Type")
	if input.ContentType == "" {
		input.ContentType = storage.PDFMimeType
	}
	input.Data = data
	return input, nil
}

// @Summary Document Download URL
// @Description Returns a short-lived URL for the document's file
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) URL(c *gin.Context) {
	url, doc, err := h.documentService.DownloadURL(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "document": doc.ToResponse()})
}

// @Summary Delete Document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]bool
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
