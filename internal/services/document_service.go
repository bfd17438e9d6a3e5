package services

import (
	"context"
	"strings"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/authz"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"github.com/sjperalta/agent-portal-api/internal/storage"
	"github.com/sjperalta/agent-portal-api/pkg/logger"
)

// Document messages
const (
	MsgUploadRequired        = "Agent ID, title, and file are required"
	MsgInvalidCategory       = "Invalid document category"
	MsgInvalidInspectionID   = "Invalid inspection ID"
	MsgInspectionWrongAgent  = "Inspection does not belong to this agent"
	MsgDownloadURLFailed     = "Failed to generate download URL"
	MsgFileStorageFailed     = "Failed to store file"
	MsgDocumentCreateFailure = "Failed to save document"
)

// UploadInput is a document upload: form fields plus the file payload.
type UploadInput struct {
	AgentID      string
	InspectionID string
	Title        string
	Category     string
	FileName     string
	ContentType  string
	Data         []byte
}

// DocumentService handles document business logic
type DocumentService struct {
	docRepo        repository.DocumentRepository
	agentRepo      repository.AgentRepository
	inspectionRepo repository.InspectionRepository
	blobs          storage.BlobStore
	auditSvc       *AuditService
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repository.DocumentRepository,
	agentRepo repository.AgentRepository,
	inspectionRepo repository.InspectionRepository,
	blobs storage.BlobStore,
	auditSvc *AuditService,
) *DocumentService {
	return &DocumentService{
		docRepo:        docRepo,
		agentRepo:      agentRepo,
		inspectionRepo: inspectionRepo,
		blobs:          blobs,
		auditSvc:       auditSvc,
	}
}

// List returns documents matching filter, newest first. Agent sessions are
// narrowed to their own documents.
func (s *DocumentService) List(ctx context.Context, actor *models.SessionUser, filter models.DocumentFilter) ([]models.Document, error) {
	if _, err := authz.RequireAuth(actor); err != nil {
		return nil, err
	}
	filter.AgentID = authz.ScopeAgentID(actor, filter.AgentID)

	docs, err := s.docRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to search documents", err)
	}
	return docs, nil
}

// Get returns one document if the caller may read it.
func (s *DocumentService) Get(ctx context.Context, actor *models.SessionUser, id string) (*models.Document, error) {
	if _, err := authz.RequireAuth(actor); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, MsgDocumentNotFound)
	}

	if err := authz.Authorize(actor, authz.ResourceDocument, authz.ActionRead, doc.AgentID); err != nil {
		return nil, err
	}
	return doc, nil
}

// DownloadURL returns a short-lived URL for the document's file.
func (s *DocumentService) DownloadURL(ctx context.Context, actor *models.SessionUser, id string) (string, *models.Document, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", nil, err
	}

	url, err := s.blobs.PublicURL(ctx, doc.StoragePath)
	if err != nil {
		return "", nil, apperr.Internal(MsgDownloadURLFailed, err)
	}
	return url, doc, nil
}

// Upload validates and stores a PDF and records it. Admin only.
func (s *DocumentService) Upload(ctx context.Context, actor *models.SessionUser, input UploadInput) (*models.Document, error) {
	if err := authz.Authorize(actor, authz.ResourceDocument, authz.ActionCreate, ""); err != nil {
		return nil, err
	}

	input.AgentID = strings.TrimSpace(input.AgentID)
	input.InspectionID = strings.TrimSpace(input.InspectionID)
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	if input.AgentID == "" || input.Title == "" || input.FileName == "" || input.Data == nil {
		return nil, apperr.Validation(MsgUploadRequired)
	}
	if input.Category == "" {
		input.Category = models.DocumentCategoryOther
	}
	if !models.ValidDocumentCategory(input.Category) {
		return nil, apperr.Validation(MsgInvalidCategory)
	}
	if err := storage.ValidatePDF(input.ContentType, input.Data); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	if _, err := s.agentRepo.FindByID(ctx, input.AgentID); err != nil {
		if isNotFound(err) {
			return nil, apperr.Validation(MsgInvalidAgentID)
		}
		return nil, apperr.Internal("failed to load agent", err)
	}

	var inspectionID *string
	var inspection *models.Inspection
	if input.InspectionID != "" {
		found, err := s.inspectionRepo.FindByID(ctx, input.InspectionID)
		if err != nil {
			if isNotFound(err) {
				return nil, apperr.Validation(MsgInvalidInspectionID)
			}
			return nil, apperr.Internal("failed to load inspection", err)
		}
		if found.AgentID != input.AgentID {
			return nil, apperr.Validation(MsgInspectionWrongAgent)
		}
		inspection = found
		inspectionID = &found.ID
	}

	path, err := s.blobs.Save(ctx, input.FileName, input.AgentID, input.Data)
	if err != nil {
		return nil, apperr.Internal(MsgFileStorageFailed, err)
	}

	doc := &models.Document{
		AgentID:      input.AgentID,
		InspectionID: inspectionID,
		Title:        input.Title,
		Category:     input.Category,
		FileName:     input.FileName,
		FileSize:     int64(len(input.Data)),
		MimeType:     storage.PDFMimeType,
		StoragePath:  path,
		UploadedBy:   string(actor.Role),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, path); delErr != nil {
			logger.Warn("Failed to remove orphaned file", "path", path, "error", delErr)
		}
		return nil, apperr.Internal(MsgDocumentCreateFailure, err)
	}
	doc.Inspection = inspection

	s.auditSvc.Record(ctx, actor, models.AuditActionUploadDoc, models.EntityTypeDocument, doc.ID, map[string]any{
		"agentId":      doc.AgentID,
		"inspectionId": optionalString(input.InspectionID),
		"title":        doc.Title,
		"category":     doc.Category,
		"fileName":     doc.FileName,
		"fileSize":     doc.FileSize,
	})

	return doc, nil
}

// Delete removes the document record and then its file. Admin only. A failure
// to remove the file is logged and leaves an orphaned blob.
func (s *DocumentService) Delete(ctx context.Context, actor *models.SessionUser, id string) error {
	if err := authz.Authorize(actor, authz.ResourceDocument, authz.ActionDelete, ""); err != nil {
		return err
	}

	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, MsgDocumentNotFound)
	}

	deleted, err := s.docRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete document", err)
	}
	if !deleted {
		return apperr.NotFound(MsgDocumentNotFound)
	}

	s.auditSvc.Record(ctx, actor, models.AuditActionDeleteDoc, models.EntityTypeDocument, id, map[string]any{
		"agentId":  doc.AgentID,
		"title":    doc.Title,
		"fileName": doc.FileName,
	})

	if err := s.blobs.Delete(ctx, doc.StoragePath); err != nil {
		logger.Warn("Failed to delete stored file", "path", doc.StoragePath, "error", err)
	}
	return nil
}

// optionalString returns nil for an empty string so it is left out of metadata.
func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
