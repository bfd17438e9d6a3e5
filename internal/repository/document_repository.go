package repository

import (
	"context"

	"github.com/sjperalta/agent-portal-api/internal/models"
	"gorm.io/gorm"
)

// DocumentRepository defines the interface for document data access
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Update(ctx context.Context, id string, changes map[string]any) (*models.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
	StoragePathsByAgent(ctx context.Context, agentID string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Omit("Agent", "Inspection").Create(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Preload("Inspection").
		Where("id = ?", id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Update(ctx context.Context, id string, changes map[string]any) (*models.Document, error) {
	if len(changes) == 0 {
		return r.FindByID(ctx, id)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *documentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *documentRepository) Search(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	var docs []models.Document

	db := r.db.WithContext(ctx).Model(&models.Document{}).Preload("Inspection")

	if filter.AgentID != "" {
		db = db.Where("agent_id = ?", filter.AgentID)
	}
	if filter.InspectionID != "" {
		db = db.Where("inspection_id = ?", filter.InspectionID)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}

	if err := db.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// StoragePathsByAgent lists the blob paths of every document owned by agentID.
func (r *documentRepository) StoragePathsByAgent(ctx context.Context, agentID string) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("agent_id = ?", agentID).
		Pluck("storage_path", &paths).Error
	return paths, err
}

func (r *documentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).Count(&count).Error
	return count, err
}
