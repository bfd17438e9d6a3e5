package repository

import (
	"context"

	"github.com/sjperalta/agent-portal-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository is append-only: entries are created and searched, never changed.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	Search(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
	ListAll(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Search returns matching entries newest first, capped at filter.EffectiveLimit().
func (r *auditRepository) Search(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	var logs []models.AuditLog

	err := r.filtered(ctx, filter).
		Order("created_at DESC").
		Limit(filter.EffectiveLimit()).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// ListAll returns every matching entry newest first. filter.Limit is ignored.
func (r *auditRepository) ListAll(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	var logs []models.AuditLog

	if err := r.filtered(ctx, filter).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditRepository) filtered(ctx context.Context, filter models.AuditFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		db = db.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if len(filter.Actions) > 0 {
		db = db.Where("action IN ?", filter.Actions)
	}
	return db
}
