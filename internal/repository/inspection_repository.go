package repository

import (
	"context"
	"time"

	"github.com/sjperalta/agent-portal-api/internal/models"
	"gorm.io/gorm"
)

// InspectionRepository defines the interface for inspection data access
type InspectionRepository interface {
	Create(ctx context.Context, inspection *models.Inspection) error
	FindByID(ctx context.Context, id string) (*models.Inspection, error)
	Update(ctx context.Context, id string, changes map[string]any) (*models.Inspection, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, filter models.InspectionFilter) ([]models.Inspection, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type inspectionRepository struct {
	db *gorm.DB
}

// NewInspectionRepository creates a new inspection repository
func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) Create(ctx context.Context, inspection *models.Inspection) error {
	return r.db.WithContext(ctx).Omit("Agent").Create(inspection).Error
}

// FindByID loads the inspection together with its agent.
func (r *inspectionRepository) FindByID(ctx context.Context, id string) (*models.Inspection, error) {
	var inspection models.Inspection
	err := r.db.WithContext(ctx).
		Preload("Agent").
		Where("id = ?", id).
		First(&inspection).Error
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (r *inspectionRepository) Update(ctx context.Context, id string, changes map[string]any) (*models.Inspection, error) {
	if len(changes) == 0 {
		return r.FindByID(ctx, id)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Inspection{}).
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

// Delete removes the inspection; documents referencing it keep their row with inspection_id NULL.
func (r *inspectionRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Inspection{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *inspectionRepository) Search(ctx context.Context, filter models.InspectionFilter) ([]models.Inspection, error) {
	var inspections []models.Inspection

	db := r.db.WithContext(ctx).Model(&models.Inspection{}).Preload("Agent")

	if filter.AgentID != "" {
		db = db.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Order("inspection_date DESC").Order("created_at DESC").Find(&inspections).Error; err != nil {
		return nil, err
	}
	return inspections, nil
}

func (r *inspectionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Inspection{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
