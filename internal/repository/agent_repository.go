package repository

import (
	"context"
	"time"

	"github.com/sjperalta/agent-portal-api/internal/models"
	"gorm.io/gorm"
)

// AgentRepository defines the interface for agent data access
type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) error
	FindByID(ctx context.Context, id string) (*models.Agent, error)
	FindByEmail(ctx context.Context, email string) (*models.Agent, error)
	Update(ctx context.Context, id string, changes map[string]any) (*models.Agent, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, filter models.AgentFilter) ([]models.Agent, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *models.Agent) error {
	if err := r.db.WithContext(ctx).Create(agent).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *agentRepository) FindByID(ctx context.Context, id string) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) FindByEmail(ctx context.Context, email string) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// Update writes only the given columns and refreshes updated_at. It returns
// gorm.ErrRecordNotFound when id does not resolve.
func (r *agentRepository) Update(ctx context.Context, id string, changes map[string]any) (*models.Agent, error) {
	if len(changes) == 0 {
		return r.FindByID(ctx, id)
	}

	updates := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return nil, ErrDuplicateEmail
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the agent; inspections and documents go with it via ON DELETE CASCADE.
func (r *agentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Agent{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *agentRepository) Search(ctx context.Context, filter models.AgentFilter) ([]models.Agent, error) {
	var agents []models.Agent

	db := r.db.WithContext(ctx).Model(&models.Agent{})

	// Apply search
	if filter.Search != "" {
		search := likePattern(filter.Search)
		db = db.Where(`(LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(brokerage_name) LIKE ? ESCAPE '\')`,
			search, search, search)
	}

	// Apply status filter
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *agentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agent{}).Count(&count).Error
	return count, err
}

func (r *agentRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agent{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
