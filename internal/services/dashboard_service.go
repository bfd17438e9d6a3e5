package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/authz"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
)

// recentActivityLimit is the number of entries on the dashboard feed.
const recentActivityLimit = 10

// DashboardService aggregates counters and the recent activity feed.
type DashboardService struct {
	agentRepo      repository.AgentRepository
	inspectionRepo repository.InspectionRepository
	docRepo        repository.DocumentRepository
	auditRepo      repository.AuditRepository
	now            func() time.Time
}

func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{
		agentRepo:      repos.Agent,
		inspectionRepo: repos.Inspection,
		docRepo:        repos.Document,
		auditRepo:      repos.Audit,
		now:            time.Now,
	}
}

// Stats returns the dashboard counters. Admin only.
func (s *DashboardService) Stats(ctx context.Context, actor *models.SessionUser) (*models.DashboardStats, error) {
	if _, err := authz.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	var stats models.DashboardStats
	var err error

	if stats.TotalAgents, err = s.agentRepo.Count(ctx); err != nil {
		return nil, apperr.Internal("failed to count agents", err)
	}
	if stats.ActiveAgents, err = s.agentRepo.CountByStatus(ctx, models.AgentStatusActive); err != nil {
		return nil, apperr.Internal("failed to count active agents", err)
	}
	if stats.InspectionsThisMonth, err = s.inspectionRepo.CountCreatedSince(ctx, startOfMonth(s.now())); err != nil {
		return nil, apperr.Internal("failed to count inspections", err)
	}
	if stats.DocumentsUploaded, err = s.docRepo.Count(ctx); err != nil {
		return nil, apperr.Internal("failed to count documents", err)
	}

	return &stats, nil
}

// Activity returns the latest uploads, inspections and agent creations. Admin only.
func (s *DashboardService) Activity(ctx context.Context, actor *models.SessionUser) ([]models.RecentActivity, error) {
	if _, err := authz.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	logs, err := s.auditRepo.Search(ctx, models.AuditFilter{
		Actions: []string{
			models.AuditActionUploadDoc,
			models.AuditActionCreateInspection,
			models.AuditActionCreateAgent,
		},
		Limit: recentActivityLimit,
	})
	if err != nil {
		return nil, apperr.Internal("failed to load activity", err)
	}

	activity := make([]models.RecentActivity, 0, len(logs))
	for _, log := range logs {
		activity = append(activity, describeActivity(log))
	}
	return activity, nil
}

func describeActivity(log models.AuditLog) models.RecentActivity {
	item := models.RecentActivity{
		ID:        log.ID,
		Timestamp: log.CreatedAt,
		ActorRole: log.ActorRole,
	}

	switch log.Action {
	case models.AuditActionUploadDoc:
		item.Type = models.ActivityTypeUpload
		item.Description = fmt.Sprintf("Document %q uploaded", metadataString(log, "title", "Unknown"))
	case models.AuditActionCreateInspection:
		item.Type = models.ActivityTypeInspection
		item.Description = "Inspection created for " + metadataString(log, "propertyAddress", "Unknown address")
	default:
		item.Type = models.ActivityTypeAgent
		item.Description = fmt.Sprintf("Agent %q created", metadataString(log, "agentName", "Unknown"))
	}
	return item
}

func metadataString(log models.AuditLog, key, fallback string) string {
	if v, ok := log.Metadata[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
