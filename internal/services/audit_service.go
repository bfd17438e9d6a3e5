package services

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/authz"
	"github.com/sjperalta/agent-portal-api/internal/jobs"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"github.com/sjperalta/agent-portal-api/pkg/logger"
	"gorm.io/datatypes"
)

type requestMetaKey struct{}

// RequestMeta is the client information attached to audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// WithRequestMeta returns a context carrying the caller's client information.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the client information stored in ctx, if any.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// AuditService records and reads the audit trail.
type AuditService struct {
	repo   repository.AuditRepository
	runner jobs.Runner
}

func NewAuditService(repo repository.AuditRepository, runner jobs.Runner) *AuditService {
	return &AuditService{repo: repo, runner: runner}
}

// Record appends an audit entry for a completed action. The write runs on the
// job runner; a failure is logged and reported but never reaches the caller.
//
// A nil actor is recorded with the admin role.
// TODO: record such entries as "system" once the reporting UI can display it.
func (s *AuditService) Record(ctx context.Context, actor *models.SessionUser, action, entityType, entityID string, metadata map[string]any) {
	entry := &models.AuditLog{
		ActorRole:  string(models.RoleAdmin),
		Action:     action,
		EntityType: entityType,
		Metadata:   datatypes.JSONMap{},
	}
	if actor != nil {
		entry.ActorRole = string(actor.Role)
		if actor.AgentID != "" {
			id := actor.AgentID
			entry.ActorID = &id
		}
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}
	for k, v := range metadata {
		if v != nil {
			entry.Metadata[k] = v
		}
	}

	meta := RequestMetaFrom(ctx)
	entry.IPAddress = meta.IP
	entry.UserAgent = truncate(meta.UserAgent, 255)

	s.runner.EnqueueAsync("audit:"+action, func(jobCtx context.Context) error {
		if err := s.repo.Create(jobCtx, entry); err != nil {
			logger.Error("Failed to create audit log",
				"action", action,
				"entity_type", entityType,
				"entity_id", entityID,
				"error", err,
			)
			sentry.CaptureException(fmt.Errorf("audit %s %s: %w", action, entityType, err))
			return err
		}
		return nil
	})
}

// Search lists audit entries newest first. Admin only.
func (s *AuditService) Search(ctx context.Context, actor *models.SessionUser, filter models.AuditFilter) ([]models.AuditLog, error) {
	if err := authz.Authorize(actor, authz.ResourceAuditLog, authz.ActionRead, ""); err != nil {
		return nil, err
	}

	logs, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to search audit logs", err)
	}
	return logs, nil
}

// ListAll returns every entry matching filter, ignoring its limit. Admin only.
func (s *AuditService) ListAll(ctx context.Context, actor *models.SessionUser, filter models.AuditFilter) ([]models.AuditLog, error) {
	if err := authz.Authorize(actor, authz.ResourceAuditLog, authz.ActionRead, ""); err != nil {
		return nil, err
	}

	logs, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to list audit logs", err)
	}
	return logs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
