package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/authz"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"github.com/sjperalta/agent-portal-api/internal/storage"
	"github.com/sjperalta/agent-portal-api/pkg/logger"
)

// AgentService handles agent business logic
type AgentService struct {
	agentRepo repository.AgentRepository
	docRepo   repository.DocumentRepository
	blobs     storage.BlobStore
	auditSvc  *AuditService
}

// NewAgentService creates a new agent service
func NewAgentService(agentRepo repository.AgentRepository, docRepo repository.DocumentRepository, blobs storage.BlobStore, auditSvc *AuditService) *AgentService {
	return &AgentService{
		agentRepo: agentRepo,
		docRepo:   docRepo,
		blobs:     blobs,
		auditSvc:  auditSvc,
	}
}

// List returns agents matching filter. An agent session only ever sees itself.
func (s *AgentService) List(ctx context.Context, actor *models.SessionUser, filter models.AgentFilter) ([]models.Agent, error) {
	if _, err := authz.RequireAuth(actor); err != nil {
		return nil, err
	}

	if actor.IsAgent() {
		agent, err := s.agentRepo.FindByID(ctx, actor.AgentID)
		if err != nil {
			if isNotFound(err) {
				return []models.Agent{}, nil
			}
			return nil, apperr.Internal("failed to load agent", err)
		}
		return []models.Agent{*agent}, nil
	}

	agents, err := s.agentRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to search agents", err)
	}
	return agents, nil
}

// Get returns one agent. Agents may only read themselves.
func (s *AgentService) Get(ctx context.Context, actor *models.SessionUser, id string) (*models.Agent, error) {
	if err := authz.Authorize(actor, authz.ResourceAgent, authz.ActionRead, id); err != nil {
		return nil, err
	}

	agent, err := s.agentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, MsgAgentNotFound)
	}
	return agent, nil
}

// Create registers a new agent. Admin only.
func (s *AgentService) Create(ctx context.Context, actor *models.SessionUser, input models.AgentCreateInput) (*models.Agent, error) {
	if err := authz.Authorize(actor, authz.ResourceAgent, authz.ActionCreate, ""); err != nil {
		return nil, err
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, input.Email, ""); err != nil {
		return nil, err
	}

	agent := input.ToAgent()
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Validation(err.Error())
		}
		return nil, apperr.Internal("failed to create agent", err)
	}

	s.auditSvc.Record(ctx, actor, models.AuditActionCreateAgent, models.EntityTypeAgent, agent.ID, map[string]any{
		"agentName": agent.FullName,
		"email":     agent.Email,
	})

	return agent, nil
}

// Update applies a partial update. Admin only.
func (s *AgentService) Update(ctx context.Context, actor *models.SessionUser, id string, input models.AgentUpdateInput) (*models.Agent, error) {
	if err := authz.Authorize(actor, authz.ResourceAgent, authz.ActionUpdate, id); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Email.Present {
		if err := s.ensureEmailAvailable(ctx, strings.TrimSpace(input.Email.Value), id); err != nil {
			return nil, err
		}
	}

	agent, err := s.agentRepo.Update(ctx, id, input.Changes())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Validation(err.Error())
		}
		return nil, lookupError(err, MsgAgentNotFound)
	}

	s.auditSvc.Record(ctx, actor, models.AuditActionUpdateAgent, models.EntityTypeAgent, id, map[string]any{
		"updatedFields": input.FieldNames(),
	})

	return agent, nil
}

// Delete removes an agent with its inspections and documents. Admin only.
// Stored files are removed afterwards on a best-effort basis.
func (s *AgentService) Delete(ctx context.Context, actor *models.SessionUser, id string) error {
	if err := authz.Authorize(actor, authz.ResourceAgent, authz.ActionDelete, id); err != nil {
		return err
	}

	agent, err := s.agentRepo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, MsgAgentNotFound)
	}

	paths, err := s.docRepo.StoragePathsByAgent(ctx, id)
	if err != nil {
		logger.Warn("Failed to list agent documents before delete", "agent_id", id, "error", err)
	}

	deleted, err := s.agentRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete agent", err)
	}
	if !deleted {
		return apperr.NotFound(MsgAgentNotFound)
	}

	s.auditSvc.Record(ctx, actor, models.AuditActionDeleteAgent, models.EntityTypeAgent, id, map[string]any{
		"agentName": agent.FullName,
	})

	for _, p := range paths {
		if err := s.blobs.Delete(ctx, p); err != nil {
			logger.Warn("Failed to delete stored file", "path", p, "error", err)
		}
	}
	return nil
}

// ensureEmailAvailable fails when email belongs to an agent other than exceptID.
func (s *AgentService) ensureEmailAvailable(ctx context.Context, email, exceptID string) error {
	existing, err := s.agentRepo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return apperr.Internal("failed to check email", err)
	}
	if existing.ID != exceptID {
		return apperr.Validation(repository.ErrDuplicateEmail.Error())
	}
	return nil
}
