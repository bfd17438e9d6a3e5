package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/authz"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"github.com/sjperalta/agent-portal-api/internal/statemachine"
)

// InspectionService handles inspection business logic
type InspectionService struct {
	inspectionRepo repository.InspectionRepository
	agentRepo      repository.AgentRepository
	auditSvc       *AuditService
}

// NewInspectionService creates a new inspection service
func NewInspectionService(inspectionRepo repository.InspectionRepository, agentRepo repository.AgentRepository, auditSvc *AuditService) *InspectionService {
	return &InspectionService{
		inspectionRepo: inspectionRepo,
		agentRepo:      agentRepo,
		auditSvc:       auditSvc,
	}
}

// List returns inspections matching filter, newest inspection date first.
// Agent sessions are narrowed to their own inspections.
func (s *InspectionService) List(ctx context.Context, actor *models.SessionUser, filter models.InspectionFilter) ([]models.Inspection, error) {
	if _, err := authz.RequireAuth(actor); err != nil {
		return nil, err
	}
	filter.AgentID = authz.ScopeAgentID(actor, filter.AgentID)

	inspections, err := s.inspectionRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to search inspections", err)
	}
	return inspections, nil
}

// Get returns one inspection with its agent.
func (s *InspectionService) Get(ctx context.Context, actor *models.SessionUser, id string) (*models.Inspection, error) {
	if _, err := authz.RequireAuth(actor); err != nil {
		return nil, err
	}

	inspection, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, MsgInspectionNotFound)
	}

	if err := authz.Authorize(actor, authz.ResourceInspection, authz.ActionRead, inspection.AgentID); err != nil {
		return nil, err
	}
	return inspection, nil
}

// Create schedules an inspection for an existing agent. Admin only.
func (s *InspectionService) Create(ctx context.Context, actor *models.SessionUser, input models.InspectionCreateInput) (*models.Inspection, error) {
	if err := authz.Authorize(actor, authz.ResourceInspection, authz.ActionCreate, ""); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	agent, err := s.agentRepo.FindByID(ctx, input.AgentID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.Validation(MsgInvalidAgentID)
		}
		return nil, apperr.Internal("failed to load agent", err)
	}

	inspection := input.ToInspection()
	if err := s.inspectionRepo.Create(ctx, inspection); err != nil {
		return nil, apperr.Internal("failed to create inspection", err)
	}
	inspection.Agent = agent

	s.auditSvc.Record(ctx, actor, models.AuditActionCreateInspection, models.EntityTypeInspection, inspection.ID, map[string]any{
		"agentId":         agent.ID,
		"agentName":       agent.FullName,
		"propertyAddress": inspection.PropertyAddress,
	})

	return inspection, nil
}

// Update applies a partial update. Admin only. Status changes must follow the
// inspection lifecycle.
func (s *InspectionService) Update(ctx context.Context, actor *models.SessionUser, id string, input models.InspectionUpdateInput) (*models.Inspection, error) {
	if err := authz.Authorize(actor, authz.ResourceInspection, authz.ActionUpdate, ""); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, MsgInspectionNotFound)
	}

	if input.Status.Present {
		machine := statemachine.NewInspectionFSM(current)
		if !machine.CanTransition(input.Status.Value) {
			return nil, apperr.Validation(fmt.Sprintf("Cannot change inspection status from %s to %s", current.Status, input.Status.Value))
		}
		if err := machine.TransitionTo(ctx, input.Status.Value); err != nil {
			return nil, apperr.Validation(err.Error())
		}
	}

	inspection, err := s.inspectionRepo.Update(ctx, id, input.Changes())
	if err != nil {
		return nil, lookupError(err, MsgInspectionNotFound)
	}

	s.auditSvc.Record(ctx, actor, models.AuditActionUpdateInspection, models.EntityTypeInspection, id, map[string]any{
		"updatedFields": input.FieldNames(),
	})

	return inspection, nil
}
