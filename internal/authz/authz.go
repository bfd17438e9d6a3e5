// Package authz is the single authorization gate. Every service operation
// asks it whether the calling session may perform an action on a resource.
package authz

import (
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/models"
)

// Resource is a protected entity kind.
type Resource string

const (
	ResourceAgent      Resource = "agent"
	ResourceInspection Resource = "inspection"
	ResourceDocument   Resource = "document"
	ResourceAuditLog   Resource = "audit_log"
)

// Action is an operation on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// access describes who may perform an action.
type access int

const (
	denied access = iota
	adminOnly
	adminOrOwner
)

var policy = map[Resource]map[Action]access{
	ResourceAgent: {
		ActionCreate: adminOnly,
		ActionRead:   adminOrOwner,
		ActionUpdate: adminOnly,
		ActionDelete: adminOnly,
	},
	ResourceInspection: {
		ActionCreate: adminOnly,
		ActionRead:   adminOrOwner,
		ActionUpdate: adminOnly,
	},
	ResourceDocument: {
		ActionCreate: adminOnly,
		ActionRead:   adminOrOwner,
		ActionDelete: adminOnly,
	},
	ResourceAuditLog: {
		ActionRead: adminOnly,
	},
}

// Messages returned by the gate
const (
	MsgAuthRequired     = "Authentication required"
	MsgInsufficientPerm = "Insufficient permissions"
	MsgNoAgentAccess    = "You do not have access to this agent's data"
	MsgActionNotAllowed = "This action is not allowed"
)

// RequireAuth fails with Unauthorized when there is no session.
func RequireAuth(s *models.SessionUser) (*models.SessionUser, error) {
	if s == nil || !s.Role.Valid() {
		return nil, apperr.Unauthorized(MsgAuthRequired)
	}
	return s, nil
}

// RequireRole fails with Unauthorized without a session and Forbidden when the
// session role is not one of roles.
func RequireRole(s *models.SessionUser, roles ...models.Role) (*models.SessionUser, error) {
	s, err := RequireAuth(s)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if s.Role == r {
			return s, nil
		}
	}
	return nil, apperr.Forbidden(MsgInsufficientPerm)
}

// RequireOwnerOrAdmin admits admins and the agent identified by agentID.
func RequireOwnerOrAdmin(s *models.SessionUser, agentID string) (*models.SessionUser, error) {
	s, err := RequireAuth(s)
	if err != nil {
		return nil, err
	}
	if s.IsAdmin() || s.Owns(agentID) {
		return s, nil
	}
	return nil, apperr.Forbidden(MsgNoAgentAccess)
}

// Authorize evaluates the policy table for resource and action. ownerAgentID is
// the agent that owns the target and only matters for owner-readable resources.
func Authorize(s *models.SessionUser, resource Resource, action Action, ownerAgentID string) error {
	s, err := RequireAuth(s)
	if err != nil {
		return err
	}

	switch policy[resource][action] {
	case adminOnly:
		if s.IsAdmin() {
			return nil
		}
		return apperr.Forbidden(MsgInsufficientPerm)
	case adminOrOwner:
		if s.IsAdmin() || s.Owns(ownerAgentID) {
			return nil
		}
		return apperr.Forbidden(ownerMessage(resource))
	default:
		return apperr.Forbidden(MsgActionNotAllowed)
	}
}

// Allowed reports whether Authorize would succeed.
func Allowed(s *models.SessionUser, resource Resource, action Action, ownerAgentID string) bool {
	return Authorize(s, resource, action, ownerAgentID) == nil
}

// ScopeAgentID narrows a list filter to the caller. Agents always see only their
// own records regardless of requested; admins keep the requested filter.
func ScopeAgentID(s *models.SessionUser, requested string) string {
	if s.IsAgent() {
		return s.AgentID
	}
	return requested
}

func ownerMessage(resource Resource) string {
	switch resource {
	case ResourceDocument:
		return "You do not have access to this document"
	case ResourceInspection:
		return "You do not have access to this inspection"
	default:
		return MsgNoAgentAccess
	}
}
