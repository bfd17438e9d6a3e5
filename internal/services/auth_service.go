package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/config"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Login messages
const (
	MsgRoleRequired     = "Role is required"
	MsgInvalidRole      = "Invalid role"
	MsgPasswordRequired = "Password is required for admin login"
	MsgInvalidPassword  = "Invalid password"
	MsgAgentCredentials = "Email and passcode are required"
	MsgInvalidPasscode  = "Invalid passcode"
	MsgUnknownAgent     = "Agent not found. Please check your email address."
	MsgInactiveAgent    = "Agent account is inactive"
)

// LoginCredentials is the body of a login request. Agents identify themselves
// by email; agentId is accepted as an alias for it.
type LoginCredentials struct {
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty"`
	AgentID  string `json:"agentId,omitempty"`
	Passcode string `json:"passcode,omitempty"`
}

// AuthService handles authentication operations
type AuthService struct {
	agentRepo    repository.AgentRepository
	auditSvc     *AuditService
	adminHash    []byte
	passcodeHash []byte
}

// NewAuthService creates a new auth service. The shared secrets are kept only
// as bcrypt hashes.
func NewAuthService(agentRepo repository.AgentRepository, auditSvc *AuditService, cfg *config.Config) (*AuthService, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	passcodeHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AgentPasscode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash agent passcode: %w", err)
	}

	return &AuthService{
		agentRepo:    agentRepo,
		auditSvc:     auditSvc,
		adminHash:    adminHash,
		passcodeHash: passcodeHash,
	}, nil
}

// Login verifies credentials and returns the identity to store in the session.
// It records nothing; call RecordLogin once the session has been issued.
func (s *AuthService) Login(ctx context.Context, creds LoginCredentials) (*models.SessionUser, error) {
	switch models.Role(strings.TrimSpace(creds.Role)) {
	case "":
		return nil, apperr.Validation(MsgRoleRequired)
	case models.RoleAdmin:
		return s.loginAdmin(ctx, creds)
	case models.RoleAgent:
		return s.loginAgent(ctx, creds)
	default:
		return nil, apperr.Validation(MsgInvalidRole)
	}
}

func (s *AuthService) loginAdmin(ctx context.Context, creds LoginCredentials) (*models.SessionUser, error) {
	if creds.Password == "" {
		return nil, apperr.Validation(MsgPasswordRequired)
	}
	if bcrypt.CompareHashAndPassword(s.adminHash, []byte(creds.Password)) != nil {
		return nil, apperr.Unauthorized(MsgInvalidPassword)
	}

	return &models.SessionUser{Role: models.RoleAdmin}, nil
}

func (s *AuthService) loginAgent(ctx context.Context, creds LoginCredentials) (*models.SessionUser, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		email = strings.TrimSpace(creds.AgentID)
	}
	if email == "" || creds.Passcode == "" {
		return nil, apperr.Validation(MsgAgentCredentials)
	}

	if bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(creds.Passcode)) != nil {
		return nil, apperr.Unauthorized(MsgInvalidPasscode)
	}

	agent, err := s.agentRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.Unauthorized(MsgUnknownAgent)
		}
		return nil, apperr.Internal("failed to look up agent", err)
	}
	if !agent.IsActive() {
		return nil, apperr.Unauthorized(MsgInactiveAgent)
	}

	return &models.SessionUser{
		Role:      models.RoleAgent,
		AgentID:   agent.ID,
		AgentName: agent.FullName,
	}, nil
}

// RecordLogin audits a login whose session cookie has been issued.
func (s *AuthService) RecordLogin(ctx context.Context, user *models.SessionUser) {
	if user == nil {
		return
	}
	metadata := map[string]any{"role": string(user.Role)}
	if user.AgentName != "" {
		metadata["agentName"] = user.AgentName
	}
	s.auditSvc.Record(ctx, user, models.AuditActionLogin, models.EntityTypeSession, user.AgentID, metadata)
}

// Logout audits the end of a session. It never fails; a nil session is ignored.
func (s *AuthService) Logout(ctx context.Context, user *models.SessionUser) {
	if user == nil {
		return
	}
	s.auditSvc.Record(ctx, user, models.AuditActionLogout, models.EntityTypeSession, user.AgentID, map[string]any{
		"role": string(user.Role),
	})
}
