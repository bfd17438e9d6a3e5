package models

// Role is the role carried by a session.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAgent
}

// SessionUser is the identity carried by a session credential.
type SessionUser struct {
	Role      Role   `json:"role"`
	AgentID   string `json:"agentId,omitempty"`
	AgentName string `json:"agentName,omitempty"`
}

// IsAdmin returns true if the session has the admin role
func (s *SessionUser) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// IsAgent returns true if the session has the agent role
func (s *SessionUser) IsAgent() bool {
	return s != nil && s.Role == RoleAgent
}

// Owns reports whether the session is the agent identified by agentID.
func (s *SessionUser) Owns(agentID string) bool {
	return s.IsAgent() && s.AgentID != "" && s.AgentID == agentID
}
