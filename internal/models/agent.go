package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"gorm.io/gorm"
)

// Agent is a real-estate professional managed by an admin.
type Agent struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	FullName      string    `gorm:"not null" json:"fullName"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string    `json:"phone"`
	BrokerageName string    `json:"brokerageName"`
	LicenseNumber *string   `json:"licenseNumber,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Status        string    `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Agent
func (Agent) TableName() string {
	return "agents"
}

// BeforeCreate assigns the id and defaults
func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AgentStatusActive
	}
	return nil
}

// IsActive returns true if the agent may sign in
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}

// Agent status constants
const (
	AgentStatusActive   = "active"
	AgentStatusInactive = "inactive"
)

// ValidAgentStatus reports whether s is a known agent status.
func ValidAgentStatus(s string) bool {
	return s == AgentStatusActive || s == AgentStatusInactive
}

// AgentCreateInput is the body of a create-agent request.
type AgentCreateInput struct {
	FullName      string  `json:"fullName" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required"`
	BrokerageName string  `json:"brokerageName" validate:"required"`
	LicenseNumber *string `json:"licenseNumber"`
	Address       *string `json:"address"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Normalize trims surrounding whitespace from text fields.
func (in *AgentCreateInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BrokerageName = strings.TrimSpace(in.BrokerageName)
}

// Validate checks required fields and formats.
func (in *AgentCreateInput) Validate() error {
	errs := fieldErrors(in)
	switch {
	case errs == nil:
		return nil
	case hasTag(errs, "required"):
		return apperr.Validation("Full name, email, phone, and brokerage name are required")
	case errs["Email"] != "":
		return apperr.Validation("Invalid email address")
	case errs["Status"] != "":
		return apperr.Validation("Status must be active or inactive")
	default:
		return apperr.Validation("Invalid agent data")
	}
}

// ToAgent builds a new Agent record from the input.
func (in *AgentCreateInput) ToAgent() *Agent {
	status := in.Status
	if status == "" {
		status = AgentStatusActive
	}
	return &Agent{
		FullName:      in.FullName,
		Email:         in.Email,
		Phone:         in.Phone,
		BrokerageName: in.BrokerageName,
		LicenseNumber: in.LicenseNumber,
		Address:       in.Address,
		Status:        status,
	}
}

// AgentUpdateInput is the body of a partial agent update. Only present fields are written.
type AgentUpdateInput struct {
	FullName      Optional[string] `json:"fullName"`
	Email         Optional[string] `json:"email"`
	Phone         Optional[string] `json:"phone"`
	BrokerageName Optional[string] `json:"brokerageName"`
	LicenseNumber Optional[string] `json:"licenseNumber"`
	Address       Optional[string] `json:"address"`
	Status        Optional[string] `json:"status"`
}

// Validate rejects nulls on required columns and malformed values.
func (in *AgentUpdateInput) Validate() error {
	required := []Optional[string]{in.FullName, in.Email, in.Phone, in.BrokerageName, in.Status}
	for _, f := range required {
		if f.Present && (f.Null || strings.TrimSpace(f.Value) == "") {
			return apperr.Validation("Full name, email, phone, brokerage name and status cannot be empty")
		}
	}
	if in.Email.Present {
		if err := getValidator().Var(strings.TrimSpace(in.Email.Value), "email"); err != nil {
			return apperr.Validation("Invalid email address")
		}
	}
	if in.Status.Present && !ValidAgentStatus(in.Status.Value) {
		return apperr.Validation("Status must be active or inactive")
	}
	return nil
}

// Changes returns the column updates for the present fields.
func (in *AgentUpdateInput) Changes() map[string]any {
	changes := make(map[string]any)
	if in.FullName.Present {
		changes["full_name"] = strings.TrimSpace(in.FullName.Value)
	}
	if in.Email.Present {
		changes["email"] = strings.TrimSpace(in.Email.Value)
	}
	if in.Phone.Present {
		changes["phone"] = strings.TrimSpace(in.Phone.Value)
	}
	if in.BrokerageName.Present {
		changes["brokerage_name"] = strings.TrimSpace(in.BrokerageName.Value)
	}
	if in.LicenseNumber.Present {
		changes["license_number"] = in.LicenseNumber.Ptr()
	}
	if in.Address.Present {
		changes["address"] = in.Address.Ptr()
	}
	if in.Status.Present {
		changes["status"] = in.Status.Value
	}
	return changes
}

// FieldNames lists the JSON names of the present fields, for audit metadata.
func (in *AgentUpdateInput) FieldNames() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(in.FullName.Present, "fullName")
	add(in.Email.Present, "email")
	add(in.Phone.Present, "phone")
	add(in.BrokerageName.Present, "brokerageName")
	add(in.LicenseNumber.Present, "licenseNumber")
	add(in.Address.Present, "address")
	add(in.Status.Present, "status")
	return names
}

// AgentSummary is the agent excerpt embedded in inspection responses.
type AgentSummary struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	BrokerageName string `json:"brokerageName"`
}

// Summary converts Agent to AgentSummary
func (a *Agent) Summary() *AgentSummary {
	if a == nil {
		return nil
	}
	return &AgentSummary{
		FullName:      a.FullName,
		Email:         a.Email,
		Phone:         a.Phone,
		BrokerageName: a.BrokerageName,
	}
}

// AgentFilter narrows an agent search.
type AgentFilter struct {
	Search string
	Status string
}
