package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"gorm.io/gorm"
)

// Inspection is a property inspection tied to one agent.
type Inspection struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	AgentID         string    `gorm:"size:36;not null;index" json:"agentId"`
	InspectionDate  string    `gorm:"size:10;not null;index" json:"inspectionDate"`
	PropertyAddress string    `gorm:"not null" json:"propertyAddress"`
	Status          string    `gorm:"size:20;not null;default:scheduled;index" json:"status"`
	InspectorName   string    `json:"inspectorName"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`

	// Associations
	Agent *Agent `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Inspection
func (Inspection) TableName() string {
	return "inspections"
}

// BeforeCreate assigns the id and defaults
func (i *Inspection) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = InspectionStatusScheduled
	}
	return nil
}

// Inspection status constants
const (
	InspectionStatusScheduled = "scheduled"
	InspectionStatusCompleted = "completed"
	InspectionStatusCanceled  = "canceled"
)

// ValidInspectionStatus reports whether s is a known inspection status.
func ValidInspectionStatus(s string) bool {
	switch s {
	case InspectionStatusScheduled, InspectionStatusCompleted, InspectionStatusCanceled:
		return true
	}
	return false
}

// ParseInspectionDate accepts YYYY-MM-DD or an RFC 3339 timestamp and
// returns the calendar date in YYYY-MM-DD form.
func ParseInspectionDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d.Format(time.DateOnly), true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.Format(time.DateOnly), true
	}
	return "", false
}

// InspectionCreateInput is the body of a create-inspection request.
type InspectionCreateInput struct {
	AgentID         string  `json:"agentId" validate:"required"`
	InspectionDate  string  `json:"inspectionDate" validate:"required"`
	PropertyAddress string  `json:"propertyAddress" validate:"required"`
	Status          string  `json:"status" validate:"omitempty,oneof=scheduled completed canceled"`
	InspectorName   string  `json:"inspectorName" validate:"required"`
	Notes           *string `json:"notes"`
}

// Validate checks required fields and normalizes the inspection date.
func (in *InspectionCreateInput) Validate() error {
	in.AgentID = strings.TrimSpace(in.AgentID)
	in.PropertyAddress = strings.TrimSpace(in.PropertyAddress)
	in.InspectorName = strings.TrimSpace(in.InspectorName)

	errs := fieldErrors(in)
	if hasTag(errs, "required") {
		return apperr.Validation("Agent ID, inspection date, property address, and inspector name are required")
	}
	if errs["Status"] != "" {
		return apperr.Validation("Status must be scheduled, completed or canceled")
	}
	date, ok := ParseInspectionDate(in.InspectionDate)
	if !ok {
		return apperr.Validation("Inspection date must be formatted as YYYY-MM-DD")
	}
	in.InspectionDate = date
	return nil
}

// ToInspection builds a new Inspection record from the input.
func (in *InspectionCreateInput) ToInspection() *Inspection {
	status := in.Status
	if status == "" {
		status = InspectionStatusScheduled
	}
	return &Inspection{
		AgentID:         in.AgentID,
		InspectionDate:  in.InspectionDate,
		PropertyAddress: in.PropertyAddress,
		Status:          status,
		InspectorName:   in.InspectorName,
		Notes:           in.Notes,
	}
}

// InspectionUpdateInput is the body of a partial inspection update.
type InspectionUpdateInput struct {
	InspectionDate  Optional[string] `json:"inspectionDate"`
	PropertyAddress Optional[string] `json:"propertyAddress"`
	Status          Optional[string] `json:"status"`
	InspectorName   Optional[string] `json:"inspectorName"`
	Notes           Optional[string] `json:"notes"`
}

// Validate rejects nulls on required columns and normalizes the inspection date.
func (in *InspectionUpdateInput) Validate() error {
	for _, f := range []Optional[string]{in.InspectionDate, in.PropertyAddress, in.Status} {
		if f.Present && (f.Null || strings.TrimSpace(f.Value) == "") {
			return apperr.Validation("Inspection date, property address and status cannot be empty")
		}
	}
	if in.InspectionDate.Present {
		date, ok := ParseInspectionDate(in.InspectionDate.Value)
		if !ok {
			return apperr.Validation("Inspection date must be formatted as YYYY-MM-DD")
		}
		in.InspectionDate.Value = date
	}
	if in.Status.Present && !ValidInspectionStatus(in.Status.Value) {
		return apperr.Validation("Status must be scheduled, completed or canceled")
	}
	return nil
}

// Changes returns the column updates for the present fields.
func (in *InspectionUpdateInput) Changes() map[string]any {
	changes := make(map[string]any)
	if in.InspectionDate.Present {
		changes["inspection_date"] = in.InspectionDate.Value
	}
	if in.PropertyAddress.Present {
		changes["property_address"] = strings.TrimSpace(in.PropertyAddress.Value)
	}
	if in.Status.Present {
		changes["status"] = in.Status.Value
	}
	if in.InspectorName.Present {
		changes["inspector_name"] = strings.TrimSpace(in.InspectorName.Value)
	}
	if in.Notes.Present {
		changes["notes"] = in.Notes.Ptr()
	}
	return changes
}

// FieldNames lists the JSON names of the present fields, for audit metadata.
func (in *InspectionUpdateInput) FieldNames() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(in.InspectionDate.Present, "inspectionDate")
	add(in.PropertyAddress.Present, "propertyAddress")
	add(in.Status.Present, "status")
	add(in.InspectorName.Present, "inspectorName")
	add(in.Notes.Present, "notes")
	return names
}

// InspectionResponse is the JSON response format for inspections
type InspectionResponse struct {
	Inspection
	Agent *AgentSummary `json:"agent,omitempty"`
}

// ToResponse converts Inspection to InspectionResponse
func (i *Inspection) ToResponse() InspectionResponse {
	return InspectionResponse{
		Inspection: *i,
		Agent:      i.Agent.Summary(),
	}
}

// InspectionFilter narrows an inspection search.
type InspectionFilter struct {
	AgentID string
	Status  string
}
