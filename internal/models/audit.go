package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an immutable record of a sensitive action.
type AuditLog struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	ActorRole  string            `gorm:"size:20;not null" json:"actorRole"`
	ActorID    *string           `gorm:"size:36;index" json:"actorId,omitempty"`
	Action     string            `gorm:"size:50;not null;index" json:"action"`
	EntityType string            `gorm:"size:50;not null;index" json:"entityType"`
	EntityID   *string           `gorm:"size:36;index" json:"entityId,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	IPAddress  string            `gorm:"size:45" json:"ipAddress,omitempty"`
	UserAgent  string            `gorm:"size:255" json:"userAgent,omitempty"`
	CreatedAt  time.Time         `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// ErrAuditLogImmutable is returned when something tries to modify an audit entry.
var ErrAuditLogImmutable = errors.New("audit log entries are append-only")

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Metadata == nil {
		l.Metadata = datatypes.JSONMap{}
	}
	return nil
}

func (l *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

func (l *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

// Audit actions
const (
	AuditActionUploadDoc        = "UPLOAD_DOC"
	AuditActionDeleteDoc        = "DELETE_DOC"
	AuditActionCreateInspection = "CREATE_INSPECTION"
	AuditActionUpdateInspection = "UPDATE_INSPECTION"
	AuditActionCreateAgent      = "CREATE_AGENT"
	AuditActionUpdateAgent      = "UPDATE_AGENT"
	AuditActionDeleteAgent      = "DELETE_AGENT"
	AuditActionLogin            = "LOGIN"
	AuditActionLogout           = "LOGOUT"
)

// Audit entity types
const (
	EntityTypeAgent      = "agent"
	EntityTypeDocument   = "document"
	EntityTypeInspection = "inspection"
	EntityTypeSession    = "session"
)

// AuditFilter narrows an audit log search.
type AuditFilter struct {
	EntityType string
	EntityID   string
	Action     string
	Actions    []string
	Limit      int
}

// Audit search limits
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// EffectiveLimit clamps the requested result cap.
func (f AuditFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultAuditLimit
	case f.Limit > MaxAuditLimit:
		return MaxAuditLimit
	default:
		return f.Limit
	}
}
