// Package testutil provides an in-memory database and fixtures shared by the
// repository, service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sjperalta/agent-portal-api/internal/database"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// NewDB opens an isolated in-memory SQLite database with foreign keys enforced
// and the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateAgent inserts an active agent with the given email.
func CreateAgent(t *testing.T, db *gorm.DB, fullName, email string) *models.Agent {
	t.Helper()
	agent := &models.Agent{
		FullName:      fullName,
		Email:         email,
		Phone:         "(555) 123-4567",
		BrokerageName: "Premier Realty Group",
		Status:        models.AgentStatusActive,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(agent).Error)
	return agent
}

// CreateInspection inserts a scheduled inspection for agentID.
func CreateInspection(t *testing.T, db *gorm.DB, agentID, address string) *models.Inspection {
	t.Helper()
	inspection := &models.Inspection{
		AgentID:         agentID,
		InspectionDate:  "2026-01-15",
		PropertyAddress: address,
		Status:          models.InspectionStatusScheduled,
		InspectorName:   "Mike Thompson",
	}
	require.NoError(t, db.Omit("Agent").Create(inspection).Error)
	return inspection
}

// CreateDocument inserts a document record for agentID.
func CreateDocument(t *testing.T, db *gorm.DB, agentID string, inspectionID *string, title string) *models.Document {
	t.Helper()
	doc := &models.Document{
		AgentID:      agentID,
		InspectionID: inspectionID,
		Title:        title,
		Category:     models.DocumentCategoryOther,
		FileName:     strings.ReplaceAll(strings.ToLower(title), " ", "-") + ".pdf",
		FileSize:     1024,
		MimeType:     "application/pdf",
		StoragePath:  "documents/" + agentID + "/" + title + ".pdf",
		UploadedBy:   "admin",
	}
	require.NoError(t, db.Omit("Agent", "Inspection").Create(doc).Error)
	return doc
}

// Admin returns an admin session.
func Admin() *models.SessionUser {
	return &models.SessionUser{Role: models.RoleAdmin}
}

// AgentSession returns an agent session for agent.
func AgentSession(agent *models.Agent) *models.SessionUser {
	return &models.SessionUser{Role: models.RoleAgent, AgentID: agent.ID, AgentName: agent.FullName}
}
