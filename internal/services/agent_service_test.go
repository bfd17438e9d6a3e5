package services

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentService_Create(t *testing.T) {
	env := newTestEnv(t)

	agent, err := env.svc.Agent.Create(context.Background(), testutil.Admin(), models.AgentCreateInput{
		FullName:      "Jane Doe",
		Email:         "jane@x.com",
		Phone:         "555",
		BrokerageName: "ABC",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, models.AgentStatusActive, agent.Status)
	assert.False(t, agent.CreatedAt.IsZero())

	logs := env.auditLog(t, models.AuditFilter{})
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionCreateAgent, logs[0].Action)
	assert.Equal(t, models.EntityTypeAgent, logs[0].EntityType)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, agent.ID, *logs[0].EntityID)
	assert.Equal(t, "Jane Doe", logs[0].Metadata["agentName"])
}

func TestAgentService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")

	tests := []struct {
		name    string
		input   models.AgentCreateInput
		message string
	}{
		{"missing fields", models.AgentCreateInput{FullName: "Jane"}, "Full name, email, phone, and brokerage name are required"},
		{"blank name", models.AgentCreateInput{FullName: "  ", Email: "a@b.com", Phone: "1", BrokerageName: "B"}, "Full name, email, phone, and brokerage name are required"},
		{"bad email", models.AgentCreateInput{FullName: "Jane", Email: "jane", Phone: "1", BrokerageName: "B"}, "Invalid email address"},
		{"duplicate email", models.AgentCreateInput{FullName: "Jane", Email: "SARAH@example.com", Phone: "1", BrokerageName: "B"}, "An agent with this email already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Agent.Create(context.Background(), testutil.Admin(), tt.input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.message, apperr.PublicMessage(err))
		})
	}
	assert.Empty(t, env.auditLog(t, models.AuditFilter{}))
}

func TestAgentService_Create_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	agent := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")

	input := models.AgentCreateInput{FullName: "Jane", Email: "jane@x.com", Phone: "1", BrokerageName: "B"}

	_, err := env.svc.Agent.Create(context.Background(), nil, input)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = env.svc.Agent.Create(context.Background(), testutil.AgentSession(agent), input)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestAgentService_Update_OnlyPresentFields(t *testing.T) {
	env := newTestEnv(t)
	agent := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(agent).UpdateColumn("updated_at", old).Error)

	before, err := env.repos.Agent.FindByID(context.Background(), agent.ID)
	require.NoError(t, err)

	updated, err := env.svc.Agent.Update(context.Background(), testutil.Admin(), agent.ID, models.AgentUpdateInput{
		FullName: models.Some("Sarah J. Johnson"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Sarah J. Johnson", updated.FullName)
	assert.True(t, updated.UpdatedAt.After(old))
	assert.Equal(t, before.ID, updated.ID)
	assert.Equal(t, before.Email, updated.Email)
	assert.Equal(t, before.Phone, updated.Phone)
	assert.Equal(t, before.BrokerageName, updated.BrokerageName)
	assert.Equal(t, before.LicenseNumber, updated.LicenseNumber)
	assert.Equal(t, before.Address, updated.Address)
	assert.Equal(t, before.Status, updated.Status)
	assert.True(t, before.CreatedAt.Equal(updated.CreatedAt))

	logs := env.auditLog(t, models.AuditFilter{})
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionUpdateAgent, logs[0].Action)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, agent.ID, *logs[0].EntityID)
	assert.Equal(t, []any{"fullName"}, logs[0].Metadata["updatedFields"])
}

func TestAgentService_Update_Errors(t *testing.T) {
	env := newTestEnv(t)
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	testutil.CreateAgent(t, env.db, "Michael Chen", "michael@example.com")

	_, err := env.svc.Agent.Update(context.Background(), testutil.Admin(), "missing", models.AgentUpdateInput{Phone: models.Some("1")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = env.svc.Agent.Update(context.Background(), testutil.Admin(), sarah.ID, models.AgentUpdateInput{Email: models.Some("michael@example.com")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.svc.Agent.Update(context.Background(), testutil.Admin(), sarah.ID, models.AgentUpdateInput{Email: models.Some("sarah@example.com")})
	assert.NoError(t, err, "keeping the own email is allowed")

	_, err = env.svc.Agent.Update(context.Background(), testutil.Admin(), sarah.ID, models.AgentUpdateInput{Status: models.Some("paused")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.svc.Agent.Update(context.Background(), testutil.AgentSession(sarah), sarah.ID, models.AgentUpdateInput{Phone: models.Some("1")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "agents cannot edit their own profile")
}

func TestAgentService_ListAndGet_Scoping(t *testing.T) {
	env := newTestEnv(t)
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	michael := testutil.CreateAgent(t, env.db, "Michael Chen", "michael@example.com")

	all, err := env.svc.Agent.List(context.Background(), testutil.Admin(), models.AgentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := env.svc.Agent.List(context.Background(), testutil.AgentSession(sarah), models.AgentFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, sarah.ID, own[0].ID)

	got, err := env.svc.Agent.Get(context.Background(), testutil.AgentSession(sarah), sarah.ID)
	require.NoError(t, err)
	assert.Equal(t, sarah.Email, got.Email)

	_, err = env.svc.Agent.Get(context.Background(), testutil.AgentSession(sarah), michael.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "You do not have access to this agent's data", apperr.PublicMessage(err))

	_, err = env.svc.Agent.Get(context.Background(), testutil.Admin(), "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = env.svc.Agent.List(context.Background(), nil, models.AgentFilter{})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestAgentService_Delete_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	michael := testutil.CreateAgent(t, env.db, "Michael Chen", "michael@example.com")
	inspection := testutil.CreateInspection(t, env.db, sarah.ID, "123 Oak Street")

	doc, err := env.svc.Document.Upload(ctx, testutil.Admin(), UploadInput{
		AgentID:      sarah.ID,
		InspectionID: inspection.ID,
		Title:        "Inspection Report",
		FileName:     "report.pdf",
		ContentType:  "application/pdf",
		Data:         testutil.SamplePDF,
	})
	require.NoError(t, err)
	other := testutil.CreateDocument(t, env.db, michael.ID, nil, "Michael W9")

	require.NoError(t, env.svc.Agent.Delete(ctx, testutil.Admin(), sarah.ID))

	_, err = env.repos.Agent.FindByID(ctx, sarah.ID)
	assert.Error(t, err)
	_, err = env.repos.Inspection.FindByID(ctx, inspection.ID)
	assert.Error(t, err)
	_, err = env.repos.Document.FindByID(ctx, doc.ID)
	assert.Error(t, err)
	_, err = env.repos.Document.FindByID(ctx, other.ID)
	assert.NoError(t, err, "other agents keep their documents")

	assert.Equal(t, []string{doc.StoragePath}, env.blobs.Deleted)
	assert.Empty(t, env.blobs.Objects)

	logs := env.auditLog(t, models.AuditFilter{Action: models.AuditActionDeleteAgent})
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, sarah.ID, *logs[0].EntityID)
	assert.Equal(t, "Sarah Johnson", logs[0].Metadata["agentName"])
}

func TestAgentService_Delete_Missing(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.Agent.Delete(context.Background(), testutil.Admin(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, MsgAgentNotFound, apperr.PublicMessage(err))
	assert.Empty(t, env.auditLog(t, models.AuditFilter{}))
}
