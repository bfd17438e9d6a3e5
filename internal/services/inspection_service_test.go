package services

import (
	"context"
	"testing"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectionService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	notes := "Check the roof"

	created, err := env.svc.Inspection.Create(ctx, testutil.Admin(), models.InspectionCreateInput{
		AgentID:         agent.ID,
		InspectionDate:  "2026-01-15T09:30:00Z",
		PropertyAddress: " 123 Oak Street ",
		InspectorName:   "Mike Thompson",
		Notes:           &notes,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2026-01-15", created.InspectionDate)
	assert.Equal(t, "123 Oak Street", created.PropertyAddress)
	assert.Equal(t, models.InspectionStatusScheduled, created.Status)
	require.NotNil(t, created.Agent)
	assert.Equal(t, "Sarah Johnson", created.Agent.FullName)

	found, err := env.svc.Inspection.Get(ctx, testutil.Admin(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.AgentID, found.AgentID)
	assert.Equal(t, created.InspectionDate, found.InspectionDate)
	assert.Equal(t, created.PropertyAddress, found.PropertyAddress)
	assert.Equal(t, created.Status, found.Status)
	assert.Equal(t, created.InspectorName, found.InspectorName)
	assert.Equal(t, created.Notes, found.Notes)
	assert.True(t, created.CreatedAt.Equal(found.CreatedAt))

	logs := env.auditLog(t, models.AuditFilter{})
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionCreateInspection, logs[0].Action)
	assert.Equal(t, models.EntityTypeInspection, logs[0].EntityType)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, created.ID, *logs[0].EntityID)
	assert.Equal(t, "123 Oak Street", logs[0].Metadata["propertyAddress"])
}

func TestInspectionService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	agent := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")

	tests := []struct {
		name    string
		input   models.InspectionCreateInput
		message string
	}{
		{"missing fields", models.InspectionCreateInput{AgentID: agent.ID}, "Agent ID, inspection date, property address, and inspector name are required"},
		{"bad date", models.InspectionCreateInput{AgentID: agent.ID, InspectionDate: "15/01/2026", PropertyAddress: "1 Elm", InspectorName: "Mike"}, "Inspection date must be formatted as YYYY-MM-DD"},
		{"bad status", models.InspectionCreateInput{AgentID: agent.ID, InspectionDate: "2026-01-15", PropertyAddress: "1 Elm", InspectorName: "Mike", Status: "pending"}, "Status must be scheduled, completed or canceled"},
		{"unknown agent", models.InspectionCreateInput{AgentID: "missing", InspectionDate: "2026-01-15", PropertyAddress: "1 Elm", InspectorName: "Mike"}, MsgInvalidAgentID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Inspection.Create(context.Background(), testutil.Admin(), tt.input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.message, apperr.PublicMessage(err))
		})
	}

	_, err := env.svc.Inspection.Create(context.Background(), testutil.AgentSession(agent), tests[0].input)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestInspectionService_List_ScopesAgents(t *testing.T) {
	env := newTestEnv(t)
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	michael := testutil.CreateAgent(t, env.db, "Michael Chen", "michael@example.com")
	own := testutil.CreateInspection(t, env.db, sarah.ID, "123 Oak Street")
	testutil.CreateInspection(t, env.db, michael.ID, "456 Pine Avenue")
	testutil.CreateInspection(t, env.db, michael.ID, "789 Maple Drive")

	all, err := env.svc.Inspection.List(context.Background(), testutil.Admin(), models.InspectionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// An agent asking for someone else's inspections still only sees its own.
	scoped, err := env.svc.Inspection.List(context.Background(), testutil.AgentSession(sarah), models.InspectionFilter{AgentID: michael.ID})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, own.ID, scoped[0].ID)
	require.NotNil(t, scoped[0].Agent)
	assert.Equal(t, "Sarah Johnson", scoped[0].Agent.FullName)
}

func TestInspectionService_Get_Ownership(t *testing.T) {
	env := newTestEnv(t)
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	michael := testutil.CreateAgent(t, env.db, "Michael Chen", "michael@example.com")
	theirs := testutil.CreateInspection(t, env.db, michael.ID, "456 Pine Avenue")

	_, err := env.svc.Inspection.Get(context.Background(), testutil.AgentSession(sarah), theirs.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "You do not have access to this inspection", apperr.PublicMessage(err))

	_, err = env.svc.Inspection.Get(context.Background(), testutil.AgentSession(sarah), "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = env.svc.Inspection.Get(context.Background(), nil, theirs.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestInspectionService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	inspection := testutil.CreateInspection(t, env.db, agent.ID, "123 Oak Street")

	updated, err := env.svc.Inspection.Update(ctx, testutil.Admin(), inspection.ID, models.InspectionUpdateInput{
		Status: models.Some(models.InspectionStatusCompleted),
		Notes:  models.Some("Passed"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InspectionStatusCompleted, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Passed", *updated.Notes)
	assert.Equal(t, "123 Oak Street", updated.PropertyAddress)
	assert.Equal(t, "Mike Thompson", updated.InspectorName)

	logs := env.auditLog(t, models.AuditFilter{Action: models.AuditActionUpdateInspection})
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, inspection.ID, *logs[0].EntityID)
	assert.Equal(t, []any{"status", "notes"}, logs[0].Metadata["updatedFields"])
}

func TestInspectionService_Update_StatusLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	inspection := testutil.CreateInspection(t, env.db, agent.ID, "123 Oak Street")

	_, err := env.svc.Inspection.Update(ctx, testutil.Admin(), inspection.ID, models.InspectionUpdateInput{
		Status: models.Some(models.InspectionStatusCanceled),
	})
	require.NoError(t, err)

	_, err = env.svc.Inspection.Update(ctx, testutil.Admin(), inspection.ID, models.InspectionUpdateInput{
		Status: models.Some(models.InspectionStatusCompleted),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Cannot change inspection status from canceled to completed", apperr.PublicMessage(err))

	stored, err := env.repos.Inspection.FindByID(ctx, inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InspectionStatusCanceled, stored.Status)

	_, err = env.svc.Inspection.Update(ctx, testutil.Admin(), inspection.ID, models.InspectionUpdateInput{
		Status: models.Some(models.InspectionStatusScheduled),
	})
	assert.NoError(t, err, "a canceled inspection can be rescheduled")

	assert.Len(t, env.auditLog(t, models.AuditFilter{Action: models.AuditActionUpdateInspection}), 2)
}

func TestInspectionService_Update_Errors(t *testing.T) {
	env := newTestEnv(t)
	agent := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	inspection := testutil.CreateInspection(t, env.db, agent.ID, "123 Oak Street")

	_, err := env.svc.Inspection.Update(context.Background(), testutil.Admin(), "missing", models.InspectionUpdateInput{Notes: models.Some("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = env.svc.Inspection.Update(context.Background(), testutil.Admin(), inspection.ID, models.InspectionUpdateInput{
		PropertyAddress: models.Optional[string]{Present: true, Null: true},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.svc.Inspection.Update(context.Background(), testutil.AgentSession(agent), inspection.ID, models.InspectionUpdateInput{Notes: models.Some("x")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}
