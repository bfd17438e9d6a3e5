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

func TestDashboardService_Stats(t *testing.T) {
	env := newTestEnv(t)
	sarah := testutil.CreateAgent(t, env.db, "Sarah Johnson", "sarah@example.com")
	michael := testutil.CreateAgent(t, env.db, "Michael Chen", "michael@example.com")
	require.NoError(t, env.db.Model(michael).Update("status", models.AgentStatusInactive).Error)

	testutil.CreateInspection(t, env.db, sarah.ID, "123 Oak Street")
	old := testutil.CreateInspection(t, env.db, sarah.ID, "456 Pine Avenue")
	require.NoError(t, env.db.Model(old).UpdateColumn("created_at", time.Now().AddDate(0, -2, 0)).Error)
	testutil.CreateDocument(t, env.db, sarah.ID, nil, "W9")

	stats, err := env.svc.Dashboard.Stats(context.Background(), testutil.Admin())
	require.NoError(t, err)
	assert.Equal(t, &models.DashboardStats{
		TotalAgents:          2,
		ActiveAgents:         1,
		InspectionsThisMonth: 1,
		DocumentsUploaded:    1,
	}, stats)

	_, err = env.svc.Dashboard.Stats(context.Background(), testutil.AgentSession(sarah))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestDashboardService_Activity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.Admin()

	agent, err := env.svc.Agent.Create(ctx, admin, models.AgentCreateInput{
		FullName: "Jane Doe", Email: "jane@x.com", Phone: "555", BrokerageName: "ABC",
	})
	require.NoError(t, err)
	_, err = env.svc.Inspection.Create(ctx, admin, models.InspectionCreateInput{
		AgentID: agent.ID, InspectionDate: "2026-02-01", PropertyAddress: "9 Birch Lane", InspectorName: "Mike",
	})
	require.NoError(t, err)
	_, err = env.svc.Document.Upload(ctx, admin, validUpload(agent.ID))
	require.NoError(t, err)

	// Neither updates nor logins show up in the feed.
	_, err = env.svc.Agent.Update(ctx, admin, agent.ID, models.AgentUpdateInput{Phone: models.Some("556")})
	require.NoError(t, err)
	env.svc.Audit.Record(ctx, admin, models.AuditActionLogin, models.EntityTypeSession, "", nil)
	env.svc.Audit.Record(ctx, admin, models.AuditActionUploadDoc, models.EntityTypeDocument, "", nil)

	activity, err := env.svc.Dashboard.Activity(ctx, admin)
	require.NoError(t, err)

	descriptions := make(map[string]string)
	for _, a := range activity {
		descriptions[a.Description] = a.Type
	}
	assert.Len(t, activity, 4)
	assert.Equal(t, models.ActivityTypeAgent, descriptions[`Agent "Jane Doe" created`])
	assert.Equal(t, models.ActivityTypeInspection, descriptions["Inspection created for 9 Birch Lane"])
	assert.Equal(t, models.ActivityTypeUpload, descriptions[`Document "W9 Form 2026" uploaded`])
	assert.Equal(t, models.ActivityTypeUpload, descriptions[`Document "Unknown" uploaded`])

	_, err = env.svc.Dashboard.Activity(ctx, nil)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestDescribeActivity_Fallbacks(t *testing.T) {
	item := describeActivity(models.AuditLog{ID: "1", Action: models.AuditActionCreateInspection, ActorRole: "admin"})
	assert.Equal(t, "Inspection created for Unknown address", item.Description)
	assert.Equal(t, "admin", item.ActorRole)

	item = describeActivity(models.AuditLog{ID: "2", Action: models.AuditActionCreateAgent})
	assert.Equal(t, `Agent "Unknown" created`, item.Description)
}

func TestStartOfMonth(t *testing.T) {
	got := startOfMonth(time.Date(2026, 3, 17, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
