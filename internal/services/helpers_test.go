package services

import (
	"context"
	"testing"

	"github.com/sjperalta/agent-portal-api/internal/config"
	"github.com/sjperalta/agent-portal-api/internal/jobs"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"github.com/sjperalta/agent-portal-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testAdminPassword = "admin123"
	testAgentPasscode = "agent123"
)

type testEnv struct {
	db    *gorm.DB
	repos *repository.Repositories
	blobs *testutil.MemoryBlobs
	svc   *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	blobs := testutil.NewMemoryBlobs()
	cfg := &config.Config{AdminPassword: testAdminPassword, AgentPasscode: testAgentPasscode}

	svc, err := NewServices(repos, jobs.Inline{}, blobs, cfg)
	require.NoError(t, err)

	return &testEnv{db: db, repos: repos, blobs: blobs, svc: svc}
}

// auditLog returns every recorded entry, newest first.
func (e *testEnv) auditLog(t *testing.T, filter models.AuditFilter) []models.AuditLog {
	t.Helper()
	logs, err := e.repos.Audit.ListAll(context.Background(), filter)
	require.NoError(t, err)
	return logs
}

// failingAuditRepo rejects every write.
type failingAuditRepo struct {
	repository.AuditRepository
	err error
}

func (r *failingAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.err
}
