package services

import (
	"github.com/sjperalta/agent-portal-api/internal/config"
	"github.com/sjperalta/agent-portal-api/internal/jobs"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"github.com/sjperalta/agent-portal-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	Agent      *AgentService
	Inspection *InspectionService
	Document   *DocumentService
	Audit      *AuditService
	Dashboard  *DashboardService
	Export     *ExportService
	Report     *ReportService
}

// NewServices creates all service instances. runner executes audit writes;
// blobs stores document files.
func NewServices(repos *repository.Repositories, runner jobs.Runner, blobs storage.BlobStore, cfg *config.Config) (*Services, error) {
	auditSvc := NewAuditService(repos.Audit, runner)

	authSvc, err := NewAuthService(repos.Agent, auditSvc, cfg)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:       authSvc,
		Agent:      NewAgentService(repos.Agent, repos.Document, blobs, auditSvc),
		Inspection: NewInspectionService(repos.Inspection, repos.Agent, auditSvc),
		Document:   NewDocumentService(repos.Document, repos.Agent, repos.Inspection, blobs, auditSvc),
		Audit:      auditSvc,
		Dashboard:  NewDashboardService(repos),
		Export:     NewExportService(auditSvc),
		Report:     NewReportService(repos.Agent, repos.Inspection, repos.Document),
	}, nil
}
