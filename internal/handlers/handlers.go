package handlers

import (
	"github.com/sjperalta/agent-portal-api/internal/services"
	"github.com/sjperalta/agent-portal-api/internal/session"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Agent      *AgentHandler
	Inspection *InspectionHandler
	Document   *DocumentHandler
	Audit      *AuditHandler
	Dashboard  *DashboardHandler
	Files      *FileHandler
	// Jobs is set when audit writes run on a background worker.
	Jobs *JobHandler
}

// NewHandlers creates all handler instances. files may be nil when stored
// documents are not served by this process.
func NewHandlers(svcs *services.Services, sessions *session.Store, files FileOpener) *Handlers {
	h := &Handlers{
		Health:     NewHealthHandler(),
		Auth:       NewAuthHandler(svcs.Auth, sessions),
		Agent:      NewAgentHandler(svcs.Agent, svcs.Report),
		Inspection: NewInspectionHandler(svcs.Inspection),
		Document:   NewDocumentHandler(svcs.Document),
		Audit:      NewAuditHandler(svcs.Audit, svcs.Export),
		Dashboard:  NewDashboardHandler(svcs.Dashboard),
	}
	if files != nil {
		h.Files = NewFileHandler(files)
	}
	return h
}
