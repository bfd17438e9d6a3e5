package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/authz"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/repository"
)

type ReportService struct {
	agentRepo      repository.AgentRepository
	inspectionRepo repository.InspectionRepository
	docRepo        repository.DocumentRepository
	now            func() time.Time
}

func NewReportService(
	agentRepo repository.AgentRepository,
	inspectionRepo repository.InspectionRepository,
	docRepo repository.DocumentRepository,
) *ReportService {
	return &ReportService{
		agentRepo:      agentRepo,
		inspectionRepo: inspectionRepo,
		docRepo:        docRepo,
		now:            time.Now,
	}
}

// GenerateAgentSummaryPDF renders an agent's profile with its inspections and
// documents. Admins may render any agent; agents only themselves.
func (s *ReportService) GenerateAgentSummaryPDF(ctx context.Context, actor *models.SessionUser, agentID string) (*bytes.Buffer, string, error) {
	if err := authz.Authorize(actor, authz.ResourceAgent, authz.ActionRead, agentID); err != nil {
		return nil, "", err
	}

	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		return nil, "", lookupError(err, MsgAgentNotFound)
	}
	inspections, err := s.inspectionRepo.Search(ctx, models.InspectionFilter{AgentID: agentID})
	if err != nil {
		return nil, "", apperr.Internal("failed to load inspections", err)
	}
	docs, err := s.docRepo.Search(ctx, models.DocumentFilter{AgentID: agentID})
	if err != nil {
		return nil, "", apperr.Internal("failed to load documents", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Agent Summary"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+s.now().Format("01/02/2006 15:04"))
	pdf.Ln(10)

	// Profile
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Profile")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	profile := [][2]string{
		{"Name", agent.FullName},
		{"Email", agent.Email},
		{"Phone", agent.Phone},
		{"Brokerage", agent.BrokerageName},
		{"License", deref(agent.LicenseNumber)},
		{"Address", deref(agent.Address)},
		{"Status", agent.Status},
	}
	for _, row := range profile {
		pdf.CellFormat(40, 6, row[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Inspections
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Inspections (%d)", len(inspections)))
	pdf.Ln(8)
	tableHeader(pdf, []string{"Date", "Property", "Inspector", "Status"}, []float64{25, 85, 45, 25})
	pdf.SetFont("Arial", "", 9)
	for _, in := range inspections {
		pdf.CellFormat(25, 6, in.InspectionDate, "1", 0, "L", false, 0, "")
		pdf.CellFormat(85, 6, tr(clip(in.PropertyAddress, 50)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, tr(clip(in.InspectorName, 25)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, in.Status, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Documents
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Documents (%d)", len(docs)))
	pdf.Ln(8)
	tableHeader(pdf, []string{"Uploaded", "Title", "Category", "Size"}, []float64{25, 95, 35, 25})
	pdf.SetFont("Arial", "", 9)
	for _, d := range docs {
		pdf.CellFormat(25, 6, d.CreatedAt.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, tr(clip(d.Title, 55)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, d.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.1f KB", float64(d.FileSize)/1024), "1", 1, "R", false, 0, "")
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", apperr.Internal("failed to render pdf", err)
	}

	filename := fmt.Sprintf("agent_summary_%s_%s.pdf", agent.ID, s.now().Format("2006-01-02"))
	return buf, filename, nil
}

func tableHeader(pdf *gofpdf.Fpdf, titles []string, widths []float64) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(224, 224, 224)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
