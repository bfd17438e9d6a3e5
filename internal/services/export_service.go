package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

var auditExportHeader = []string{"Date", "Actor Role", "Actor ID", "Action", "Entity Type", "Entity ID", "IP Address", "Metadata"}

// ExportService renders the audit trail as a spreadsheet.
type ExportService struct {
	auditSvc *AuditService
	now      func() time.Time
}

func NewExportService(auditSvc *AuditService) *ExportService {
	return &ExportService{auditSvc: auditSvc, now: time.Now}
}

// ExportAuditLogs renders every entry matching filter in format, whatever
// filter.Limit says. Admin only. It returns the file content and its download name.
func (s *ExportService) ExportAuditLogs(ctx context.Context, actor *models.SessionUser, filter models.AuditFilter, format string) ([]byte, string, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, "", apperr.Validation("Format must be csv or xlsx")
	}

	logs, err := s.auditSvc.ListAll(ctx, actor, filter)
	if err != nil {
		return nil, "", err
	}

	if format == ExportFormatXLSX {
		return s.auditXLSX(logs)
	}
	return s.auditCSV(logs)
}

func (s *ExportService) auditCSV(logs []models.AuditLog) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write(auditExportHeader)
	for _, l := range logs {
		_ = writer.Write(auditRow(l))
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", apperr.Internal("failed to write csv", err)
	}

	filename := fmt.Sprintf("audit_logs_%s.csv", s.now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) auditXLSX(logs []models.AuditLog) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audit Logs"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for col, title := range auditExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(auditExportHeader), 1)
	_ = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, l := range logs {
		for col, value := range auditRow(l) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "H", "H", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apperr.Internal("failed to write xlsx", err)
	}

	filename := fmt.Sprintf("audit_logs_%s.xlsx", s.now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func auditRow(l models.AuditLog) []string {
	metadata := "{}"
	if len(l.Metadata) > 0 {
		if b, err := json.Marshal(l.Metadata); err == nil {
			metadata = string(b)
		}
	}
	return []string{
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.ActorRole,
		deref(l.ActorID),
		l.Action,
		l.EntityType,
		deref(l.EntityID),
		l.IPAddress,
		metadata,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
