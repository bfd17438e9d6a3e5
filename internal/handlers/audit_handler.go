package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/services"
)

type AuditHandler struct {
	auditService  *services.AuditService
	exportService *services.ExportService
}

func NewAuditHandler(auditService *services.AuditService, exportService *services.ExportService) *AuditHandler {
	return &AuditHandler{auditService: auditService, exportService: exportService}
}

// @Summary List Audit Logs
// @Description Newest first, 50 entries unless limit is given
// @Tags Audit
// @Produce json
// @Param entityType query string false "agent, inspection, document or session"
// @Param entityId query string false "Entity ID"
// @Param action query string false "Action, e.g. CREATE_AGENT"
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} map[string]interface{}
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	logs, err := h.auditService.Search(c.Request.Context(), currentUser(c), auditFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// @Summary Export Audit Logs
// @Tags Audit
// @Produce octet-stream
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} binary
// @Router /audits/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	data, filename, err := h.exportService.ExportAuditLogs(c.Request.Context(), currentUser(c), auditFilter(c), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := "text/csv"
	if c.Query("format") == services.ExportFormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

func auditFilter(c *gin.Context) models.AuditFilter {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.AuditFilter{
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
		Action:     c.Query("action"),
		Limit:      limit,
	}
}
