package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/services"
)

type AgentHandler struct {
	agentService  *services.AgentService
	reportService *services.ReportService
}

func NewAgentHandler(agentService *services.AgentService, reportService *services.ReportService) *AgentHandler {
	return &AgentHandler{agentService: agentService, reportService: reportService}
}

// @Summary List Agents
// @Description Admins see every agent matching the filters; agents only see themselves
// @Tags Agents
// @Produce json
// @Param search query string false "Name, email or brokerage"
// @Param status query string false "active or inactive"
// @Success 200 {object} map[string]interface{}
// @Router /agents [get]
func (h *AgentHandler) Index(c *gin.Context) {
	agents, err := h.agentService.List(c.Request.Context(), currentUser(c), models.AgentFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

// @Summary Get Agent
// @Tags Agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /agents/{id} [get]
func (h *AgentHandler) Show(c *gin.Context) {
	agent, err := h.agentService.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// @Summary Create Agent
// @Tags Agents
// @Accept json
// @Produce json
// @Param request body models.AgentCreateInput true "Agent"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /agents [post]
func (h *AgentHandler) Create(c *gin.Context) {
	var input models.AgentCreateInput
	if err := BindNestedOrFlat(c, "agent", &input); err != nil {
		respondError(c, err)
		return
	}

	agent, err := h.agentService.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"agent": agent})
}

// @Summary Update Agent
// @Description Partial update: only fields present in the body are changed
// @Tags Agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} map[string]interface{}
// @Router /agents/{id} [put]
func (h *AgentHandler) Update(c *gin.Context) {
	var input models.AgentUpdateInput
	if err := BindNestedOrFlat(c, "agent", &input); err != nil {
		respondError(c, err)
		return
	}

	agent, err := h.agentService.Update(c.Request.Context(), currentUser(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// @Summary Delete Agent
// @Description Deletes the agent with its inspections and documents
// @Tags Agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} map[string]bool
// @Router /agents/{id} [delete]
func (h *AgentHandler) Delete(c *gin.Context) {
	if err := h.agentService.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Agent Summary PDF
// @Tags Agents
// @Produce application/pdf
// @Param id path string true "Agent ID"
// @Success 200 {file} binary
// @Router /agents/{id}/report [get]
func (h *AgentHandler) Report(c *gin.Context) {
	buf, filename, err := h.reportService.GenerateAgentSummaryPDF(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
