package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/services"
)

type InspectionHandler struct {
	inspectionService *services.InspectionService
}

func NewInspectionHandler(inspectionService *services.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService}
}

// @Summary List Inspections
// @Description Newest inspection date first. Agents only see their own inspections.
// @Tags Inspections
// @Produce json
// @Param agentId query string false "Agent ID (admins only)"
// @Param status query string false "scheduled, completed or canceled"
// @Success 200 {object} map[string]interface{}
// @Router /inspections [get]
func (h *InspectionHandler) Index(c *gin.Context) {
	inspections, err := h.inspectionService.List(c.Request.Context(), currentUser(c), models.InspectionFilter{
		AgentID: c.Query("agentId"),
		Status:  c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]models.InspectionResponse, len(inspections))
	for i := range inspections {
		resp[i] = inspections[i].ToResponse()
	}
	c.JSON(http.StatusOK, gin.H{"inspections": resp})
}

// @Summary Get Inspection
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} map[string]interface{}
// @Router /inspections/{id} [get]
func (h *InspectionHandler) Show(c *gin.Context) {
	inspection, err := h.inspectionService.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inspection": inspection.ToResponse()})
}

// @Summary Create Inspection
// @Tags Inspections
// @Accept json
// @Produce json
// @Param request body models.InspectionCreateInput true "Inspection"
// @Success 201 {object} map[string]interface{}
// @Router /inspections [post]
func (h *InspectionHandler) Create(c *gin.Context) {
	var input models.InspectionCreateInput
	if err := BindNestedOrFlat(c, "inspection", &input); err != nil {
		respondError(c, err)
		return
	}

	inspection, err := h.inspectionService.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"inspection": inspection.ToResponse()})
}

// @Summary Update Inspection
// @Description Partial update. Status changes follow the inspection lifecycle.
// @Tags Inspections
// @Accept json
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} map[string]interface{}
// @Router /inspections/{id} [put]
func (h *InspectionHandler) Update(c *gin.Context) {
	var input models.InspectionUpdateInput
	if err := BindNestedOrFlat(c, "inspection", &input); err != nil {
		respondError(c, err)
		return
	}

	inspection, err := h.inspectionService.Update(c.Request.Context(), currentUser(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inspection": inspection.ToResponse()})
}
