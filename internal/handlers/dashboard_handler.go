package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// @Summary Dashboard Stats
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// @Summary Recent Activity
// @Description Latest uploads, inspections and agent creations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/activity [get]
func (h *DashboardHandler) Activity(c *gin.Context) {
	activity, err := h.dashboardService.Activity(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activity})
}
