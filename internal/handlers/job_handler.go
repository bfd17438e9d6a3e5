package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/jobs"
)

// WorkerStatser reports background worker counters.
type WorkerStatser interface {
	GetStats() jobs.WorkerStats
}

type JobHandler struct {
	worker WorkerStatser
}

func NewJobHandler(worker WorkerStatser) *JobHandler {
	return &JobHandler{worker: worker}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Counters of the worker that writes audit entries (active, completed, failed)
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} jobs.WorkerStats
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.GetStats())
}
