package handlers

import (
	"net/http"

	"prediction-game/internal/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the admin dashboard snapshot.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns collection counts and the top users by points
// GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
