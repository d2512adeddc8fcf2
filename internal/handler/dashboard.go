package handler

import (
	"net/http"

	"grocerytracker/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ reports service.ReportService }

func NewDashboardHandler(reports service.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

// Dashboard GET /api/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	resp, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Trending GET /api/trending-items
func (h *DashboardHandler) Trending(c *gin.Context) {
	resp, err := h.reports.Trending(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
