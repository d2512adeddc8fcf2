package handler

import (
	"net/http"

	"grocerytracker/internal/apierror"
	"grocerytracker/internal/dto"
	"grocerytracker/internal/service"

	"github.com/gin-gonic/gin"
)

type StoresHandler struct {
	svc     service.StoreService
	reports service.ReportService
}

func NewStoresHandler(svc service.StoreService, reports service.ReportService) *StoresHandler {
	return &StoresHandler{svc: svc, reports: reports}
}

// Create POST /api/stores
func (h *StoresHandler) Create(c *gin.Context) {
	var req dto.CreateStoreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.NewCreated(id))
}

// List GET /api/stores
func (h *StoresHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats GET /api/stores/stats
func (h *StoresHandler) Stats(c *gin.Context) {
	resp, err := h.reports.StoreStats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
