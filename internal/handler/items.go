package handler

import (
	"net/http"

	"grocerytracker/internal/apierror"
	"grocerytracker/internal/dto"
	"grocerytracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct {
	svc     service.ItemService
	reports service.ReportService
}

func NewItemsHandler(svc service.ItemService, reports service.ReportService) *ItemsHandler {
	return &ItemsHandler{svc: svc, reports: reports}
}

// Create POST /api/items
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
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

// List GET /api/items
func (h *ItemsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats GET /api/items/stats
func (h *ItemsHandler) Stats(c *gin.Context) {
	resp, err := h.reports.ItemStats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
