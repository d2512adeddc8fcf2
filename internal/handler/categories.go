package handler

import (
	"net/http"

	"grocerytracker/internal/apierror"
	"grocerytracker/internal/dto"
	"grocerytracker/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct {
	svc     service.CategoryService
	reports service.ReportService
}

func NewCategoriesHandler(svc service.CategoryService, reports service.ReportService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc, reports: reports}
}

// Create POST /api/categories
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
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

// List GET /api/categories
func (h *CategoriesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats GET /api/categories/stats
func (h *CategoriesHandler) Stats(c *gin.Context) {
	resp, err := h.reports.CategoryStats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
