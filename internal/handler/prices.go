package handler

import (
	"bytes"
	"net/http"

	"grocerytracker/internal/apierror"
	"grocerytracker/internal/dto"
	"grocerytracker/internal/service"

	"github.com/gin-gonic/gin"
)

type PricesHandler struct {
	svc     service.PriceService
	reports service.ReportService
}

func NewPricesHandler(svc service.PriceService, reports service.ReportService) *PricesHandler {
	return &PricesHandler{svc: svc, reports: reports}
}

// Create POST /api/prices
func (h *PricesHandler) Create(c *gin.Context) {
	var req dto.CreatePriceRequest
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

// List GET /api/prices?days=30&item_id=&page=
func (h *PricesHandler) List(c *gin.Context) {
	var filter dto.PriceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.reports.PriceList(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type latestQuery struct {
	ItemID  uint `form:"item_id"  validate:"required"`
	StoreID uint `form:"store_id" validate:"required"`
}

// Latest GET /api/prices/latest?item_id=&store_id=
func (h *PricesHandler) Latest(c *gin.Context) {
	var q latestQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.reports.Latest(c.Request.Context(), q.ItemID, q.StoreID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type trendQuery struct {
	Days int `form:"days,default=90" validate:"min=0"`
}

// Trend GET /api/price-trends/:item_id?days=90
func (h *PricesHandler) Trend(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	var q trendQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.reports.Trend(c.Request.Context(), itemID, q.Days)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DailySummary GET /api/daily-summary
func (h *PricesHandler) DailySummary(c *gin.Context) {
	resp, err := h.reports.Daily(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comparison GET /api/price-comparison
func (h *PricesHandler) Comparison(c *gin.Context) {
	resp, err := h.reports.Comparison(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ComparisonPDF GET /api/price-comparison/pdf
func (h *PricesHandler) ComparisonPDF(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reports.ComparisonPDF(c.Request.Context(), &buf); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="price-comparison.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
