package handler

import (
	"context"
	"net/http"

	"grocerytracker/internal/apierror"
	"grocerytracker/internal/dto"

	"github.com/gin-gonic/gin"
)

// Scraper is the part of service.ScraperManager the API drives.
type Scraper interface {
	Enabled() bool
	ScrapeAll(ctx context.Context, save bool) dto.ScrapeAllResponse
	ScrapeStore(ctx context.Context, key string, save bool) dto.ScrapeResult
	StoreStatus(ctx context.Context, key string) dto.StoreStatusResponse
	Status(ctx context.Context) (dto.ScrapeStatusResponse, error)
	TestConnection(ctx context.Context, key string) (dto.ConnectionResponse, error)
}

type ScrapeHandler struct{ scraper Scraper }

func NewScrapeHandler(scraper Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper}
}

const scrapingDisabledMsg = "scraping is disabled"

// ScrapeAll POST /api/scrape
func (h *ScrapeHandler) ScrapeAll(c *gin.Context) {
	if !h.scraper.Enabled() {
		c.JSON(http.StatusBadRequest, apierror.New(scrapingDisabledMsg))
		return
	}
	c.JSON(http.StatusOK, h.scraper.ScrapeAll(c.Request.Context(), true))
}

// ScrapeStore POST /api/scrape/store/:name
func (h *ScrapeHandler) ScrapeStore(c *gin.Context) {
	if !h.scraper.Enabled() {
		c.JSON(http.StatusBadRequest, apierror.New(scrapingDisabledMsg))
		return
	}
	c.JSON(http.StatusOK, h.scraper.ScrapeStore(c.Request.Context(), c.Param("name"), true))
}

// StoreStatus GET /api/scrape/store/:name/status
func (h *ScrapeHandler) StoreStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.scraper.StoreStatus(c.Request.Context(), c.Param("name")))
}

// TestConnection GET /api/scrape/store/:name/connection
func (h *ScrapeHandler) TestConnection(c *gin.Context) {
	resp, err := h.scraper.TestConnection(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status GET /api/scrape/status
func (h *ScrapeHandler) Status(c *gin.Context) {
	resp, err := h.scraper.Status(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
