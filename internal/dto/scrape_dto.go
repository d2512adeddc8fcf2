package dto

import "grocerytracker/internal/model"

// ScrapeResult reports one store's scrape. A failed store carries Error and
// SavedCount 0, since a failed batch is rolled back whole. ProductsCount is
// still the number of records fetched; it is 0 when the fetch itself failed.
type ScrapeResult struct {
	Success       bool   `json:"success"`
	StoreID       string `json:"store_id,omitempty"`
	ProductsCount int    `json:"products_count"`
	SavedCount    int    `json:"saved_count"`
	Error         string `json:"error,omitempty"`
}

type ScrapeAllResponse struct {
	Success       bool                    `json:"success"`
	TotalProducts int                     `json:"total_products"`
	TotalSaved    int                     `json:"total_saved"`
	Results       map[string]ScrapeResult `json:"results"`
}

type ScrapeStatusResponse struct {
	Enabled       bool           `json:"enabled"`
	IntervalHours int            `json:"interval_hours"`
	LastScrape    model.NullTime `json:"last_scrape"`
	Mode          string         `json:"mode"` // demo | production
}

type StoreStatusResponse struct {
	StoreID    string         `json:"store_id"`
	Name       string         `json:"name"`
	ItemCount  int64          `json:"item_count"`
	LastScrape model.NullTime `json:"last_scrape"`
	Status     string         `json:"status"` // active | inactive | error
}

type ConnectionResponse struct {
	StoreID   string `json:"store_id"`
	Reachable bool   `json:"reachable"`
}
