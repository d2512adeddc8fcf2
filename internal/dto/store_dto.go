package dto

import "time"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateStoreRequest struct {
	Name            string `json:"name"             validate:"required,min=1,max=120"`
	Location        string `json:"location"         validate:"max=255"`
	WebsiteURL      string `json:"website_url"      validate:"omitempty,url"`
	ScrapingEnabled bool   `json:"scraping_enabled"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type StoreResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	WebsiteURL      string    `json:"website_url"`
	ScrapingEnabled bool      `json:"scraping_enabled"`
	CreatedAt       time.Time `json:"created_at"`
}
