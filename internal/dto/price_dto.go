package dto

import (
	"time"

	"grocerytracker/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreatePriceRequest is the body of POST /api/prices. Price is a pointer so
// that a missing value is distinguishable from an explicit 0.
type CreatePriceRequest struct {
	ItemID  uint             `json:"item_id"  validate:"required"`
	StoreID uint             `json:"store_id" validate:"required"`
	Price   *decimal.Decimal `json:"price"`
	Date    string           `json:"date"`
	Notes   string           `json:"notes"    validate:"max=500"`
	Source  string           `json:"source"   validate:"omitempty,oneof=manual scraper"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type PriceFilter struct {
	Days   int  `form:"days,default=30" validate:"min=0"`
	ItemID uint `form:"item_id"`
	Page   int  `form:"page"            validate:"min=0"`
	Limit  int  `form:"-"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PriceRow is one observation joined with its display names.
type PriceRow struct {
	ID           uint            `json:"id"`
	ItemID       uint            `json:"item_id"`
	StoreID      uint            `json:"store_id"`
	Price        decimal.Decimal `json:"price"`
	Date         model.Date      `json:"date"`
	Notes        string          `json:"notes"`
	Source       string          `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
	ItemName     string          `json:"item_name"`
	Unit         string          `json:"unit"`
	StoreName    string          `json:"store_name"`
	CategoryName string          `json:"category_name"`
}

// TrendPoint is one row of GET /api/price-trends/:item_id.
type TrendPoint struct {
	ID        uint            `json:"-"`
	Date      model.Date      `json:"date"`
	Price     decimal.Decimal `json:"price"`
	StoreName string          `json:"store_name"`
	Notes     string          `json:"notes"`
	Source    string          `json:"source"`
}
