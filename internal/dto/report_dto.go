package dto

import (
	"grocerytracker/internal/model"

	"github.com/shopspring/decimal"
)

// ComparisonRow is the latest observation of one item at one store.
type ComparisonRow struct {
	ItemID       uint            `json:"item_id"`
	StoreID      uint            `json:"store_id"`
	ItemName     string          `json:"item_name"`
	Unit         string          `json:"unit"`
	StoreName    string          `json:"store_name"`
	Price        decimal.Decimal `json:"price"`
	Date         model.Date      `json:"date"`
	Source       string          `json:"source"`
	CategoryName string          `json:"category_name"`
}

// LatestPrice is the current price of an (item, store) pair.
type LatestPrice struct {
	ID      uint            `json:"id"`
	ItemID  uint            `json:"item_id"`
	StoreID uint            `json:"store_id"`
	Price   decimal.Decimal `json:"price"`
	Date    model.Date      `json:"date"`
	Source  string          `json:"source"`
}

type DashboardStats struct {
	TotalItems   int64          `json:"total_items"`
	ActiveStores int64          `json:"active_stores"`
	TotalPrices  int64          `json:"total_prices"` // observations dated today
	LastUpdate   model.NullTime `json:"last_update"`
}

type StorePrice struct {
	StoreName string          `json:"store_name"`
	Price     decimal.Decimal `json:"price"`
}

// RecentItemPrices is one dashboard row: an item and today's prices per store.
type RecentItemPrices struct {
	ItemID      uint         `json:"item_id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	StorePrices []StorePrice `json:"store_prices"`
}

type DashboardResponse struct {
	Stats        DashboardStats     `json:"stats"`
	RecentPrices []RecentItemPrices `json:"recent_prices"`
}

type TrendingItem struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	PriceCount int64           `json:"price_count"`
	Category   string          `json:"category"`
}

type StoreStats struct {
	ID              uint           `json:"id"`
	Name            string         `json:"name"`
	Location        string         `json:"location"`
	WebsiteURL      string         `json:"website_url"`
	ScrapingEnabled bool           `json:"scraping_enabled"`
	TotalPrices     int64          `json:"total_prices"`
	TodayPrices     int64          `json:"today_prices"`
	LastUpdate      model.NullTime `json:"last_update"`
}

type ItemStats struct {
	ID              uint                `json:"id"`
	Name            string              `json:"name"`
	CategoryID      uint                `json:"category_id"`
	Unit            string              `json:"unit"`
	CategoryName    string              `json:"category_name"`
	PriceCount      int64               `json:"price_count"`
	MinPrice        decimal.NullDecimal `json:"min_price"`
	MaxPrice        decimal.NullDecimal `json:"max_price"`
	AvgPrice        decimal.NullDecimal `json:"avg_price"`
	LastPriceUpdate model.NullTime      `json:"last_price_update"`
}

type CategoryStats struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ItemCount int64  `json:"item_count"`
}
