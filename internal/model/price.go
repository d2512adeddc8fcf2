package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SourceManual  = "manual"
	SourceScraper = "scraper"
)

// Price is one immutable observation of an item's price at a store.
// Rows are append-only: never updated, never deleted. The current price of
// an (item, store) pair is the row with the greatest date, then greatest ID.
type Price struct {
	ID        uint            `gorm:"primaryKey"`
	ItemID    uint            `gorm:"not null;index:idx_prices_item_store_date,priority:1"`
	StoreID   uint            `gorm:"not null;index:idx_prices_item_store_date,priority:2"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;check:chk_prices_price_non_negative,price >= 0"`
	Date      Date            `gorm:"type:date;not null;index;index:idx_prices_item_store_date,priority:3"`
	Notes     string
	Source    string `gorm:"not null;default:'manual'"`
	CreatedAt time.Time

	Item  *Item  `gorm:"foreignKey:ItemID"`
	Store *Store `gorm:"foreignKey:StoreID"`
}

func (Price) TableName() string { return "prices" }
