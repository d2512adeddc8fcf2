package model

import "time"

// Store is a grocery store prices are observed at. Rows are never deleted.
type Store struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"uniqueIndex;not null"`
	Location        string
	WebsiteURL      string
	ScrapingEnabled bool `gorm:"not null;default:false"`
	CreatedAt       time.Time
}

func (Store) TableName() string { return "stores" }
