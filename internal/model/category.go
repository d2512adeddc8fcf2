package model

import "time"

// Category is a lookup dimension for items ("Produce", "Dairy").
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (Category) TableName() string { return "categories" }
