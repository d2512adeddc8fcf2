package model

import "time"

// Item is a product within a category. (name, category_id) is unique.
type Item struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null;uniqueIndex:idx_items_name_category,priority:1"`
	CategoryID uint   `gorm:"not null;uniqueIndex:idx_items_name_category,priority:2"`
	Unit       string
	CreatedAt  time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Item) TableName() string { return "items" }
