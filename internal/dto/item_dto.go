package dto

import "time"

type CreateItemRequest struct {
	Name       string `json:"name"        validate:"required,min=1,max=120"`
	CategoryID uint   `json:"category_id" validate:"required"`
	Unit       string `json:"unit"        validate:"max=40"`
}

type ItemResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	CategoryID   uint      `json:"category_id"`
	Unit         string    `json:"unit"`
	CreatedAt    time.Time `json:"created_at"`
	CategoryName string    `json:"category_name"`
}
