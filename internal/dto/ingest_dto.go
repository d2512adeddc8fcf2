package dto

import "github.com/shopspring/decimal"

// ProductRecord is one observed product/price tuple handed to ingestion.
// Brand and Size are optional metadata folded into the observation notes.
type ProductRecord struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Brand    string          `json:"brand,omitempty"`
	Size     string          `json:"size,omitempty"`
}
