package service

import (
	"context"
	"fmt"

	"grocerytracker/internal/config"

	"github.com/rs/zerolog/log"
)

// DemoItems are the sample items created when demo data is on.
var DemoItems = []SeedItem{
	{Name: "Bananas", Category: "Produce", Unit: "per lb"},
	{Name: "Milk 2%", Category: "Dairy", Unit: "4L"},
	{Name: "Ground Beef", Category: "Meat", Unit: "per lb"},
	{Name: "White Bread", Category: "Bakery", Unit: "loaf"},
	{Name: "Frozen Pizza", Category: "Frozen", Unit: "each"},
	{Name: "Orange Juice", Category: "Beverages", Unit: "1L"},
}

// Seeder prepares a fresh database: configured stores, default categories
// and, optionally, demo items. Running it again changes nothing.
type Seeder struct {
	stores     StoreService
	categories CategoryService
	items      ItemService
}

func NewSeeder(stores StoreService, categories CategoryService, items ItemService) *Seeder {
	return &Seeder{stores: stores, categories: categories, items: items}
}

func (s *Seeder) Seed(ctx context.Context, stores []config.StoreConfig, demo bool) error {
	if err := s.stores.EnsureConfigured(ctx, stores); err != nil {
		return fmt.Errorf("seed stores: %w", err)
	}
	if err := s.categories.Ensure(ctx, DefaultCategories); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if demo {
		if err := s.items.Ensure(ctx, DemoItems); err != nil {
			return fmt.Errorf("seed items: %w", err)
		}
	}
	log.Info().Int("stores", len(stores)).Bool("demo_items", demo).Msg("database seeded")
	return nil
}
