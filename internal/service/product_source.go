package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"grocerytracker/internal/config"
	"grocerytracker/internal/dto"

	"github.com/shopspring/decimal"
)

// ProductSource produces the current product records of one store.
type ProductSource interface {
	Fetch(ctx context.Context, store config.StoreConfig) ([]dto.ProductRecord, error)
}

type demoProduct struct {
	name, category, unit string
	low, high            decimal.Decimal
	brand, size          string
}

var demoCatalog = []demoProduct{
	{"Bananas", "Produce", "per lb", decimal.RequireFromString("1.19"), decimal.RequireFromString("1.49"), "", "1 lb"},
	{"Milk 2%", "Dairy", "each", decimal.RequireFromString("5.49"), decimal.RequireFromString("5.99"), "Dairyland", "4L"},
	{"White Bread", "Bakery", "each", decimal.RequireFromString("2.79"), decimal.RequireFromString("3.19"), "Wonder", "675g"},
	{"Ground Beef", "Meat", "per lb", decimal.RequireFromString("8.99"), decimal.RequireFromString("12.49"), "", "1 lb"},
	{"Cheddar Cheese", "Dairy", "each", decimal.RequireFromString("6.99"), decimal.RequireFromString("8.49"), "Black Diamond", "400g"},
}

// storeMultipliers skew demo prices per store; unknown keys use 1.00.
var storeMultipliers = map[string]decimal.Decimal{
	"independent": decimal.RequireFromString("1.00"),
	"extrafoods":  decimal.RequireFromString("1.05"),
	"coop":        decimal.RequireFromString("0.95"),
	"saveon":      decimal.RequireFromString("1.08"),
}

// StoreMultiplier returns the demo price multiplier of a store key.
func StoreMultiplier(key string) decimal.Decimal {
	if m, ok := storeMultipliers[key]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

// DemoSource generates synthetic prices: uniform within each product's
// range, rounded to cents, scaled by the store multiplier, rounded again.
type DemoSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDemoSource(seed uint64) *DemoSource {
	return &DemoSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *DemoSource) Fetch(ctx context.Context, store config.StoreConfig) ([]dto.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mult := StoreMultiplier(store.Key)

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]dto.ProductRecord, 0, len(demoCatalog))
	for _, p := range demoCatalog {
		span := p.high.Sub(p.low)
		base := p.low.Add(span.Mul(decimal.NewFromFloat(d.rnd.Float64()))).Round(2)
		out = append(out, dto.ProductRecord{
			Name:     p.name,
			Category: p.category,
			Unit:     p.unit,
			Price:    base.Mul(mult).Round(2),
			Brand:    p.brand,
			Size:     p.size,
		})
	}
	return out, nil
}

// Prober checks that a URL answers.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// LiveSource is the placeholder for real store scraping: it confirms the
// store website is reachable and then hands back generated records.
type LiveSource struct {
	prober   Prober
	fallback ProductSource
}

func NewLiveSource(prober Prober, fallback ProductSource) *LiveSource {
	return &LiveSource{prober: prober, fallback: fallback}
}

func (l *LiveSource) Fetch(ctx context.Context, store config.StoreConfig) ([]dto.ProductRecord, error) {
	if store.Website == "" {
		return nil, fmt.Errorf("store %s has no website configured", store.Key)
	}
	if err := l.prober.Probe(ctx, store.Website); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", store.Key, err)
	}
	return l.fallback.Fetch(ctx, store)
}
