package service

import (
	"context"
	"testing"
	"time"

	"grocerytracker/internal/infra"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

const testDay = model.Date("2026-03-10")

func fixedClock(day model.Date) Clock {
	t, err := time.ParseInLocation(model.DateLayout, day.String(), time.Local)
	if err != nil {
		panic(err)
	}
	t = t.Add(12 * time.Hour)
	return func() time.Time { return t }
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewDatabase(infra.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// countingInvalidator records cache invalidations.
type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

type testEnv struct {
	db         *gorm.DB
	stores     repository.StoreRepository
	categories repository.CategoryRepository
	items      repository.ItemRepository
	prices     repository.PriceRepository
	reports    repository.ReportRepository
	cache      *countingInvalidator
	clock      Clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	return &testEnv{
		db:         db,
		stores:     repository.NewStoreRepository(db),
		categories: repository.NewCategoryRepository(db),
		items:      repository.NewItemRepository(db),
		prices:     repository.NewPriceRepository(db),
		reports:    repository.NewReportRepository(db),
		cache:      &countingInvalidator{},
		clock:      fixedClock(testDay),
	}
}

func (e *testEnv) ingestion() IngestionService {
	return NewIngestionService(e.stores, e.categories, e.items, e.prices, e.cache, e.clock)
}

func (e *testEnv) store(t *testing.T, name string) *model.Store {
	t.Helper()
	s := &model.Store{Name: name, ScrapingEnabled: true}
	require.NoError(t, e.db.Create(s).Error)
	return s
}

func (e *testEnv) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}
