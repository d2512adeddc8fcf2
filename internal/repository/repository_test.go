package repository_test

import (
	"context"
	"testing"

	"grocerytracker/internal/infra"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

const today = model.Date("2026-03-10")

func newDB(t *testing.T) *gorm.DB {
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

type fixture struct {
	db                     *gorm.DB
	produce, dairy         *model.Category
	bananas, milk          *model.Item
	coop, independent, eff *model.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newDB(t)
	f := &fixture{db: db}
	f.produce = &model.Category{Name: "Produce"}
	f.dairy = &model.Category{Name: "Dairy"}
	require.NoError(t, db.Create(f.produce).Error)
	require.NoError(t, db.Create(f.dairy).Error)
	f.bananas = &model.Item{Name: "Bananas", CategoryID: f.produce.ID, Unit: "per lb"}
	f.milk = &model.Item{Name: "Milk 2%", CategoryID: f.dairy.ID, Unit: "4L"}
	require.NoError(t, db.Create(f.bananas).Error)
	require.NoError(t, db.Create(f.milk).Error)
	f.coop = &model.Store{Name: "The Co-op", ScrapingEnabled: true}
	f.independent = &model.Store{Name: "Independent Grocer", ScrapingEnabled: true}
	f.eff = &model.Store{Name: "Extra Foods"}
	require.NoError(t, db.Create(f.coop).Error)
	require.NoError(t, db.Create(f.independent).Error)
	require.NoError(t, db.Create(f.eff).Error)
	return f
}

func (f *fixture) price(t *testing.T, item *model.Item, store *model.Store, price string, date model.Date) *model.Price {
	t.Helper()
	p := &model.Price{
		ItemID:  item.ID,
		StoreID: store.ID,
		Price:   decimal.RequireFromString(price),
		Date:    date,
		Source:  model.SourceManual,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

// ── FindOrCreate ─────────────────────────────────────────────────────────────

func TestFindOrCreate_Idempotent(t *testing.T) {
	db := newDB(t)
	repo := repository.NewCategoryRepository(db)

	first, created, err := repo.FindOrCreateTx(db, "Produce")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.FindOrCreateTx(db, "Produce")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, db.Model(&model.Category{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestFindOrCreate_CaseSensitive(t *testing.T) {
	db := newDB(t)
	repo := repository.NewCategoryRepository(db)

	a, _, err := repo.FindOrCreateTx(db, "Produce")
	require.NoError(t, err)
	b, created, err := repo.FindOrCreateTx(db, "produce")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestItemFindOrCreate_KeepsExistingUnit(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewItemRepository(f.db)

	it, created, err := repo.FindOrCreateTx(f.db, "Bananas", f.produce.ID, "each")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f.bananas.ID, it.ID)
	assert.Equal(t, "per lb", it.Unit)

	other, created, err := repo.FindOrCreateTx(f.db, "Bananas", f.dairy.ID, "each")
	require.NoError(t, err)
	assert.True(t, created, "same name in another category is a distinct item")
	assert.Equal(t, "each", other.Unit)
}

func TestCreate_DuplicateNameIsTranslated(t *testing.T) {
	db := newDB(t)
	repo := repository.NewStoreRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Store{Name: "The Co-op"}))
	err := repo.Create(ctx, &model.Store{Name: "The Co-op"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestStoreUpsert_RefreshesConfiguredFields(t *testing.T) {
	db := newDB(t)
	repo := repository.NewStoreRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.Store{Name: "The Co-op", WebsiteURL: "https://old.example", ScrapingEnabled: false}))
	require.NoError(t, repo.Upsert(ctx, &model.Store{Name: "The Co-op", WebsiteURL: "https://www.co-op.coop", ScrapingEnabled: true}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://www.co-op.coop", list[0].WebsiteURL)
	assert.True(t, list[0].ScrapingEnabled)
}

func TestPriceCheckConstraintRejectsNegative(t *testing.T) {
	f := newFixture(t)
	err := f.db.Create(&model.Price{
		ItemID:  f.bananas.ID,
		StoreID: f.coop.ID,
		Price:   decimal.RequireFromString("-5"),
		Date:    today,
		Source:  model.SourceManual,
	}).Error
	assert.Error(t, err)
}

func TestPriceForeignKeyEnforced(t *testing.T) {
	f := newFixture(t)
	err := f.db.Create(&model.Price{ItemID: 9999, StoreID: f.coop.ID, Price: decimal.NewFromInt(1), Date: today}).Error
	assert.Error(t, err)
}

// ── Latest price ─────────────────────────────────────────────────────────────

func TestLatest_GreatestDateThenGreatestID(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewPriceRepository(f.db)
	ctx := context.Background()

	f.price(t, f.bananas, f.coop, "1.49", today.AddDays(-1))
	f.price(t, f.bananas, f.coop, "1.29", today)
	last := f.price(t, f.bananas, f.coop, "1.19", today)
	f.price(t, f.bananas, f.coop, "0.99", today.AddDays(-5))

	lp, err := repo.Latest(ctx, f.bananas.ID, f.coop.ID)
	require.NoError(t, err)
	assert.Equal(t, last.ID, lp.ID)
	assert.True(t, decimal.RequireFromString("1.19").Equal(lp.Price))
	assert.Equal(t, today, lp.Date)

	_, err = repo.Latest(ctx, f.milk.ID, f.coop.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// ── Report projections ───────────────────────────────────────────────────────

func TestComparison_LatestPerPair(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)

	f.price(t, f.bananas, f.coop, "1.10", "2026-03-01")
	f.price(t, f.bananas, f.coop, "1.29", "2026-03-05")
	f.price(t, f.bananas, f.independent, "1.39", "2026-03-02")
	f.price(t, f.milk, f.coop, "5.49", "2026-03-04")

	rows, err := repo.Comparison(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Bananas", rows[0].ItemName)
	assert.Equal(t, "Independent Grocer", rows[0].StoreName)
	assert.Equal(t, "Bananas", rows[1].ItemName)
	assert.Equal(t, "The Co-op", rows[1].StoreName)
	assert.True(t, decimal.RequireFromString("1.29").Equal(rows[1].Price))
	assert.Equal(t, model.Date("2026-03-05"), rows[1].Date)
	assert.Equal(t, "per lb", rows[1].Unit)
	assert.Equal(t, "Produce", rows[1].CategoryName)
	assert.Equal(t, "Milk 2%", rows[2].ItemName)
}

func TestComparison_EmptyIsEmptySlice(t *testing.T) {
	db := newDB(t)
	rows, err := repository.NewReportRepository(db).Comparison(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestTrend_WindowIsInclusive(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)
	ctx := context.Background()

	f.price(t, f.bananas, f.coop, "1.00", today.AddDays(-8))
	f.price(t, f.bananas, f.coop, "1.10", today.AddDays(-7))
	f.price(t, f.bananas, f.independent, "1.20", today)
	f.price(t, f.bananas, f.coop, "1.30", today.AddDays(1))
	f.price(t, f.milk, f.coop, "5.00", today)

	rows, err := repo.Trend(ctx, f.bananas.ID, today.AddDays(-7), today)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, today, rows[0].Date, "newest first")
	assert.Equal(t, "Independent Grocer", rows[0].StoreName)
	assert.Equal(t, today.AddDays(-7), rows[1].Date)

	rows, err = repo.Trend(ctx, f.bananas.ID, today, today)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestDaily_OnlyToday(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)

	f.price(t, f.milk, f.coop, "5.49", today)
	f.price(t, f.bananas, f.coop, "1.19", today)
	f.price(t, f.bananas, f.coop, "1.09", today.AddDays(-1))

	rows, err := repo.Daily(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bananas", rows[0].ItemName)
	assert.Equal(t, "Milk 2%", rows[1].ItemName)
	assert.Equal(t, "Dairy", rows[1].CategoryName)
}

func TestPriceList_FilterAndPage(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)
	ctx := context.Background()

	f.price(t, f.bananas, f.coop, "1.19", today)
	f.price(t, f.milk, f.coop, "5.49", today)
	f.price(t, f.bananas, f.coop, "1.09", today.AddDays(-3))
	f.price(t, f.bananas, f.coop, "0.99", today.AddDays(-40))

	rows, err := repo.PriceList(ctx, today.AddDays(-30), 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = repo.PriceList(ctx, today.AddDays(-30), f.bananas.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.PriceList(ctx, today.AddDays(-30), 0, 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, today.AddDays(-3), rows[0].Date)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)
	ctx := context.Background()

	st, err := repo.DashboardStats(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalItems)
	assert.Equal(t, int64(2), st.ActiveStores)
	assert.Zero(t, st.TotalPrices)
	assert.False(t, st.LastUpdate.Valid)

	f.price(t, f.bananas, f.coop, "1.19", today)
	f.price(t, f.bananas, f.independent, "1.29", today)
	f.price(t, f.milk, f.coop, "5.49", today.AddDays(-1))

	st, err = repo.DashboardStats(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalPrices)
	assert.True(t, st.LastUpdate.Valid)

	recent, err := repo.RecentPrices(ctx, today, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Bananas", recent[0].Name)
	assert.Equal(t, "Produce", recent[0].Category)
	require.Len(t, recent[0].StorePrices, 2)
	assert.Equal(t, "Independent Grocer", recent[0].StorePrices[0].StoreName)
}

func TestTrending_NeedsMoreThanMinCount(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)

	for i := 0; i < 6; i++ {
		f.price(t, f.bananas, f.coop, "1.00", today.AddDays(-i))
	}
	for i := 0; i < 5; i++ {
		f.price(t, f.milk, f.coop, "5.00", today.AddDays(-i))
	}

	rows, err := repo.Trending(context.Background(), today.AddDays(-30), 5, 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bananas", rows[0].Name)
	assert.Equal(t, int64(6), rows[0].PriceCount)
	assert.True(t, decimal.NewFromInt(1).Equal(rows[0].AvgPrice.Round(2)))
}

func TestStoreItemCategoryStats(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)
	ctx := context.Background()

	f.price(t, f.bananas, f.coop, "1.00", today)
	f.price(t, f.bananas, f.coop, "2.00", today.AddDays(-2))

	stores, err := repo.StoreStats(ctx, today)
	require.NoError(t, err)
	require.Len(t, stores, 3)
	assert.Equal(t, "Extra Foods", stores[0].Name)
	assert.Zero(t, stores[0].TotalPrices)
	assert.False(t, stores[0].LastUpdate.Valid)
	assert.Equal(t, "The Co-op", stores[2].Name)
	assert.Equal(t, int64(2), stores[2].TotalPrices)
	assert.Equal(t, int64(1), stores[2].TodayPrices)
	assert.True(t, stores[2].LastUpdate.Valid)
	assert.True(t, stores[2].ScrapingEnabled)

	items, err := repo.ItemStats(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Bananas", items[0].Name)
	assert.Equal(t, int64(2), items[0].PriceCount)
	assert.True(t, decimal.NewFromInt(1).Equal(items[0].MinPrice.Decimal))
	assert.True(t, decimal.NewFromInt(2).Equal(items[0].MaxPrice.Decimal))
	assert.True(t, decimal.RequireFromString("1.5").Equal(items[0].AvgPrice.Decimal.Round(2)))
	assert.False(t, items[1].MinPrice.Valid, "milk has no prices")

	cats, err := repo.CategoryStats(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Dairy", cats[0].Name)
	assert.Equal(t, int64(1), cats[0].ItemCount)
}

func TestLastScrapeAndStoreActivity(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewReportRepository(f.db)
	ctx := context.Background()

	last, err := repo.LastScrape(ctx)
	require.NoError(t, err)
	assert.False(t, last.Valid)

	f.price(t, f.bananas, f.coop, "1.00", today)
	last, err = repo.LastScrape(ctx)
	require.NoError(t, err)
	assert.False(t, last.Valid, "manual rows do not count")

	require.NoError(t, f.db.Create(&model.Price{
		ItemID: f.milk.ID, StoreID: f.coop.ID, Price: decimal.NewFromInt(5), Date: today, Source: model.SourceScraper,
	}).Error)
	last, err = repo.LastScrape(ctx)
	require.NoError(t, err)
	assert.True(t, last.Valid)

	n, lastObs, err := repo.StoreActivity(ctx, "The Co-op")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, lastObs.Valid)

	n, lastObs, err = repo.StoreActivity(ctx, "Nowhere")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, lastObs.Valid)
}
