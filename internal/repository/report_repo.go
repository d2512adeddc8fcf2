package repository

import (
	"context"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository holds the read-only projections over prices. Every method
// that depends on "today" takes the day explicitly; the clock lives in the
// service layer.
type ReportRepository interface {
	Trend(ctx context.Context, itemID uint, from, to model.Date) ([]dto.TrendPoint, error)
	Daily(ctx context.Context, day model.Date) ([]dto.PriceRow, error)
	Comparison(ctx context.Context) ([]dto.ComparisonRow, error)
	PriceList(ctx context.Context, from model.Date, itemID uint, limit, offset int) ([]dto.PriceRow, error)

	DashboardStats(ctx context.Context, day model.Date) (dto.DashboardStats, error)
	RecentPrices(ctx context.Context, day model.Date, limit int) ([]dto.RecentItemPrices, error)
	Trending(ctx context.Context, from model.Date, minCount int64, limit int) ([]dto.TrendingItem, error)
	StoreStats(ctx context.Context, day model.Date) ([]dto.StoreStats, error)
	ItemStats(ctx context.Context) ([]dto.ItemStats, error)
	CategoryStats(ctx context.Context) ([]dto.CategoryStats, error)

	// LastScrape is MAX(created_at) over scraper-sourced rows.
	LastScrape(ctx context.Context) (model.NullTime, error)
	// StoreActivity counts the observations recorded at the named store and
	// returns the most recent one's insert time.
	StoreActivity(ctx context.Context, storeName string) (int64, model.NullTime, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

// ── Observations ────────────────────────────────────────────────────────────

const priceRowColumns = `p.id, p.item_id, p.store_id, p.price, p.date, p.notes, p.source, p.created_at,
	i.name AS item_name, i.unit, s.name AS store_name, c.name AS category_name`

func (r *reportRepo) observations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("prices AS p").
		Select(priceRowColumns).
		Joins("JOIN items AS i ON i.id = p.item_id").
		Joins("JOIN stores AS s ON s.id = p.store_id").
		Joins("JOIN categories AS c ON c.id = i.category_id")
}

func (r *reportRepo) Trend(ctx context.Context, itemID uint, from, to model.Date) ([]dto.TrendPoint, error) {
	rows := []dto.TrendPoint{}
	err := r.db.WithContext(ctx).
		Table("prices AS p").
		Select("p.id, p.date, p.price, s.name AS store_name, p.notes, p.source").
		Joins("JOIN stores AS s ON s.id = p.store_id").
		Where("p.item_id = ? AND p.date >= ? AND p.date <= ?", itemID, from, to).
		Order("p.date DESC, p.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) Daily(ctx context.Context, day model.Date) ([]dto.PriceRow, error) {
	rows := []dto.PriceRow{}
	err := r.observations(ctx).
		Where("p.date = ?", day).
		Order("i.name ASC, s.name ASC, p.id ASC").
		Scan(&rows).Error
	return rows, err
}

// latestPerPairSQL ranks observations within each (item, store) pair; rank 1
// is the current price. Same-date rows fall back to the highest id.
const latestPerPairSQL = `
WITH ranked AS (
	SELECT p.item_id, p.store_id, p.price, p.date, p.source,
		ROW_NUMBER() OVER (PARTITION BY p.item_id, p.store_id ORDER BY p.date DESC, p.id DESC) AS rn
	FROM prices p
)
SELECT r.item_id, r.store_id, i.name AS item_name, i.unit, s.name AS store_name,
	r.price, r.date, r.source, c.name AS category_name
FROM ranked r
JOIN items i ON i.id = r.item_id
JOIN stores s ON s.id = r.store_id
JOIN categories c ON c.id = i.category_id
WHERE r.rn = 1
ORDER BY i.name ASC, s.name ASC`

func (r *reportRepo) Comparison(ctx context.Context) ([]dto.ComparisonRow, error) {
	rows := []dto.ComparisonRow{}
	err := r.db.WithContext(ctx).Raw(latestPerPairSQL).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) PriceList(ctx context.Context, from model.Date, itemID uint, limit, offset int) ([]dto.PriceRow, error) {
	rows := []dto.PriceRow{}
	q := r.observations(ctx).Where("p.date >= ?", from)
	if itemID != 0 {
		q = q.Where("p.item_id = ?", itemID)
	}
	q = q.Order("p.date DESC, i.name ASC, p.id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Scan(&rows).Error
	return rows, err
}

// ── Dashboard ───────────────────────────────────────────────────────────────

func (r *reportRepo) DashboardStats(ctx context.Context, day model.Date) (dto.DashboardStats, error) {
	var st dto.DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Item{}).Count(&st.TotalItems).Error; err != nil {
		return st, err
	}
	if err := db.Model(&model.Store{}).Where("scraping_enabled = ?", true).Count(&st.ActiveStores).Error; err != nil {
		return st, err
	}
	if err := db.Model(&model.Price{}).Where("date = ?", day).Count(&st.TotalPrices).Error; err != nil {
		return st, err
	}
	err := db.Model(&model.Price{}).Select("MAX(created_at)").Row().Scan(&st.LastUpdate)
	return st, err
}

func (r *reportRepo) RecentPrices(ctx context.Context, day model.Date, limit int) ([]dto.RecentItemPrices, error) {
	// scanned flat: gorm treats a struct with a slice field as a relation
	var heads []struct {
		ItemID   uint
		Name     string
		Category string
	}
	err := r.db.WithContext(ctx).
		Table("items AS i").
		Select("DISTINCT i.id AS item_id, i.name, c.name AS category").
		Joins("JOIN categories AS c ON c.id = i.category_id").
		Joins("JOIN prices AS p ON p.item_id = i.id").
		Where("p.date = ?", day).
		Order("i.name ASC").
		Limit(limit).
		Scan(&heads).Error
	items := make([]dto.RecentItemPrices, 0, len(heads))
	if err != nil || len(heads) == 0 {
		return items, err
	}
	for _, h := range heads {
		items = append(items, dto.RecentItemPrices{ItemID: h.ItemID, Name: h.Name, Category: h.Category})
	}

	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ItemID
	}

	var prices []struct {
		ItemID    uint
		StoreName string
		Price     decimal.Decimal
	}
	err = r.db.WithContext(ctx).
		Table("prices AS p").
		Select("p.item_id, s.name AS store_name, p.price").
		Joins("JOIN stores AS s ON s.id = p.store_id").
		Where("p.date = ? AND p.item_id IN ?", day, ids).
		Order("s.name ASC, p.id DESC").
		Scan(&prices).Error
	if err != nil {
		return nil, err
	}

	// One price per store: the newest row of the day.
	byItem := make(map[uint]map[string]bool, len(items))
	idx := make(map[uint]int, len(items))
	for i := range items {
		idx[items[i].ItemID] = i
		items[i].StorePrices = []dto.StorePrice{}
		byItem[items[i].ItemID] = map[string]bool{}
	}
	for _, p := range prices {
		seen := byItem[p.ItemID]
		if seen == nil || seen[p.StoreName] {
			continue
		}
		seen[p.StoreName] = true
		i := idx[p.ItemID]
		items[i].StorePrices = append(items[i].StorePrices, dto.StorePrice{StoreName: p.StoreName, Price: p.Price})
	}
	return items, nil
}

func (r *reportRepo) Trending(ctx context.Context, from model.Date, minCount int64, limit int) ([]dto.TrendingItem, error) {
	rows := []dto.TrendingItem{}
	err := r.db.WithContext(ctx).
		Table("items AS i").
		Select("i.id, i.name, AVG(p.price) AS avg_price, COUNT(p.id) AS price_count, c.name AS category").
		Joins("JOIN categories AS c ON c.id = i.category_id").
		Joins("JOIN prices AS p ON p.item_id = i.id").
		Where("p.date >= ?", from).
		Group("i.id, i.name, c.name").
		Having("COUNT(p.id) > ?", minCount).
		Order("price_count DESC, i.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ── Inventory stats ─────────────────────────────────────────────────────────

func (r *reportRepo) StoreStats(ctx context.Context, day model.Date) ([]dto.StoreStats, error) {
	rows := []dto.StoreStats{}
	err := r.db.WithContext(ctx).
		Table("stores AS s").
		Select(`s.id, s.name, s.location, s.website_url, s.scraping_enabled,
			COUNT(p.id) AS total_prices,
			COUNT(CASE WHEN p.date = ? THEN 1 END) AS today_prices,
			MAX(p.created_at) AS last_update`, day).
		Joins("LEFT JOIN prices AS p ON p.store_id = s.id").
		Group("s.id, s.name, s.location, s.website_url, s.scraping_enabled").
		Order("s.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ItemStats(ctx context.Context) ([]dto.ItemStats, error) {
	rows := []dto.ItemStats{}
	err := r.db.WithContext(ctx).
		Table("items AS i").
		Select(`i.id, i.name, i.category_id, i.unit, c.name AS category_name,
			COUNT(p.id) AS price_count,
			MIN(p.price) AS min_price,
			MAX(p.price) AS max_price,
			AVG(p.price) AS avg_price,
			MAX(p.created_at) AS last_price_update`).
		Joins("JOIN categories AS c ON c.id = i.category_id").
		Joins("LEFT JOIN prices AS p ON p.item_id = i.id").
		Group("i.id, i.name, i.category_id, i.unit, c.name").
		Order("i.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CategoryStats(ctx context.Context) ([]dto.CategoryStats, error) {
	rows := []dto.CategoryStats{}
	err := r.db.WithContext(ctx).
		Table("categories AS c").
		Select("c.id, c.name, COUNT(i.id) AS item_count").
		Joins("LEFT JOIN items AS i ON i.category_id = c.id").
		Group("c.id, c.name").
		Order("c.name ASC").
		Scan(&rows).Error
	return rows, err
}

// ── Scrape bookkeeping ──────────────────────────────────────────────────────

func (r *reportRepo) LastScrape(ctx context.Context) (model.NullTime, error) {
	var last model.NullTime
	err := r.db.WithContext(ctx).
		Model(&model.Price{}).
		Select("MAX(created_at)").
		Where("source = ?", model.SourceScraper).
		Row().Scan(&last)
	return last, err
}

func (r *reportRepo) StoreActivity(ctx context.Context, storeName string) (int64, model.NullTime, error) {
	var (
		count int64
		last  model.NullTime
	)
	err := r.db.WithContext(ctx).
		Table("prices AS p").
		Select("COUNT(p.id), MAX(p.created_at)").
		Joins("JOIN stores AS s ON s.id = p.store_id").
		Where("s.name = ?", storeName).
		Row().Scan(&count, &last)
	return count, last, err
}
