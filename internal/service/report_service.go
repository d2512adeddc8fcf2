package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/infra"
	"grocerytracker/internal/repository"

	"gorm.io/gorm"
)

const (
	DefaultTrendDays     = 90
	DefaultPriceListDays = 30

	dashboardRecentLimit = 10
	trendingWindowDays   = 30
	trendingMinCount     = 5
	trendingLimit        = 20
)

// ReportCache is the subset of infra.ReportCache used by reports. Get
// resolves the storage key at read time; Set must be given that key.
type ReportCache interface {
	Get(ctx context.Context, name string, dst any) (key string, hit bool)
	Set(ctx context.Context, key string, v any)
}

// ReportService exposes read-only projections over the price store.
type ReportService interface {
	Latest(ctx context.Context, itemID, storeID uint) (*dto.LatestPrice, error)
	Trend(ctx context.Context, itemID uint, days int) ([]dto.TrendPoint, error)
	Daily(ctx context.Context) ([]dto.PriceRow, error)
	Comparison(ctx context.Context) ([]dto.ComparisonRow, error)
	ComparisonPDF(ctx context.Context, w io.Writer) error
	PriceList(ctx context.Context, filter dto.PriceFilter) ([]dto.PriceRow, error)

	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Trending(ctx context.Context) ([]dto.TrendingItem, error)
	StoreStats(ctx context.Context) ([]dto.StoreStats, error)
	ItemStats(ctx context.Context) ([]dto.ItemStats, error)
	CategoryStats(ctx context.Context) ([]dto.CategoryStats, error)
}

type reportService struct {
	repo         repository.ReportRepository
	prices       repository.PriceRepository
	cache        ReportCache
	clock        Clock
	itemsPerPage int
}

func NewReportService(
	repo repository.ReportRepository,
	prices repository.PriceRepository,
	cache ReportCache,
	clock Clock,
	itemsPerPage int,
) ReportService {
	if itemsPerPage <= 0 {
		itemsPerPage = 25
	}
	return &reportService{repo: repo, prices: prices, cache: cache, clock: clock, itemsPerPage: itemsPerPage}
}

// cached serves name from the cache or computes and stores it.
func cached[T any](ctx context.Context, c ReportCache, name string, load func() (T, error)) (T, error) {
	var v T
	if c == nil {
		return load()
	}
	key, hit := c.Get(ctx, name, &v)
	if hit {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v)
	return v, nil
}

func (s *reportService) Latest(ctx context.Context, itemID, storeID uint) (*dto.LatestPrice, error) {
	lp, err := s.prices.Latest(ctx, itemID, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no price for item %d at store %d", ErrNotFound, itemID, storeID)
	}
	return lp, err
}

// Trend returns observations of itemID dated within [today-days, today].
func (s *reportService) Trend(ctx context.Context, itemID uint, days int) ([]dto.TrendPoint, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must be >= 0", ErrValidation)
	}
	today := s.clock.today()
	return s.repo.Trend(ctx, itemID, today.AddDays(-days), today)
}

func (s *reportService) Daily(ctx context.Context) ([]dto.PriceRow, error) {
	today := s.clock.today()
	return cached(ctx, s.cache, "daily:"+today.String(), func() ([]dto.PriceRow, error) {
		return s.repo.Daily(ctx, today)
	})
}

func (s *reportService) Comparison(ctx context.Context) ([]dto.ComparisonRow, error) {
	return cached(ctx, s.cache, "comparison", func() ([]dto.ComparisonRow, error) {
		return s.repo.Comparison(ctx)
	})
}

func (s *reportService) ComparisonPDF(ctx context.Context, w io.Writer) error {
	rows, err := s.Comparison(ctx)
	if err != nil {
		return err
	}
	return infra.RenderComparisonPDF(w, rows, s.now())
}

func (s *reportService) PriceList(ctx context.Context, filter dto.PriceFilter) ([]dto.PriceRow, error) {
	if filter.Days < 0 {
		return nil, fmt.Errorf("%w: days must be >= 0", ErrValidation)
	}
	limit, offset := 0, 0
	if filter.Page > 0 {
		limit = s.itemsPerPage
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = (filter.Page - 1) * limit
	}
	from := s.clock.today().AddDays(-filter.Days)
	return s.repo.PriceList(ctx, from, filter.ItemID, limit, offset)
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	today := s.clock.today()
	resp, err := cached(ctx, s.cache, "dashboard:"+today.String(), func() (dto.DashboardResponse, error) {
		stats, err := s.repo.DashboardStats(ctx, today)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		recent, err := s.repo.RecentPrices(ctx, today, dashboardRecentLimit)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		return dto.DashboardResponse{Stats: stats, RecentPrices: recent}, nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *reportService) Trending(ctx context.Context) ([]dto.TrendingItem, error) {
	from := s.clock.today().AddDays(-trendingWindowDays)
	rows, err := s.repo.Trending(ctx, from, trendingMinCount, trendingLimit)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AvgPrice = rows[i].AvgPrice.Round(2)
	}
	return rows, nil
}

func (s *reportService) StoreStats(ctx context.Context) ([]dto.StoreStats, error) {
	return s.repo.StoreStats(ctx, s.clock.today())
}

func (s *reportService) ItemStats(ctx context.Context) ([]dto.ItemStats, error) {
	rows, err := s.repo.ItemStats(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].AvgPrice.Valid {
			rows[i].AvgPrice.Decimal = rows[i].AvgPrice.Decimal.Round(2)
		}
	}
	return rows, nil
}

func (s *reportService) CategoryStats(ctx context.Context) ([]dto.CategoryStats, error) {
	return s.repo.CategoryStats(ctx)
}

func (s *reportService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}
