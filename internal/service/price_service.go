package service

import (
	"context"
	"errors"
	"fmt"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"

	"gorm.io/gorm"
)

// PriceService records manual observations.
type PriceService interface {
	// Create validates and appends one observation. The price must be present
	// and non-negative and both item and store must exist; nothing is written
	// otherwise.
	Create(ctx context.Context, req dto.CreatePriceRequest) (uint, error)
}

type priceService struct {
	repo   repository.PriceRepository
	items  repository.ItemRepository
	stores repository.StoreRepository
	cache  Invalidator
	clock  Clock
}

func NewPriceService(
	repo repository.PriceRepository,
	items repository.ItemRepository,
	stores repository.StoreRepository,
	cache Invalidator,
	clock Clock,
) PriceService {
	return &priceService{repo: repo, items: items, stores: stores, cache: orNoop(cache), clock: clock}
}

func (s *priceService) Create(ctx context.Context, req dto.CreatePriceRequest) (uint, error) {
	if req.Price == nil {
		return 0, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return 0, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	date := s.clock.today()
	if req.Date != "" {
		d, err := model.ParseDate(req.Date)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		date = d
	}

	source := req.Source
	switch source {
	case "":
		source = model.SourceManual
	case model.SourceManual, model.SourceScraper:
	default:
		return 0, fmt.Errorf("%w: source must be %q or %q", ErrValidation, model.SourceManual, model.SourceScraper)
	}

	if _, err := s.items.FindByID(ctx, req.ItemID); err != nil {
		return 0, notFoundAsReferential(err, fmt.Sprintf("item %d", req.ItemID))
	}
	if _, err := s.stores.FindByID(ctx, req.StoreID); err != nil {
		return 0, notFoundAsReferential(err, fmt.Sprintf("store %d", req.StoreID))
	}

	p := &model.Price{
		ItemID:  req.ItemID,
		StoreID: req.StoreID,
		Price:   req.Price.Round(2),
		Date:    date,
		Notes:   req.Notes,
		Source:  source,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return 0, translate(err, "price")
	}
	s.cache.Invalidate(ctx)
	return p.ID, nil
}

func notFoundAsReferential(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrReferential, what)
	}
	return err
}
