package service

import (
	"context"
	"errors"
	"strings"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// IngestionService turns product records for one store into rows.
type IngestionService interface {
	// Ingest saves records for the store named storeName in one transaction
	// and returns how many observations were written. A missing store skips
	// the batch (0, nil). Any failure rolls the whole batch back (0, err).
	Ingest(ctx context.Context, storeName string, records []dto.ProductRecord, source string) (int, error)
}

type ingestionService struct {
	stores     repository.StoreRepository
	categories repository.CategoryRepository
	items      repository.ItemRepository
	prices     repository.PriceRepository
	cache      Invalidator
	clock      Clock
}

func NewIngestionService(
	stores repository.StoreRepository,
	categories repository.CategoryRepository,
	items repository.ItemRepository,
	prices repository.PriceRepository,
	cache Invalidator,
	clock Clock,
) IngestionService {
	return &ingestionService{
		stores:     stores,
		categories: categories,
		items:      items,
		prices:     prices,
		cache:      orNoop(cache),
		clock:      clock,
	}
}

var errStoreMissing = errors.New("store not found")

// ObservationNotes formats the brand/size metadata kept on each scraped row.
func ObservationNotes(brand, size string) string {
	return "Brand: " + orNA(brand) + ", Size: " + orNA(size)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func (s *ingestionService) Ingest(ctx context.Context, storeName string, records []dto.ProductRecord, source string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if source == "" {
		source = model.SourceScraper
	}

	runID := uuid.NewString()
	today := s.clock.today()
	saved := 0

	txErr := runTx(ctx, s.stores.DB(), func(tx *gorm.DB) error {
		store, err := s.stores.FindByNameTx(tx, storeName)
		if err != nil {
			return err
		}
		if store == nil {
			return errStoreMissing
		}

		for _, rec := range records {
			cat, _, err := s.categories.FindOrCreateTx(tx, rec.Category)
			if err != nil {
				return err
			}
			item, _, err := s.items.FindOrCreateTx(tx, rec.Name, cat.ID, rec.Unit)
			if err != nil {
				return err
			}
			p := &model.Price{
				ItemID:  item.ID,
				StoreID: store.ID,
				Price:   rec.Price.Round(2),
				Date:    today,
				Notes:   ObservationNotes(rec.Brand, rec.Size),
				Source:  source,
			}
			if err := s.prices.CreateTx(tx, p); err != nil {
				return err
			}
			saved++
		}
		return nil
	})

	if errors.Is(txErr, errStoreMissing) {
		log.Warn().Str("run_id", runID).Str("store", storeName).Msg("ingestion skipped: store not found")
		return 0, nil
	}
	if txErr != nil {
		log.Error().Err(txErr).Str("run_id", runID).Str("store", storeName).Int("records", len(records)).Msg("ingestion rolled back")
		return 0, txErr
	}

	s.cache.Invalidate(ctx)
	log.Info().Str("run_id", runID).Str("store", storeName).Str("source", source).Int("saved", saved).Msg("ingestion committed")
	return saved, nil
}
