package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"

	"gorm.io/gorm"
)

// DefaultUnit applies when an item is created without one.
const DefaultUnit = "each"

type ItemService interface {
	Create(ctx context.Context, req dto.CreateItemRequest) (uint, error)
	List(ctx context.Context) ([]dto.ItemResponse, error)
	// Ensure find-or-inserts (name, category) pairs, creating categories as needed.
	Ensure(ctx context.Context, items []SeedItem) error
}

// SeedItem names an item by its category name.
type SeedItem struct {
	Name     string
	Category string
	Unit     string
}

type itemService struct {
	repo       repository.ItemRepository
	categories repository.CategoryRepository
	db         *gorm.DB
	cache      Invalidator
}

func NewItemService(repo repository.ItemRepository, categories repository.CategoryRepository, db *gorm.DB, cache Invalidator) ItemService {
	return &itemService{repo: repo, categories: categories, db: db, cache: orNoop(cache)}
}

func (s *itemService) Create(ctx context.Context, req dto.CreateItemRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: category %d", ErrReferential, req.CategoryID)
		}
		return 0, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	it := &model.Item{Name: name, CategoryID: req.CategoryID, Unit: unit}
	if err := s.repo.Create(ctx, it); err != nil {
		return 0, translate(err, fmt.Sprintf("item %q in category %d", name, req.CategoryID))
	}
	s.cache.Invalidate(ctx)
	return it.ID, nil
}

func (s *itemService) List(ctx context.Context) ([]dto.ItemResponse, error) {
	return s.repo.List(ctx)
}

func (s *itemService) Ensure(ctx context.Context, items []SeedItem) error {
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		for _, it := range items {
			c, _, err := s.categories.FindOrCreateTx(tx, it.Category)
			if err != nil {
				return fmt.Errorf("category %q: %w", it.Category, err)
			}
			if _, _, err := s.repo.FindOrCreateTx(tx, it.Name, c.ID, it.Unit); err != nil {
				return fmt.Errorf("item %q: %w", it.Name, err)
			}
		}
		return nil
	})
}
