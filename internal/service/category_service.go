package service

import (
	"context"
	"fmt"
	"strings"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"

	"gorm.io/gorm"
)

// DefaultCategories are created on first start.
var DefaultCategories = []string{"Produce", "Dairy", "Meat", "Bakery", "Pantry", "Frozen", "Beverages", "Snacks"}

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (uint, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	// Ensure find-or-inserts each name; existing rows are left alone.
	Ensure(ctx context.Context, names []string) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	db    *gorm.DB
	cache Invalidator
}

func NewCategoryService(repo repository.CategoryRepository, db *gorm.DB, cache Invalidator) CategoryService {
	return &categoryService{repo: repo, db: db, cache: orNoop(cache)}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	c := &model.Category{Name: name}
	if err := s.repo.Create(ctx, c); err != nil {
		return 0, translate(err, fmt.Sprintf("category %q", name))
	}
	s.cache.Invalidate(ctx)
	return c.ID, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return result, nil
}

func (s *categoryService) Ensure(ctx context.Context, names []string) error {
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		for _, name := range names {
			if _, _, err := s.repo.FindOrCreateTx(tx, name); err != nil {
				return fmt.Errorf("category %q: %w", name, err)
			}
		}
		return nil
	})
}
