package service

import (
	"context"
	"fmt"
	"strings"

	"grocerytracker/internal/config"
	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"
)

// StoreService defines business operations on stores.
type StoreService interface {
	Create(ctx context.Context, req dto.CreateStoreRequest) (uint, error)
	List(ctx context.Context) ([]dto.StoreResponse, error)
	// EnsureConfigured upserts every configured store: insert, or refresh
	// website and scraping flag of the existing row.
	EnsureConfigured(ctx context.Context, stores []config.StoreConfig) error
}

type storeService struct {
	repo  repository.StoreRepository
	cache Invalidator
}

func NewStoreService(repo repository.StoreRepository, cache Invalidator) StoreService {
	return &storeService{repo: repo, cache: orNoop(cache)}
}

func mapStore(s model.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:              s.ID,
		Name:            s.Name,
		Location:        s.Location,
		WebsiteURL:      s.WebsiteURL,
		ScrapingEnabled: s.ScrapingEnabled,
		CreatedAt:       s.CreatedAt,
	}
}

func (s *storeService) Create(ctx context.Context, req dto.CreateStoreRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	st := &model.Store{
		Name:            name,
		Location:        req.Location,
		WebsiteURL:      req.WebsiteURL,
		ScrapingEnabled: req.ScrapingEnabled,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return 0, translate(err, fmt.Sprintf("store %q", name))
	}
	s.cache.Invalidate(ctx)
	return st.ID, nil
}

func (s *storeService) List(ctx context.Context) ([]dto.StoreResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StoreResponse, 0, len(list))
	for _, st := range list {
		result = append(result, mapStore(st))
	}
	return result, nil
}

func (s *storeService) EnsureConfigured(ctx context.Context, stores []config.StoreConfig) error {
	for _, sc := range stores {
		st := &model.Store{
			Name:            sc.Name,
			Location:        sc.Location,
			WebsiteURL:      sc.Website,
			ScrapingEnabled: sc.Enabled,
		}
		if err := s.repo.Upsert(ctx, st); err != nil {
			return fmt.Errorf("upsert store %q: %w", sc.Name, err)
		}
	}
	s.cache.Invalidate(ctx)
	return nil
}
