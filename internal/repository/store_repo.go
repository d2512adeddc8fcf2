package repository

import (
	"context"

	"grocerytracker/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreRepository defines data access for stores.
type StoreRepository interface {
	Create(ctx context.Context, s *model.Store) error
	List(ctx context.Context) ([]model.Store, error)
	FindByID(ctx context.Context, id uint) (*model.Store, error)

	// Upsert inserts s, or on a name conflict refreshes website_url and
	// scraping_enabled of the existing row.
	Upsert(ctx context.Context, s *model.Store) error

	// Used inside transactions: callers must pass the tx instance
	FindByNameTx(tx *gorm.DB, name string) (*model.Store, error)
	FindOrCreateTx(tx *gorm.DB, s *model.Store) (*model.Store, bool, error)

	DB() *gorm.DB
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) Create(ctx context.Context, s *model.Store) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storeRepo) List(ctx context.Context) ([]model.Store, error) {
	list := []model.Store{}
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *storeRepo) FindByID(ctx context.Context, id uint) (*model.Store, error) {
	var s model.Store
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *storeRepo) Upsert(ctx context.Context, s *model.Store) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"website_url", "scraping_enabled"}),
	}).Create(s).Error
}

// FindByNameTx returns nil, nil when no store has exactly this name.
func (r *storeRepo) FindByNameTx(tx *gorm.DB, name string) (*model.Store, error) {
	return takeOne[model.Store](tx, map[string]any{"name": name})
}

func (r *storeRepo) FindOrCreateTx(tx *gorm.DB, s *model.Store) (*model.Store, bool, error) {
	return FindOrCreate(tx, map[string]any{"name": s.Name}, s)
}

func (r *storeRepo) DB() *gorm.DB { return r.db }
