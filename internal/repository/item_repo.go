package repository

import (
	"context"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"

	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error
	// List returns every item joined with its category name, by item name.
	List(ctx context.Context) ([]dto.ItemResponse, error)
	FindByID(ctx context.Context, id uint) (*model.Item, error)
	// FindOrCreateTx keys on (name, category_id). unit only applies to a new row.
	FindOrCreateTx(tx *gorm.DB, name string, categoryID uint, unit string) (*model.Item, bool, error)
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) List(ctx context.Context) ([]dto.ItemResponse, error) {
	rows := []dto.ItemResponse{}
	err := r.db.WithContext(ctx).
		Table("items AS i").
		Select("i.id, i.name, i.category_id, i.unit, i.created_at, c.name AS category_name").
		Joins("JOIN categories AS c ON c.id = i.category_id").
		Order("i.name ASC, i.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *itemRepo) FindByID(ctx context.Context, id uint) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) FindOrCreateTx(tx *gorm.DB, name string, categoryID uint, unit string) (*model.Item, bool, error) {
	return FindOrCreate(tx,
		map[string]any{"name": name, "category_id": categoryID},
		&model.Item{Name: name, CategoryID: categoryID, Unit: unit},
	)
}
