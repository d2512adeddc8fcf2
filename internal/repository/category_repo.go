package repository

import (
	"context"

	"grocerytracker/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository defines CRUD operations for Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	// FindOrCreateTx matches name exactly (case-sensitive).
	FindOrCreateTx(tx *gorm.DB, name string) (*model.Category, bool, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	list := []model.Category{}
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) FindOrCreateTx(tx *gorm.DB, name string) (*model.Category, bool, error) {
	return FindOrCreate(tx, map[string]any{"name": name}, &model.Category{Name: name})
}
