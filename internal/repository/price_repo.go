package repository

import (
	"context"

	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"

	"gorm.io/gorm"
)

// PriceRepository appends observations. There is no update or delete.
type PriceRepository interface {
	Create(ctx context.Context, p *model.Price) error
	CreateTx(tx *gorm.DB, p *model.Price) error
	Count(ctx context.Context) (int64, error)
	// Latest returns the current price of (itemID, storeID): greatest date,
	// then greatest id. gorm.ErrRecordNotFound when never observed.
	Latest(ctx context.Context, itemID, storeID uint) (*dto.LatestPrice, error)
}

type priceRepo struct{ db *gorm.DB }

func NewPriceRepository(db *gorm.DB) PriceRepository { return &priceRepo{db: db} }

func (r *priceRepo) Create(ctx context.Context, p *model.Price) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *priceRepo) CreateTx(tx *gorm.DB, p *model.Price) error {
	return tx.Create(p).Error
}

func (r *priceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Price{}).Count(&n).Error
	return n, err
}

func (r *priceRepo) Latest(ctx context.Context, itemID, storeID uint) (*dto.LatestPrice, error) {
	var rows []dto.LatestPrice
	err := r.db.WithContext(ctx).
		Model(&model.Price{}).
		Select("id, item_id, store_id, price, date, source").
		Where("item_id = ? AND store_id = ?", itemID, storeID).
		Order("date DESC, id DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}
