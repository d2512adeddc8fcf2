package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOrCreate returns the row matching key, inserting row when none exists.
// The insert uses ON CONFLICT DO NOTHING so a concurrent writer that wins the
// race on the unique key does not fail the caller; the winner is re-read.
// created reports whether this call inserted the row.
func FindOrCreate[T any](tx *gorm.DB, key map[string]any, row *T) (found *T, created bool, err error) {
	if existing, err := takeOne[T](tx, key); err != nil || existing != nil {
		return existing, false, err
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return row, true, nil
	}

	existing, err := takeOne[T](tx, key)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return existing, false, nil
}

// takeOne returns nil, nil when nothing matches.
func takeOne[T any](tx *gorm.DB, key map[string]any) (*T, error) {
	var rows []T
	if err := tx.Where(key).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
