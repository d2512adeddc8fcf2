package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors. Callers add context with fmt.Errorf("%w: …") and
// handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrDuplicate   = errors.New("already exists")
	ErrReferential = errors.New("referenced row does not exist")
	ErrNotFound    = errors.New("not found")
)

// translate maps storage constraint errors to the sentinels above.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrDuplicate, what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s", ErrReferential, what)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %s", ErrValidation, what)
	}
	return err
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Invalidator drops cached report projections after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

func orNoop(inv Invalidator) Invalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}
