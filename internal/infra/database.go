package infra

import (
	"fmt"
	"strings"

	"grocerytracker/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// NewDatabase opens the price store. A postgres:// (or postgresql://) DSN
// selects Postgres; anything else is a SQLite file path, or MemoryDSN.
// The schema is migrated before returning.
func NewDatabase(dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	if IsPostgresDSN(dsn) {
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	} else {
		db, err = gorm.Open(sqlite.Open(sqliteDSN(dsn)), gcfg)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	switch {
	case IsPostgresDSN(dsn):
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	case dsn == MemoryDSN:
		// every connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
	default:
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(4)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// IsPostgresDSN reports whether dsn is a Postgres connection URL.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func sqliteDSN(path string) string {
	if path == MemoryDSN {
		return "file::memory:?_foreign_keys=on"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

// RunMigrations creates / updates all tables and then applies the index
// patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.Category{},
		&model.Item{},
		&model.Price{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL shared by SQLite and Postgres.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// last-scrape lookup: MAX(created_at) WHERE source = 'scraper'
		`CREATE INDEX IF NOT EXISTS idx_prices_source_created ON prices (source, created_at)`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
