package repo

import (
	"context"

	"gorm.io/gorm"
)

// gormStore is the durable Store backend over a GORM handle. Entity
// operations live in the per-entity files of this package (clapet_repo.go,
// femelle_repo.go, ...); this file only holds the type and its lifecycle.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM handle as a Store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate applies the full schema.
func (s *gormStore) Migrate(ctx context.Context) error {
	return AutoMigrate(s.db.WithContext(ctx))
}

// Close releases the underlying connection pool.
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
