// Database bootstrapping for the durable backend: SQLite via the pure-Go
// driver, plus schema migration shared by both the server and the tests.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// OpenSQLite opens (or creates) the SQLite database at path and applies the
// PRAGMAs and pool settings the application relies on. Foreign keys are
// switched on so the schema-level cascade and set-null rules are live.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if the parent directory does not exist instead of
	// surfacing an opaque sqlite "out of memory (14)".
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the whole schema. Any statement failure is
// fatal to startup; the store never masks a partial schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Clapet{},
		&domain.Femelle{},
		&domain.Vaccin{},
		&domain.VaccinationFemelle{},
		&domain.Aliment{},
		&domain.CycleReproduction{},
		&domain.DailyCheck{},
		&domain.Setting{},
	)
}
