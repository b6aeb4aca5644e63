// Package repo implements the data persistence layer for the rabbitry
// entities. It exposes one uniform Store contract with two interchangeable
// backends: a durable SQLite database (pure-Go driver, via GORM) and an
// in-memory map store used where no durable engine is available (tests,
// ephemeral demo runs). Both backends produce identical row shapes for
// joined reads and replicate the same cascade / set-null delete semantics,
// so business code never branches on which engine is live: the choice is
// made exactly once, in Open.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It
// aliases gorm.ErrRecordNotFound so callers can use errors.Is uniformly
// across both backends.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate is returned when an insert violates a uniqueness rule
// (currently only the cage number).
var ErrDuplicate = errors.New("duplicate record")

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendAuto   = "auto"
)

// Store is the uniform persistence surface consumed by the service layer.
//
// All operations take a context and return explicit errors; multi-step
// writes that must appear atomic (the vaccination insert with its derived
// due date, entity deletes with their cascades) are single Store calls.
// Reads that join across entities (cage occupant, latest vaccination dates,
// alert rows) are part of this contract, not a separate layer.
type Store interface {
	// Clapets
	ListClapets(ctx context.Context) ([]domain.ClapetWithFemelle, error)
	GetClapet(ctx context.Context, id uint) (*domain.Clapet, error)
	CreateClapet(ctx context.Context, numero string) (uint, error)
	// DeleteClapet removes a cage and nulls the cage reference of any doe
	// occupying it. The doe record itself is never touched.
	DeleteClapet(ctx context.Context, id uint) error

	// Femelles
	ListFemelles(ctx context.Context) ([]domain.FemelleWithInfos, error)
	GetFemelle(ctx context.Context, id uint) (*domain.FemelleWithInfos, error)
	// CreateFemelle and UpdateFemelle reject a cage reference that does not
	// resolve with ErrNotFound, before any row is written.
	CreateFemelle(ctx context.Context, f *domain.Femelle) (uint, error)
	UpdateFemelle(ctx context.Context, f *domain.Femelle) error
	// DeleteFemelle removes a doe together with its vaccination records and
	// reproduction cycles.
	DeleteFemelle(ctx context.Context, id uint) error
	CountFemellesVivantes(ctx context.Context) (int64, error)

	// Vaccins
	ListVaccins(ctx context.Context) ([]domain.Vaccin, error)
	GetVaccin(ctx context.Context, id uint) (*domain.Vaccin, error)
	CreateVaccin(ctx context.Context, v *domain.Vaccin) (uint, error)
	UpdateVaccin(ctx context.Context, v *domain.Vaccin) error
	DeleteVaccin(ctx context.Context, id uint) error

	// Vaccinations. CreateVaccination looks up the vaccine's validity
	// interval and inserts the record with its derived due date as one
	// atomic unit: when the vaccine or the doe is missing nothing is
	// written and ErrNotFound is returned.
	ListVaccinationsByFemelle(ctx context.Context, femelleID uint) ([]domain.VaccinationWithVaccin, error)
	CreateVaccination(ctx context.Context, femelleID, vaccinID uint, dateVaccination string) (*domain.VaccinationFemelle, error)
	DeleteVaccination(ctx context.Context, id uint) error

	// Aliments
	ListAliments(ctx context.Context) ([]domain.Aliment, error)
	GetAliment(ctx context.Context, id uint) (*domain.Aliment, error)
	CreateAliment(ctx context.Context, a *domain.Aliment) (uint, error)
	UpdateAliment(ctx context.Context, a *domain.Aliment) error
	DeleteAliment(ctx context.Context, id uint) error

	// Cycles. ActiveCycle returns the doe's most recent active cycle, or
	// (nil, nil) when the doe is at rest.
	GetCycle(ctx context.Context, id uint) (*domain.CycleReproduction, error)
	ActiveCycle(ctx context.Context, femelleID uint) (*domain.CycleReproduction, error)
	ListCyclesByFemelle(ctx context.Context, femelleID uint) ([]domain.CycleReproduction, error)
	CreateCycle(ctx context.Context, c *domain.CycleReproduction) (uint, error)
	UpdateCycle(ctx context.Context, c *domain.CycleReproduction) error

	// Alerts and aggregates. Date parameters are ISO strings; rows are
	// restricted to living does and sorted ascending by due date.
	OverdueVaccinations(ctx context.Context, today string) ([]domain.VaccinationAlerte, error)
	UpcomingVaccinations(ctx context.Context, from, to string) ([]domain.VaccinationAlerte, error)
	Statistics(ctx context.Context) (*domain.Statistics, error)

	// Daily check. EnsureDailyCheck inserts the marker for the given date
	// if absent and reports whether it created a row.
	EnsureDailyCheck(ctx context.Context, date string) (bool, error)
	DailyCheckDone(ctx context.Context, date string) (bool, error)

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open selects and initializes a Store backend exactly once, at startup.
//
//   - BackendSQLite: durable store at path; an open failure is fatal.
//   - BackendMemory: in-memory store, all data lost on shutdown.
//   - BackendAuto: durable store when it opens, in-memory fallback
//     otherwise. The fallback is reported through the second return value
//     so the caller can log the degradation.
func Open(backend, path string) (Store, bool, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), false, nil
	case BackendSQLite:
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, false, fmt.Errorf("open sqlite store: %w", err)
		}
		return NewGormStore(db), false, nil
	case BackendAuto, "":
		db, err := OpenSQLite(path)
		if err != nil {
			return NewMemoryStore(), true, nil
		}
		return NewGormStore(db), false, nil
	default:
		return nil, false, fmt.Errorf("unknown store backend %q", backend)
	}
}

// isDuplicate detects unique-constraint violations in a driver-agnostic way;
// glebarez/sqlite does not always map them to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
