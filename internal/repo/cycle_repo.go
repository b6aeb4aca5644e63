// Reproduction cycle persistence for the durable backend. Transition rules
// live in the service-layer state machine; this file only stores and
// retrieves cycle rows. ActiveCycle is the selection query that backs the
// one-active-cycle-per-doe contract: the most recent cycle still in an
// active status.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// GetCycle fetches one cycle row, or ErrNotFound.
func (s *gormStore) GetCycle(ctx context.Context, id uint) (*domain.CycleReproduction, error) {
	var c domain.CycleReproduction
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ActiveCycle returns the doe's most recent active cycle (saillie, gestante
// or allaitante), or (nil, nil) when the doe is at rest.
func (s *gormStore) ActiveCycle(ctx context.Context, femelleID uint) (*domain.CycleReproduction, error) {
	var c domain.CycleReproduction
	err := s.db.WithContext(ctx).
		Where("femelle_id = ? AND statut IN ?", femelleID,
			[]string{domain.CycleSaillie, domain.CycleGestante, domain.CycleAllaitante}).
		Order("date_saillie DESC, id DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCyclesByFemelle returns a doe's full cycle history, most recent first.
func (s *gormStore) ListCyclesByFemelle(ctx context.Context, femelleID uint) ([]domain.CycleReproduction, error) {
	var out []domain.CycleReproduction
	err := s.db.WithContext(ctx).
		Where("femelle_id = ?", femelleID).
		Order("date_saillie DESC, id DESC").
		Find(&out).Error
	return out, err
}

// CreateCycle inserts a new cycle row and returns its id. The doe must
// exist; a dangling reference yields ErrNotFound.
func (s *gormStore) CreateCycle(ctx context.Context, c *domain.CycleReproduction) (uint, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f domain.Femelle
		if err := tx.First(&f, c.FemelleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Create(c).Error
	})
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

// UpdateCycle rewrites the full cycle row. ErrNotFound when the id does not
// exist.
func (s *gormStore) UpdateCycle(ctx context.Context, c *domain.CycleReproduction) error {
	res := s.db.WithContext(ctx).
		Model(&domain.CycleReproduction{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"date_saillie":         c.DateSaillie,
			"date_mise_bas_prevue": c.DateMiseBasPrevue,
			"date_verification":    c.DateVerification,
			"date_mise_bas_reelle": c.DateMiseBasReelle,
			"nombre_vivants":       c.NombreVivants,
			"nombre_morts":         c.NombreMorts,
			"date_sevrage_prevue":  c.DateSevragePrevue,
			"statut":               c.Statut,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
