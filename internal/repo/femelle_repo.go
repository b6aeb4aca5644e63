// Doe persistence for the durable backend.
//
// List and detail reads join the cage number and the doe's most recent
// vaccination dates (administered and next due), matching what the herd
// screens display. Deleting a doe cascades to its vaccination records and
// reproduction cycles inside one transaction so no orphan rows survive.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// femelleInfoSelect is the projection shared by ListFemelles and GetFemelle:
// the doe row, its cage number, and the latest vaccination dates pulled via
// correlated subqueries (latest by administration date).
const femelleInfoSelect = `f.id, f.numero, f.clapet_id, f.date_naissance, f.statut,
	c.numero AS clapet_numero,
	(SELECT vf.date_vaccination FROM vaccinations_femelles vf
	 WHERE vf.femelle_id = f.id ORDER BY vf.date_vaccination DESC LIMIT 1) AS dernier_vaccin,
	(SELECT vf.date_prochain FROM vaccinations_femelles vf
	 WHERE vf.femelle_id = f.id ORDER BY vf.date_vaccination DESC LIMIT 1) AS prochain_vaccin`

// ListFemelles returns all does ordered by number with their joined infos.
func (s *gormStore) ListFemelles(ctx context.Context) ([]domain.FemelleWithInfos, error) {
	var out []domain.FemelleWithInfos
	err := s.db.WithContext(ctx).
		Table("femelles AS f").
		Select(femelleInfoSelect).
		Joins("LEFT JOIN clapets c ON f.clapet_id = c.id").
		Order("f.numero").
		Scan(&out).Error
	return out, err
}

// GetFemelle fetches one doe with its joined infos, or ErrNotFound.
func (s *gormStore) GetFemelle(ctx context.Context, id uint) (*domain.FemelleWithInfos, error) {
	var f domain.FemelleWithInfos
	res := s.db.WithContext(ctx).
		Table("femelles AS f").
		Select(femelleInfoSelect).
		Joins("LEFT JOIN clapets c ON f.clapet_id = c.id").
		Where("f.id = ?", id).
		Scan(&f)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &f, nil
}

// clapetExists verifies a cage reference before a doe write, so both
// backends surface the same ErrNotFound instead of a driver FK error.
func clapetExists(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var c domain.Clapet
	if err := tx.First(&c, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// CreateFemelle inserts a new doe and returns its id. A cage reference that
// does not resolve yields ErrNotFound.
func (s *gormStore) CreateFemelle(ctx context.Context, f *domain.Femelle) (uint, error) {
	if err := clapetExists(s.db.WithContext(ctx), f.ClapetID); err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return 0, err
	}
	return f.ID, nil
}

// UpdateFemelle rewrites the doe's editable fields. ErrNotFound when the id
// or a referenced cage does not exist.
func (s *gormStore) UpdateFemelle(ctx context.Context, f *domain.Femelle) error {
	if err := clapetExists(s.db.WithContext(ctx), f.ClapetID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&domain.Femelle{}).
		Where("id = ?", f.ID).
		Updates(map[string]any{
			"numero":         f.Numero,
			"clapet_id":      f.ClapetID,
			"date_naissance": f.DateNaissance,
			"statut":         f.Statut,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFemelle removes the doe and everything hanging off her: vaccination
// records and cycles go in the same transaction.
func (s *gormStore) DeleteFemelle(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f domain.Femelle
		if err := tx.First(&f, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("femelle_id = ?", id).Delete(&domain.VaccinationFemelle{}).Error; err != nil {
			return err
		}
		if err := tx.Where("femelle_id = ?", id).Delete(&domain.CycleReproduction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Femelle{}, id).Error
	})
}

// CountFemellesVivantes returns the number of living does; the feed
// depletion math runs off this.
func (s *gormStore) CountFemellesVivantes(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&domain.Femelle{}).
		Where("statut = ?", domain.FemelleVivante).
		Count(&n).Error
	return n, err
}
