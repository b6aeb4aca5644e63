// Vaccination record persistence for the durable backend.
//
// The insert is the one place where the next due date is computed: it reads
// the vaccine's validity interval and writes the record in a single
// transaction, so a missing vaccine or doe aborts the whole operation with
// nothing persisted. The stored due date is immutable afterwards.
package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/dateutil"
	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// ListVaccinationsByFemelle returns a doe's vaccination history, most
// recent first, each row joined with the vaccine name.
func (s *gormStore) ListVaccinationsByFemelle(ctx context.Context, femelleID uint) ([]domain.VaccinationWithVaccin, error) {
	var out []domain.VaccinationWithVaccin
	err := s.db.WithContext(ctx).
		Table("vaccinations_femelles AS vf").
		Select("vf.id, vf.femelle_id, vf.vaccin_id, vf.date_vaccination, vf.date_prochain, v.nom AS vaccin_nom").
		Joins("JOIN vaccins v ON vf.vaccin_id = v.id").
		Where("vf.femelle_id = ?", femelleID).
		Order("vf.date_vaccination DESC").
		Scan(&out).Error
	return out, err
}

// CreateVaccination records an administered shot. The due date is derived
// from the vaccine's interval in effect now; doe and vaccine are verified
// inside the same transaction as the insert.
func (s *gormStore) CreateVaccination(ctx context.Context, femelleID, vaccinID uint, dateVaccination string) (*domain.VaccinationFemelle, error) {
	var rec *domain.VaccinationFemelle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f domain.Femelle
		if err := tx.First(&f, femelleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var v domain.Vaccin
		if err := tx.First(&v, vaccinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		prochain, ok := dateutil.AddDaysISO(dateVaccination, v.DureeJours)
		if !ok {
			return fmt.Errorf("malformed vaccination date %q", dateVaccination)
		}
		rec = &domain.VaccinationFemelle{
			FemelleID:       femelleID,
			VaccinID:        vaccinID,
			DateVaccination: dateVaccination,
			DateProchain:    prochain,
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteVaccination removes one record, or ErrNotFound.
func (s *gormStore) DeleteVaccination(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.VaccinationFemelle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
