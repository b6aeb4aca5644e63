// Vaccine type persistence for the durable backend.
//
// Editing a vaccine's validity interval only affects vaccinations recorded
// afterwards; existing records keep the due date derived at insert time.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// ListVaccins returns all vaccine types ordered by name.
func (s *gormStore) ListVaccins(ctx context.Context) ([]domain.Vaccin, error) {
	var out []domain.Vaccin
	err := s.db.WithContext(ctx).Order("nom").Find(&out).Error
	return out, err
}

// GetVaccin fetches one vaccine type, or ErrNotFound.
func (s *gormStore) GetVaccin(ctx context.Context, id uint) (*domain.Vaccin, error) {
	var v domain.Vaccin
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CreateVaccin inserts a new vaccine type and returns its id.
func (s *gormStore) CreateVaccin(ctx context.Context, v *domain.Vaccin) (uint, error) {
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return 0, err
	}
	return v.ID, nil
}

// UpdateVaccin rewrites name and validity interval. ErrNotFound when the id
// does not exist. Already recorded vaccinations are untouched.
func (s *gormStore) UpdateVaccin(ctx context.Context, v *domain.Vaccin) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Vaccin{}).
		Where("id = ?", v.ID).
		Updates(map[string]any{"nom": v.Nom, "duree_jours": v.DureeJours})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVaccin removes a vaccine type together with its vaccination records.
func (s *gormStore) DeleteVaccin(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v domain.Vaccin
		if err := tx.First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("vaccin_id = ?", id).Delete(&domain.VaccinationFemelle{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Vaccin{}, id).Error
	})
}
