// Cage persistence for the durable backend.
//
// Cage reads always join the living occupant so list screens can show which
// cages are taken without a second query. Deleting a cage frees its
// occupant (the doe's cage reference is nulled inside the same transaction)
// and never touches the doe record itself.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// ListClapets returns all cages ordered by number, each joined with the
// number of the living doe occupying it (nil when empty).
func (s *gormStore) ListClapets(ctx context.Context) ([]domain.ClapetWithFemelle, error) {
	var out []domain.ClapetWithFemelle
	err := s.db.WithContext(ctx).
		Table("clapets AS c").
		Select("c.id, c.numero, f.numero AS femelle_numero").
		Joins("LEFT JOIN femelles f ON f.clapet_id = c.id AND f.statut = ?", domain.FemelleVivante).
		Order("c.numero").
		Scan(&out).Error
	return out, err
}

// GetClapet returns one cage, or ErrNotFound.
func (s *gormStore) GetClapet(ctx context.Context, id uint) (*domain.Clapet, error) {
	var c domain.Clapet
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateClapet inserts a new cage. A duplicate number yields ErrDuplicate.
func (s *gormStore) CreateClapet(ctx context.Context, numero string) (uint, error) {
	c := &domain.Clapet{Numero: numero}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return c.ID, nil
}

// DeleteClapet removes a cage, nulling the cage reference of any doe housed
// in it within the same transaction. Missing cages yield ErrNotFound.
func (s *gormStore) DeleteClapet(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Clapet
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&domain.Femelle{}).
			Where("clapet_id = ?", id).
			Update("clapet_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Clapet{}, id).Error
	})
}
