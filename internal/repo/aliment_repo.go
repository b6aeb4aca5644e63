// Feed stock persistence for the durable backend. Depletion figures are not
// stored; the service layer computes them at read time from the living-doe
// count so they track herd changes.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// ListAliments returns all feed stocks ordered by name.
func (s *gormStore) ListAliments(ctx context.Context) ([]domain.Aliment, error) {
	var out []domain.Aliment
	err := s.db.WithContext(ctx).Order("nom").Find(&out).Error
	return out, err
}

// GetAliment fetches one feed stock, or ErrNotFound.
func (s *gormStore) GetAliment(ctx context.Context, id uint) (*domain.Aliment, error) {
	var a domain.Aliment
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreateAliment inserts a new feed stock and returns its id.
func (s *gormStore) CreateAliment(ctx context.Context, a *domain.Aliment) (uint, error) {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

// UpdateAliment rewrites name, stock and per-animal consumption.
// ErrNotFound when the id does not exist.
func (s *gormStore) UpdateAliment(ctx context.Context, a *domain.Aliment) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Aliment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"nom":            a.Nom,
			"stock_kg":       a.StockKg,
			"consommation_g": a.ConsommationG,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAliment removes one feed stock, or ErrNotFound.
func (s *gormStore) DeleteAliment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Aliment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
