// Daily husbandry check persistence for the durable backend. One row per
// calendar date, created insert-if-absent so repeated calls for the same
// day stay idempotent.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// EnsureDailyCheck marks the date's husbandry round done, inserting at most
// one row per date. Returns true when a row was created, false when the
// date was already marked.
func (s *gormStore) EnsureDailyCheck(ctx context.Context, date string) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.DailyCheck
		err := tx.Where("date = ?", date).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&domain.DailyCheck{Date: date, Statut: "done"}).Error; err != nil {
			// The unique index on date backstops a concurrent insert.
			if isDuplicate(err) {
				return nil
			}
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// DailyCheckDone reports whether the date's husbandry round was marked done.
func (s *gormStore) DailyCheckDone(ctx context.Context, date string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&domain.DailyCheck{}).
		Where("date = ?", date).
		Count(&n).Error
	return n > 0, err
}
