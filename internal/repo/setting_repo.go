// Key/value settings persistence for the durable backend.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// GetSetting returns the value stored under key, or ErrNotFound.
func (s *gormStore) GetSetting(ctx context.Context, key string) (string, error) {
	var st domain.Setting
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return st.Value, nil
}

// PutSetting upserts a key/value pair.
func (s *gormStore) PutSetting(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Setting{}).Where("key = ?", key).Update("value", value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(&domain.Setting{Key: key, Value: value}).Error
		}
		return nil
	})
}
