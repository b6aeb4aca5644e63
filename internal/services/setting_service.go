// Package services – SettingService
//
// Key-value farm preferences. The only key with dedicated semantics today is
// daily_time, the wall-clock time of the daily husbandry reminder, validated
// as 24-hour "H:MM". Unknown keys are stored verbatim so the client can keep
// its own preferences without a schema change.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

// SettingDailyTime is the reminder-time key; its value is "H:MM" 24-hour.
const SettingDailyTime = "daily_time"

// DefaultDailyTime is used when no reminder time has been stored yet.
const DefaultDailyTime = "9:00"

// SettingService implements the preference use-cases.
type SettingService struct {
	Store repo.Store

	// OnDailyTimeChange, when set, is invoked after the reminder time is
	// stored so the scheduler can pick it up without a restart.
	OnDailyTimeChange func(value string)
}

// ValidDailyTime reports whether v is a 24-hour "H:MM" clock time, with one
// or two hour digits and exactly two minute digits.
func ValidDailyTime(v string) bool {
	h, m, ok := strings.Cut(v, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return false
	}
	hv, err := strconv.Atoi(h)
	if err != nil || hv < 0 || hv > 23 {
		return false
	}
	mv, err := strconv.Atoi(m)
	if err != nil || mv < 0 || mv > 59 {
		return false
	}
	return true
}

// Get returns the stored value for key; the daily_time key falls back to
// its default instead of reporting absence.
func (s *SettingService) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Store.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			if key == SettingDailyTime {
				return DefaultDailyTime, nil
			}
			return "", repo.ErrNotFound
		}
		return "", err
	}
	return v, nil
}

// Set stores value under key, creating or overwriting as needed. The
// daily_time key is validated and, once stored, propagated to the
// scheduler hook.
func (s *SettingService) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidInput)
	}
	if key == SettingDailyTime && !ValidDailyTime(value) {
		return fmt.Errorf("%w: daily_time must be H:MM 24-hour", ErrInvalidInput)
	}
	if err := s.Store.PutSetting(ctx, key, value); err != nil {
		return err
	}
	if key == SettingDailyTime && s.OnDailyTimeChange != nil {
		s.OnDailyTimeChange(value)
	}
	return nil
}
