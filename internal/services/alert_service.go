// Package services – AlertService
//
// This file implements the AlertService, the read-only farm watchtower: it
// surfaces overdue and soon-due vaccinations for the living herd, feed items
// close to depletion, herd statistics and the daily husbandry check. All
// alert rows are computed at read time; nothing is stored except the daily
// check marker.
package services

import (
	"context"
	"time"

	"github.com/lapinos/go-rabbitry-backend/internal/dateutil"
	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

// AlertService implements the alerting use-cases.
type AlertService struct {
	Store repo.Store

	// Aliments computes the feed depletion projection; alerts reuse it so
	// both surfaces agree on the math.
	Aliments *AlimentService

	// Now supplies the current time; tests override it. Nil means time.Now.
	Now func() time.Time
}

func (s *AlertService) today() string {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return dateutil.FormatISO(now)
}

// VaccinationsOverdue returns the vaccinations of living does whose due date
// is strictly before today, oldest first.
func (s *AlertService) VaccinationsOverdue(ctx context.Context) ([]domain.VaccinationAlerte, error) {
	return s.Store.OverdueVaccinations(ctx, s.today())
}

// VaccinationsDueSoon returns the vaccinations of living does due within the
// next windowDays, today included.
func (s *AlertService) VaccinationsDueSoon(ctx context.Context, windowDays int) ([]domain.VaccinationAlerte, error) {
	if windowDays <= 0 {
		windowDays = dateutil.DefaultAlertDays
	}
	from := s.today()
	to, _ := dateutil.AddDaysISO(from, windowDays)
	return s.Store.UpcomingVaccinations(ctx, from, to)
}

// FeedLow returns the feed items projected to run out within thresholdDays.
func (s *AlertService) FeedLow(ctx context.Context, thresholdDays int) ([]domain.AlimentWithJours, error) {
	if thresholdDays <= 0 {
		thresholdDays = dateutil.DefaultAlertDays
	}
	return s.Aliments.LowStock(ctx, thresholdDays)
}

// Statistics returns the dashboard counters: living does, occupied cages
// and empty cages.
func (s *AlertService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return s.Store.Statistics(ctx)
}

// DailyCheckStatus reports whether the husbandry round has been recorded
// for today.
func (s *AlertService) DailyCheckStatus(ctx context.Context) (string, bool, error) {
	date := s.today()
	done, err := s.Store.DailyCheckDone(ctx, date)
	return date, done, err
}

// PerformDailyCheck records today's husbandry round. The operation is
// idempotent: repeating it on the same day reports created=false and leaves
// the marker untouched.
func (s *AlertService) PerformDailyCheck(ctx context.Context) (string, bool, error) {
	date := s.today()
	created, err := s.Store.EnsureDailyCheck(ctx, date)
	return date, created, err
}
