// Package scheduler runs the daily husbandry reminder. A cron job fires at
// the configured wall-clock time (the daily_time setting, "H:MM"), gathers
// the farm's pending work — overdue and soon-due vaccinations, feed close to
// depletion, whether today's round is already recorded — and hands the
// summary to a notifier. The default notifier logs it; a push or messaging
// integration can be plugged in without touching the scheduling.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/lapinos/go-rabbitry-backend/internal/services"
)

// Summary is the payload handed to the notifier when the reminder fires.
type Summary struct {
	Date                string
	VaccinationsOverdue int
	VaccinationsDueSoon int
	AlimentsLow         int
	DailyCheckDone      bool
}

// Notifier receives the daily summary. Implementations must not block for
// long; the scheduler calls them on the cron goroutine.
type Notifier func(ctx context.Context, s Summary)

// Scheduler manages the daily reminder job.
type Scheduler struct {
	cron     *cron.Cron
	alerts   *services.AlertService
	settings *services.SettingService
	notify   Notifier
	logger   zerolog.Logger

	windowDays int
	feedDays   int

	mu    sync.Mutex
	entry cron.EntryID
}

// New creates a scheduler. windowDays is the due-soon horizon for
// vaccinations, feedDays the depletion horizon for feed stock. A nil
// notifier falls back to logging the summary.
func New(alerts *services.AlertService, settings *services.SettingService, windowDays, feedDays int, notify Notifier, logger zerolog.Logger) *Scheduler {
	s := &Scheduler{
		cron:       cron.New(),
		alerts:     alerts,
		settings:   settings,
		notify:     notify,
		logger:     logger,
		windowDays: windowDays,
		feedDays:   feedDays,
	}
	if s.notify == nil {
		s.notify = s.logSummary
	}
	return s
}

// CronSpec converts an "H:MM" clock time into a standard five-field cron
// expression firing daily at that time.
func CronSpec(dailyTime string) (string, error) {
	if !services.ValidDailyTime(dailyTime) {
		return "", fmt.Errorf("invalid daily time %q", dailyTime)
	}
	h, m, _ := strings.Cut(dailyTime, ":")
	hv, _ := strconv.Atoi(h)
	mv, _ := strconv.Atoi(m)
	return fmt.Sprintf("%d %d * * *", mv, hv), nil
}

// Start reads the stored reminder time (falling back to the default) and
// schedules the daily job.
func (s *Scheduler) Start(ctx context.Context) error {
	dailyTime, err := s.settings.Get(ctx, services.SettingDailyTime)
	if err != nil {
		dailyTime = services.DefaultDailyTime
	}
	if err := s.Reschedule(dailyTime); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("daily_time", dailyTime).Msg("scheduler started")
	return nil
}

// Reschedule replaces the reminder job with one firing at the new time. It
// is safe to call while the scheduler is running, e.g. from the settings
// change hook.
func (s *Scheduler) Reschedule(dailyTime string) error {
	spec, err := CronSpec(dailyTime)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	id, err := s.cron.AddFunc(spec, s.fire)
	if err != nil {
		return err
	}
	s.entry = id
	return nil
}

// Stop stops the cron loop. Running jobs finish; none start afterwards.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

// fire assembles the summary and hands it to the notifier.
func (s *Scheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sum, err := s.BuildSummary(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("daily reminder failed")
		return
	}
	s.notify(ctx, sum)
}

// BuildSummary gathers the pending husbandry work for today.
func (s *Scheduler) BuildSummary(ctx context.Context) (Summary, error) {
	overdue, err := s.alerts.VaccinationsOverdue(ctx)
	if err != nil {
		return Summary{}, err
	}
	soon, err := s.alerts.VaccinationsDueSoon(ctx, s.windowDays)
	if err != nil {
		return Summary{}, err
	}
	low, err := s.alerts.FeedLow(ctx, s.feedDays)
	if err != nil {
		return Summary{}, err
	}
	date, done, err := s.alerts.DailyCheckStatus(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Date:                date,
		VaccinationsOverdue: len(overdue),
		VaccinationsDueSoon: len(soon),
		AlimentsLow:         len(low),
		DailyCheckDone:      done,
	}, nil
}

func (s *Scheduler) logSummary(_ context.Context, sum Summary) {
	s.logger.Info().
		Str("date", sum.Date).
		Int("vaccinations_overdue", sum.VaccinationsOverdue).
		Int("vaccinations_due_soon", sum.VaccinationsDueSoon).
		Int("aliments_low", sum.AlimentsLow).
		Bool("daily_check_done", sum.DailyCheckDone).
		Msg("daily husbandry reminder")
}
