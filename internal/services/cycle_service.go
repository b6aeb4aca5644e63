// Package services – CycleService
//
// This file implements the CycleService, the reproduction state machine.
// A cycle starts at a mating (SAILLIE), moves to GESTANTE or ECHEC at the
// palpation check, to ALLAITANTE when the birth is confirmed, and ends in
// TERMINE or ECHEC. A doe has at most one cycle in a non-terminal status at
// any time. Expected dates are derived once, at the transition that anchors
// them: mise-bas prevue = saillie + 31 days, sevrage prevue = birth + 35 days.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lapinos/go-rabbitry-backend/internal/dateutil"
	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

// Biological constants of the rabbit, in days.
const (
	GestationJours = 31
	SevrageJours   = 35

	// Lactation window boundaries, counted from the birth date.
	segControleFin     = 11
	segVerificationFin = 21
)

// CycleService implements the reproduction use-cases.
type CycleService struct {
	Store repo.Store

	// Now supplies the current time for day-count derivations; tests
	// override it. Nil means time.Now.
	Now func() time.Time
}

func (s *CycleService) today() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start opens a cycle for femelleID anchored at the mating date.
//
// The expected birth date is derived immediately (saillie + 31 days). A doe
// with a cycle still in progress yields ErrCycleActive; an unknown doe
// yields ErrFemelleNotFound.
func (s *CycleService) Start(ctx context.Context, femelleID uint, dateSaillie string) (*domain.CycleReproduction, error) {
	if !dateutil.ValidISO(dateSaillie) {
		return nil, fmt.Errorf("%w: date_saillie must be YYYY-MM-DD", ErrInvalidInput)
	}
	active, err := s.Store.ActiveCycle(ctx, femelleID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrCycleActive
	}
	prevue, _ := dateutil.AddDaysISO(dateSaillie, GestationJours)
	c := &domain.CycleReproduction{
		FemelleID:         femelleID,
		DateSaillie:       dateSaillie,
		DateMiseBasPrevue: prevue,
		Statut:            domain.CycleSaillie,
	}
	id, err := s.Store.CreateCycle(ctx, c)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFemelleNotFound
		}
		return nil, err
	}
	c.ID = id
	return c, nil
}

// VerifyGestation records the palpation result for a cycle in SAILLIE.
//
// pregnant moves the cycle to GESTANTE, otherwise to ECHEC; either way the
// verification date is recorded. Any other starting status yields
// ErrInvalidTransition.
func (s *CycleService) VerifyGestation(ctx context.Context, cycleID uint, dateVerification string, pregnant bool) (*domain.CycleReproduction, error) {
	if !dateutil.ValidISO(dateVerification) {
		return nil, fmt.Errorf("%w: date_verification must be YYYY-MM-DD", ErrInvalidInput)
	}
	c, err := s.getCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if c.Statut != domain.CycleSaillie {
		return nil, ErrInvalidTransition
	}
	c.DateVerification = &dateVerification
	if pregnant {
		c.Statut = domain.CycleGestante
	} else {
		c.Statut = domain.CycleEchec
	}
	if err := s.Store.UpdateCycle(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ConfirmBirth records the actual birth for a cycle in GESTANTE. A cycle
// still in SAILLIE is tolerated: the palpation step can be skipped on small
// farms. Litter counts must not be negative; the expected weaning date is
// derived from the actual birth date (+ 35 days) and the cycle moves to
// ALLAITANTE. Terminal cycles and cycles already nursing yield
// ErrInvalidTransition with no mutation.
func (s *CycleService) ConfirmBirth(ctx context.Context, cycleID uint, dateMiseBas string, vivants, morts int) (*domain.CycleReproduction, error) {
	if !dateutil.ValidISO(dateMiseBas) {
		return nil, fmt.Errorf("%w: date_mise_bas must be YYYY-MM-DD", ErrInvalidInput)
	}
	if vivants < 0 || morts < 0 {
		return nil, fmt.Errorf("%w: litter counts must not be negative", ErrInvalidInput)
	}
	c, err := s.getCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if c.Statut != domain.CycleGestante && c.Statut != domain.CycleSaillie {
		return nil, ErrInvalidTransition
	}
	sevrage, _ := dateutil.AddDaysISO(dateMiseBas, SevrageJours)
	c.DateMiseBasReelle = &dateMiseBas
	c.NombreVivants = &vivants
	c.NombreMorts = &morts
	c.DateSevragePrevue = &sevrage
	c.Statut = domain.CycleAllaitante
	if err := s.Store.UpdateCycle(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Stop closes a non-terminal cycle. success selects TERMINE (the normal end,
// typically at weaning) over ECHEC (lost litter, abandoned cycle). A cycle
// already terminal yields ErrInvalidTransition.
func (s *CycleService) Stop(ctx context.Context, cycleID uint, success bool) (*domain.CycleReproduction, error) {
	c, err := s.getCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if domain.CycleTerminal(c.Statut) {
		return nil, ErrInvalidTransition
	}
	if success {
		c.Statut = domain.CycleTermine
	} else {
		c.Statut = domain.CycleEchec
	}
	if err := s.Store.UpdateCycle(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// History returns every cycle of one doe, most recent first.
func (s *CycleService) History(ctx context.Context, femelleID uint) ([]domain.CycleReproduction, error) {
	if _, err := s.Store.GetFemelle(ctx, femelleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFemelleNotFound
		}
		return nil, err
	}
	return s.Store.ListCyclesByFemelle(ctx, femelleID)
}

func (s *CycleService) getCycle(ctx context.Context, id uint) (*domain.CycleReproduction, error) {
	c, err := s.Store.GetCycle(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return c, nil
}

// GestationProgress reports how far a pregnancy has advanced as a ratio in
// [0, 1] between the mating date and the expected birth date.
func GestationProgress(today time.Time, c *domain.CycleReproduction) float64 {
	return dateutil.Progress(today, c.DateSaillie, c.DateMiseBasPrevue)
}

// LactationProgress reports how far the nursing window has advanced as a
// ratio in [0, 1] between the actual birth date and the expected weaning
// date. A cycle without a recorded birth reports 0.
func LactationProgress(today time.Time, c *domain.CycleReproduction) float64 {
	if c.DateMiseBasReelle == nil || c.DateSevragePrevue == nil {
		return 0
	}
	return dateutil.Progress(today, *c.DateMiseBasReelle, *c.DateSevragePrevue)
}

// LactationSegments splits the nursing window into the three husbandry
// phases counted from the birth date: mate-check days [0, 11), nest
// verification [11, 21), weaning preparation [21, 35]. Each segment is
// tagged future, in-progress or complete relative to today.
func LactationSegments(today time.Time, c *domain.CycleReproduction) []domain.CycleSegment {
	if c.DateMiseBasReelle == nil {
		return nil
	}
	until := dateutil.DaysUntil(today, *c.DateMiseBasReelle)
	if until == nil {
		return nil
	}
	day := -*until

	segs := []domain.CycleSegment{
		{Nom: "controle", DebutJour: 0, FinJour: segControleFin},
		{Nom: "verification", DebutJour: segControleFin, FinJour: segVerificationFin},
		{Nom: "sevrage", DebutJour: segVerificationFin, FinJour: SevrageJours},
	}
	for i := range segs {
		switch {
		case day < segs[i].DebutJour:
			segs[i].Etat = domain.SegmentFuture
		case day >= segs[i].FinJour:
			segs[i].Etat = domain.SegmentComplete
		default:
			segs[i].Etat = domain.SegmentInProgress
		}
	}
	// The last segment is inclusive of its end day.
	if day == SevrageJours {
		segs[2].Etat = domain.SegmentInProgress
	}
	return segs
}

// FemelleStatuses builds the dashboard summary for every doe: her joined
// infos, the due class of her next vaccination, the active cycle if any,
// and the derived progress, remaining days and lactation segments the
// dashboard displays.
func (s *CycleService) FemelleStatuses(ctx context.Context) ([]domain.FemelleStatus, error) {
	femelles, err := s.Store.ListFemelles(ctx)
	if err != nil {
		return nil, err
	}
	now := s.today()
	out := make([]domain.FemelleStatus, 0, len(femelles))
	for _, f := range femelles {
		st := domain.FemelleStatus{FemelleWithInfos: f, Statut: "repos"}
		prochain := ""
		if f.ProchainVaccin != nil {
			prochain = *f.ProchainVaccin
		}
		st.VaccinEtat = string(dateutil.ClassifyDue(now, prochain, dateutil.DefaultAlertDays))
		cycle, err := s.Store.ActiveCycle(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		if cycle != nil {
			st.Cycle = cycle
			st.Statut = cycle.Statut
			switch cycle.Statut {
			case domain.CycleSaillie, domain.CycleGestante:
				st.Progress = GestationProgress(now, cycle)
				st.JoursRestants = dateutil.DaysUntil(now, cycle.DateMiseBasPrevue)
			case domain.CycleAllaitante:
				st.Progress = LactationProgress(now, cycle)
				if cycle.DateSevragePrevue != nil {
					st.JoursRestants = dateutil.DaysUntil(now, *cycle.DateSevragePrevue)
				}
				st.Segments = LactationSegments(now, cycle)
			}
		}
		out = append(out, st)
	}
	return out, nil
}
