// Package services – FemelleService
//
// This file implements the FemelleService, which manages the breeding does.
// A doe always carries a number and a life status (vivante, vendue, morte);
// the cage assignment and the birth date are optional. Deleting a doe also
// removes her vaccination and reproduction history.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lapinos/go-rabbitry-backend/internal/dateutil"
	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

// FemelleService implements the use-cases around does.
type FemelleService struct {
	Store repo.Store
}

// FemelleInput carries the writable fields of a doe. ClapetID and
// DateNaissance are optional; a nil value clears the field on update.
type FemelleInput struct {
	Numero        string
	ClapetID      *uint
	DateNaissance *string
	Statut        string
}

func (s *FemelleService) validate(in *FemelleInput) error {
	in.Numero = strings.TrimSpace(in.Numero)
	if in.Numero == "" {
		return fmt.Errorf("%w: numero is required", ErrInvalidInput)
	}
	if in.Statut == "" {
		in.Statut = domain.FemelleVivante
	}
	switch in.Statut {
	case domain.FemelleVivante, domain.FemelleVendue, domain.FemelleMorte:
	default:
		return fmt.Errorf("%w: unknown statut %q", ErrInvalidInput, in.Statut)
	}
	if in.DateNaissance != nil && !dateutil.ValidISO(*in.DateNaissance) {
		return fmt.Errorf("%w: date_naissance must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

// checkClapet resolves the cage reference before the doe is written, so the
// caller gets ErrClapetNotFound instead of a late constraint failure.
func (s *FemelleService) checkClapet(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.Store.GetClapet(ctx, *id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrClapetNotFound
		}
		return err
	}
	return nil
}

// List returns every doe sorted by number, with the cage number and the
// latest / next vaccination dates joined in.
func (s *FemelleService) List(ctx context.Context) ([]domain.FemelleWithInfos, error) {
	return s.Store.ListFemelles(ctx)
}

// Get returns one doe with its joined infos, or ErrFemelleNotFound.
func (s *FemelleService) Get(ctx context.Context, id uint) (*domain.FemelleWithInfos, error) {
	f, err := s.Store.GetFemelle(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFemelleNotFound
		}
		return nil, err
	}
	return f, nil
}

// Create registers a new doe. An empty statut defaults to vivante; a cage
// reference that does not resolve yields ErrClapetNotFound.
func (s *FemelleService) Create(ctx context.Context, in FemelleInput) (uint, error) {
	if err := s.validate(&in); err != nil {
		return 0, err
	}
	if err := s.checkClapet(ctx, in.ClapetID); err != nil {
		return 0, err
	}
	return s.Store.CreateFemelle(ctx, &domain.Femelle{
		Numero:        in.Numero,
		ClapetID:      in.ClapetID,
		DateNaissance: in.DateNaissance,
		Statut:        in.Statut,
	})
}

// Update rewrites the writable fields of an existing doe. A cage reference
// that does not resolve yields ErrClapetNotFound.
func (s *FemelleService) Update(ctx context.Context, id uint, in FemelleInput) error {
	if err := s.validate(&in); err != nil {
		return err
	}
	if err := s.checkClapet(ctx, in.ClapetID); err != nil {
		return err
	}
	err := s.Store.UpdateFemelle(ctx, &domain.Femelle{
		ID:            id,
		Numero:        in.Numero,
		ClapetID:      in.ClapetID,
		DateNaissance: in.DateNaissance,
		Statut:        in.Statut,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrFemelleNotFound
	}
	return err
}

// SetStatut changes only the life status of a doe, keeping every other
// field as stored. Marking a doe vendue or morte removes her from the
// living herd used by alerts and feed projections.
func (s *FemelleService) SetStatut(ctx context.Context, id uint, statut string) error {
	switch statut {
	case domain.FemelleVivante, domain.FemelleVendue, domain.FemelleMorte:
	default:
		return fmt.Errorf("%w: unknown statut %q", ErrInvalidInput, statut)
	}
	f, err := s.Store.GetFemelle(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFemelleNotFound
		}
		return err
	}
	f.Statut = statut
	err = s.Store.UpdateFemelle(ctx, &f.Femelle)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrFemelleNotFound
	}
	return err
}

// Delete removes a doe together with her vaccination records and
// reproduction cycles.
func (s *FemelleService) Delete(ctx context.Context, id uint) error {
	if err := s.Store.DeleteFemelle(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFemelleNotFound
		}
		return err
	}
	return nil
}
