// Package services – VaccinService
//
// This file implements the VaccinService, which manages the vaccine catalog
// and the per-doe vaccination records. A vaccine carries a validity interval
// in days; recording a shot derives the next due date from that interval at
// insert time, so later edits to the catalog never rewrite history.
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

// VaccinService implements the use-cases around vaccines and vaccinations.
type VaccinService struct {
	Store repo.Store
}

func validateVaccin(nom string, dureeJours int) (string, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return "", fmt.Errorf("%w: nom is required", ErrInvalidInput)
	}
	if dureeJours <= 0 {
		return "", fmt.Errorf("%w: duree_jours must be positive", ErrInvalidInput)
	}
	return nom, nil
}

// List returns the vaccine catalog sorted by name.
func (s *VaccinService) List(ctx context.Context) ([]domain.Vaccin, error) {
	return s.Store.ListVaccins(ctx)
}

// Create adds a vaccine to the catalog.
func (s *VaccinService) Create(ctx context.Context, nom string, dureeJours int) (uint, error) {
	nom, err := validateVaccin(nom, dureeJours)
	if err != nil {
		return 0, err
	}
	return s.Store.CreateVaccin(ctx, &domain.Vaccin{Nom: nom, DureeJours: dureeJours})
}

// Update rewrites a catalog entry. Existing vaccination records keep the
// due dates computed when they were recorded.
func (s *VaccinService) Update(ctx context.Context, id uint, nom string, dureeJours int) error {
	nom, err := validateVaccin(nom, dureeJours)
	if err != nil {
		return err
	}
	err = s.Store.UpdateVaccin(ctx, &domain.Vaccin{ID: id, Nom: nom, DureeJours: dureeJours})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrVaccinNotFound
	}
	return err
}

// Delete removes a vaccine and every vaccination record referencing it.
func (s *VaccinService) Delete(ctx context.Context, id uint) error {
	if err := s.Store.DeleteVaccin(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrVaccinNotFound
		}
		return err
	}
	return nil
}

// History returns the vaccination records of one doe, most recent first,
// with the vaccine name joined in.
func (s *VaccinService) History(ctx context.Context, femelleID uint) ([]domain.VaccinationWithVaccin, error) {
	if _, err := s.Store.GetFemelle(ctx, femelleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFemelleNotFound
		}
		return nil, err
	}
	return s.Store.ListVaccinationsByFemelle(ctx, femelleID)
}

// Record registers a shot given to a doe on dateVaccination and derives the
// next due date from the vaccine's current validity interval. The insert and
// the derivation are atomic: when the doe or the vaccine is unknown nothing
// is written.
func (s *VaccinService) Record(ctx context.Context, femelleID, vaccinID uint, dateVaccination string) (*domain.VaccinationFemelle, error) {
	if !dateutil.ValidISO(dateVaccination) {
		return nil, fmt.Errorf("%w: date_vaccination must be YYYY-MM-DD", ErrInvalidInput)
	}
	rec, err := s.Store.CreateVaccination(ctx, femelleID, vaccinID, dateVaccination)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// The store reports which side is missing only through the
			// message; check the doe to tell the two apart.
			if _, ferr := s.Store.GetFemelle(ctx, femelleID); errors.Is(ferr, repo.ErrNotFound) {
				return nil, ErrFemelleNotFound
			}
			return nil, ErrVaccinNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Unrecord deletes one vaccination record.
func (s *VaccinService) Unrecord(ctx context.Context, id uint) error {
	if err := s.Store.DeleteVaccination(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrVaccinationNotFound
		}
		return err
	}
	return nil
}
