// Package services – ClapetService
//
// This file implements the ClapetService, which governs the cage inventory.
// Cage numbers are free-form labels ("A1", "12") but must be non-empty and
// unique; deleting a cage frees its occupant without touching the doe record.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

// ClapetService implements the use-cases around cages.
type ClapetService struct {
	Store repo.Store
}

// List returns every cage sorted by number, each row carrying the number of
// the living doe housed there (nil when the cage is empty or its occupant is
// no longer part of the living herd).
func (s *ClapetService) List(ctx context.Context) ([]domain.ClapetWithFemelle, error) {
	return s.Store.ListClapets(ctx)
}

// Create registers a new cage under the given number.
//
// The number is trimmed before validation; an empty result yields
// ErrInvalidInput and a number already in use yields ErrClapetExists.
func (s *ClapetService) Create(ctx context.Context, numero string) (uint, error) {
	numero = strings.TrimSpace(numero)
	if numero == "" {
		return 0, fmt.Errorf("%w: numero is required", ErrInvalidInput)
	}
	id, err := s.Store.CreateClapet(ctx, numero)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return 0, ErrClapetExists
		}
		return 0, err
	}
	return id, nil
}

// Delete removes a cage. Any doe housed in it keeps its record and simply
// becomes homeless. Returns ErrClapetNotFound for an unknown id.
func (s *ClapetService) Delete(ctx context.Context, id uint) error {
	if err := s.Store.DeleteClapet(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrClapetNotFound
		}
		return err
	}
	return nil
}
