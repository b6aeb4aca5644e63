// Package services – AlimentService
//
// This file implements the AlimentService, which manages the feed stock and
// its depletion projection. Each feed item carries a stock in kilograms and a
// per-doe daily ration in grams; the projection divides the stock by the
// herd-wide daily consumption to estimate how many whole days remain.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

// AlimentService implements the use-cases around feed stock.
type AlimentService struct {
	Store repo.Store
}

func validateAliment(nom string, stockKg, consoG float64) (string, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return "", fmt.Errorf("%w: nom is required", ErrInvalidInput)
	}
	if stockKg < 0 {
		return "", fmt.Errorf("%w: stock_kg must not be negative", ErrInvalidInput)
	}
	if consoG < 0 {
		return "", fmt.Errorf("%w: consommation_g must not be negative", ErrInvalidInput)
	}
	return nom, nil
}

// joursRestants projects the days of stock left for one item given the
// number of living does. Zero consumption or an empty herd means the stock
// never depletes, reported as the JoursIllimites sentinel.
func joursRestants(a domain.Aliment, vivantes int64) (consoJourKg float64, jours int) {
	consoJourKg = float64(vivantes) * a.ConsommationG / 1000
	if consoJourKg <= 0 {
		return 0, domain.JoursIllimites
	}
	return consoJourKg, int(math.Floor(a.StockKg / consoJourKg))
}

// List returns every feed item with its projected daily consumption and
// remaining days, both computed against the current living herd.
func (s *AlimentService) List(ctx context.Context) ([]domain.AlimentWithJours, error) {
	items, err := s.Store.ListAliments(ctx)
	if err != nil {
		return nil, err
	}
	vivantes, err := s.Store.CountFemellesVivantes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AlimentWithJours, 0, len(items))
	for _, a := range items {
		conso, jours := joursRestants(a, vivantes)
		out = append(out, domain.AlimentWithJours{
			Aliment:       a,
			ConsoJourKg:   conso,
			JoursRestants: jours,
		})
	}
	return out, nil
}

// Create adds a feed item.
func (s *AlimentService) Create(ctx context.Context, nom string, stockKg, consoG float64) (uint, error) {
	nom, err := validateAliment(nom, stockKg, consoG)
	if err != nil {
		return 0, err
	}
	return s.Store.CreateAliment(ctx, &domain.Aliment{Nom: nom, StockKg: stockKg, ConsommationG: consoG})
}

// Update rewrites a feed item.
func (s *AlimentService) Update(ctx context.Context, id uint, nom string, stockKg, consoG float64) error {
	nom, err := validateAliment(nom, stockKg, consoG)
	if err != nil {
		return err
	}
	err = s.Store.UpdateAliment(ctx, &domain.Aliment{ID: id, Nom: nom, StockKg: stockKg, ConsommationG: consoG})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAlimentNotFound
	}
	return err
}

// Delete removes a feed item.
func (s *AlimentService) Delete(ctx context.Context, id uint) error {
	if err := s.Store.DeleteAliment(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAlimentNotFound
		}
		return err
	}
	return nil
}

// LowStock returns the items whose projected depletion is within
// thresholdDays. Items with unlimited runway never qualify.
func (s *AlimentService) LowStock(ctx context.Context, thresholdDays int) ([]domain.AlimentWithJours, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	low := items[:0:0]
	for _, it := range items {
		if it.JoursRestants != domain.JoursIllimites && it.JoursRestants <= thresholdDays {
			low = append(low, it)
		}
	}
	return low, nil
}
