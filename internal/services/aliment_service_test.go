package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

func seedHerd(t *testing.T, st repo.Store, living int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < living; i++ {
		if _, err := st.CreateFemelle(ctx, &domain.Femelle{
			Numero: string(rune('A' + i)),
			Statut: domain.FemelleVivante,
		}); err != nil {
			t.Fatalf("seed femelle: %v", err)
		}
	}
}

func TestAlimentList_DepletionMath(t *testing.T) {
	st := repo.NewMemoryStore()
	svc := &AlimentService{Store: st}
	ctx := context.Background()
	seedHerd(t, st, 4)

	// 4 does x 150 g = 0.60 kg/day; 25 kg lasts 41 whole days.
	if _, err := svc.Create(ctx, "Granules", 25, 150); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.ConsoJourKg != 0.6 {
		t.Fatalf("expected 0.6 kg/day, got %f", it.ConsoJourKg)
	}
	if it.JoursRestants != 41 {
		t.Fatalf("expected 41 days, got %d", it.JoursRestants)
	}
}

func TestAlimentList_UnlimitedWhenNoConsumption(t *testing.T) {
	st := repo.NewMemoryStore()
	svc := &AlimentService{Store: st}
	ctx := context.Background()

	// Stocked, but nobody eats: empty herd.
	if _, err := svc.Create(ctx, "Foin", 100, 200); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Herd present, but a zero ration.
	seedHerd(t, st, 2)
	if _, err := svc.Create(ctx, "Mineraux", 5, 0); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, it := range items {
		if it.JoursRestants != domain.JoursIllimites {
			t.Fatalf("%s: expected unlimited sentinel, got %d", it.Nom, it.JoursRestants)
		}
	}
}

func TestAliment_Validation(t *testing.T) {
	svc := &AlimentService{Store: repo.NewMemoryStore()}
	ctx := context.Background()

	if _, err := svc.Create(ctx, "  ", 10, 100); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "Granules", -1, 100); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative stock: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Update(ctx, 99, "Granules", 10, 100); !errors.Is(err, ErrAlimentNotFound) {
		t.Fatalf("unknown id: expected ErrAlimentNotFound, got %v", err)
	}
}

func TestLowStock_FiltersByThreshold(t *testing.T) {
	st := repo.NewMemoryStore()
	svc := &AlimentService{Store: st}
	ctx := context.Background()
	seedHerd(t, st, 4)

	if _, err := svc.Create(ctx, "Presque vide", 2, 150); err != nil { // ~3 days
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "Plein", 100, 150); err != nil { // ~166 days
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "Foin", 0.5, 0); err != nil { // unlimited
		t.Fatalf("create: %v", err)
	}

	low, err := svc.LowStock(ctx, 7)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 1 || low[0].Nom != "Presque vide" {
		t.Fatalf("unexpected low-stock rows: %+v", low)
	}
}
