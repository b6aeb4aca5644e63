package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

func uintPtr(v uint) *uint { return &v }

func TestFemelle_CreateValidation(t *testing.T) {
	svc := &FemelleService{Store: repo.NewMemoryStore()}
	ctx := context.Background()

	if _, err := svc.Create(ctx, FemelleInput{Numero: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty numero: expected ErrInvalidInput, got %v", err)
	}
	bad := "15/03/2024"
	if _, err := svc.Create(ctx, FemelleInput{Numero: "F1", DateNaissance: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad date: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, FemelleInput{Numero: "F1", Statut: "perdue"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad statut: expected ErrInvalidInput, got %v", err)
	}

	// Empty statut defaults to vivante.
	id, err := svc.Create(ctx, FemelleInput{Numero: "F1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f, err := svc.Get(ctx, id)
	if err != nil || f.Statut != domain.FemelleVivante {
		t.Fatalf("expected vivante default, got %+v (%v)", f, err)
	}
}

func TestFemelle_UnknownClapetRejected(t *testing.T) {
	svc := &FemelleService{Store: repo.NewMemoryStore()}
	ctx := context.Background()

	if _, err := svc.Create(ctx, FemelleInput{Numero: "F1", ClapetID: uintPtr(7)}); !errors.Is(err, ErrClapetNotFound) {
		t.Fatalf("create: expected ErrClapetNotFound, got %v", err)
	}
	// Nothing may be stored after the rejected create.
	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty herd, got %d rows", len(rows))
	}

	id, err := svc.Create(ctx, FemelleInput{Numero: "F1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Update(ctx, id, FemelleInput{Numero: "F1", ClapetID: uintPtr(7)}); !errors.Is(err, ErrClapetNotFound) {
		t.Fatalf("update: expected ErrClapetNotFound, got %v", err)
	}
	f, err := svc.Get(ctx, id)
	if err != nil || f.ClapetID != nil {
		t.Fatalf("expected doe untouched, got %+v (%v)", f, err)
	}
}

func TestFemelle_SetStatutKeepsOtherFields(t *testing.T) {
	st := repo.NewMemoryStore()
	svc := &FemelleService{Store: st}
	ctx := context.Background()

	cid, _ := st.CreateClapet(ctx, "C1")
	birth := "2024-03-15"
	id, err := svc.Create(ctx, FemelleInput{Numero: "F1", ClapetID: &cid, DateNaissance: &birth})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.SetStatut(ctx, id, domain.FemelleVendue); err != nil {
		t.Fatalf("set statut: %v", err)
	}
	f, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f.Statut != domain.FemelleVendue {
		t.Fatalf("statut not updated: %s", f.Statut)
	}
	if f.ClapetID == nil || *f.ClapetID != cid || f.DateNaissance == nil || *f.DateNaissance != birth {
		t.Fatalf("other fields mutated: %+v", f)
	}

	if err := svc.SetStatut(ctx, id, "perdue"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad statut: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.SetStatut(ctx, 999, domain.FemelleMorte); !errors.Is(err, ErrFemelleNotFound) {
		t.Fatalf("unknown doe: expected ErrFemelleNotFound, got %v", err)
	}
}

func TestVaccination_RecordAndHistory(t *testing.T) {
	st := repo.NewMemoryStore()
	svc := &VaccinService{Store: st}
	ctx := context.Background()

	fid, _ := st.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})
	vid, err := svc.Create(ctx, "VHD2", 365)
	if err != nil {
		t.Fatalf("create vaccin: %v", err)
	}

	if _, err := svc.Record(ctx, fid, vid, "10-01-2024"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad date: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Record(ctx, 999, vid, "2024-01-10"); !errors.Is(err, ErrFemelleNotFound) {
		t.Fatalf("unknown doe: expected ErrFemelleNotFound, got %v", err)
	}
	if _, err := svc.Record(ctx, fid, 999, "2024-01-10"); !errors.Is(err, ErrVaccinNotFound) {
		t.Fatalf("unknown vaccine: expected ErrVaccinNotFound, got %v", err)
	}

	rec, err := svc.Record(ctx, fid, vid, "2024-01-10")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.DateProchain != "2025-01-09" {
		t.Fatalf("expected 2025-01-09, got %s", rec.DateProchain)
	}

	hist, err := svc.History(ctx, fid)
	if err != nil || len(hist) != 1 {
		t.Fatalf("history: %v (%d rows)", err, len(hist))
	}
	if hist[0].VaccinNom != "VHD2" {
		t.Fatalf("vaccine name not joined: %+v", hist[0])
	}

	if _, err := svc.History(ctx, 999); !errors.Is(err, ErrFemelleNotFound) {
		t.Fatalf("unknown doe history: expected ErrFemelleNotFound, got %v", err)
	}
}

func TestClapet_CreateAndDuplicate(t *testing.T) {
	svc := &ClapetService{Store: repo.NewMemoryStore()}
	ctx := context.Background()

	if _, err := svc.Create(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty numero: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, " A1 "); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "A1"); !errors.Is(err, ErrClapetExists) {
		t.Fatalf("duplicate: expected ErrClapetExists, got %v", err)
	}
	if err := svc.Delete(ctx, 999); !errors.Is(err, ErrClapetNotFound) {
		t.Fatalf("unknown cage: expected ErrClapetNotFound, got %v", err)
	}
}
