package services

import (
	"context"
	"testing"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
)

func newAlertSvc(t *testing.T) (*AlertService, repo.Store) {
	t.Helper()
	st := repo.NewMemoryStore()
	return &AlertService{
		Store:    st,
		Aliments: &AlimentService{Store: st},
		Now:      fixedNow("2025-06-15"),
	}, st
}

func TestVaccinationAlerts_Window(t *testing.T) {
	svc, st := newAlertSvc(t)
	ctx := context.Background()

	fid, _ := st.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})
	vid, _ := st.CreateVaccin(ctx, &domain.Vaccin{Nom: "Myxo", DureeJours: 30})

	// Due Jun 10 (overdue), Jun 20 (within 7-day window), Jun 30 (beyond).
	for _, d := range []string{"2025-05-11", "2025-05-21", "2025-05-31"} {
		if _, err := st.CreateVaccination(ctx, fid, vid, d); err != nil {
			t.Fatalf("seed shot %s: %v", d, err)
		}
	}

	overdue, err := svc.VaccinationsOverdue(ctx)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].DateProchain != "2025-06-10" {
		t.Fatalf("unexpected overdue: %+v", overdue)
	}

	soon, err := svc.VaccinationsDueSoon(ctx, 7)
	if err != nil {
		t.Fatalf("due soon: %v", err)
	}
	if len(soon) != 1 || soon[0].DateProchain != "2025-06-20" {
		t.Fatalf("unexpected due-soon: %+v", soon)
	}

	// A wider window picks up the third shot too.
	wide, err := svc.VaccinationsDueSoon(ctx, 30)
	if err != nil {
		t.Fatalf("wide window: %v", err)
	}
	if len(wide) != 2 {
		t.Fatalf("expected 2 rows in wide window, got %d", len(wide))
	}
}

func TestDailyCheck_Idempotent(t *testing.T) {
	svc, _ := newAlertSvc(t)
	ctx := context.Background()

	date, done, err := svc.DailyCheckStatus(ctx)
	if err != nil || done {
		t.Fatalf("fresh day must be unchecked: done=%v err=%v", done, err)
	}
	if date != "2025-06-15" {
		t.Fatalf("unexpected date %s", date)
	}

	if _, created, err := svc.PerformDailyCheck(ctx); err != nil || !created {
		t.Fatalf("first check: created=%v err=%v", created, err)
	}
	if _, created, err := svc.PerformDailyCheck(ctx); err != nil || created {
		t.Fatalf("repeat check must be a no-op: created=%v err=%v", created, err)
	}
	if _, done, err := svc.DailyCheckStatus(ctx); err != nil || !done {
		t.Fatalf("status after check: done=%v err=%v", done, err)
	}
}

func TestAlertStatistics(t *testing.T) {
	svc, st := newAlertSvc(t)
	ctx := context.Background()

	cid, _ := st.CreateClapet(ctx, "A1")
	if _, err := st.CreateClapet(ctx, "B2"); err != nil {
		t.Fatalf("seed cage: %v", err)
	}
	if _, err := st.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", ClapetID: &cid, Statut: domain.FemelleVivante}); err != nil {
		t.Fatalf("seed doe: %v", err)
	}

	stats, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalFemelles != 1 || stats.ClapetsRemplis != 1 || stats.ClapetsVides != 1 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
}
