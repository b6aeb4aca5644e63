package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// backends returns both Store implementations so every scenario below runs
// against the durable and the in-memory engine with identical expectations.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	gs := NewGormStore(db)
	if err := gs.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return map[string]Store{
		"sqlite": gs,
		"memory": NewMemoryStore(),
	}
}

func uintPtr(v uint) *uint { return &v }
func strPtr(v string) *string { return &v }

func TestClapet_DuplicateNumero(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.CreateClapet(ctx, "C1"); err != nil {
				t.Fatalf("create: %v", err)
			}
			if _, err := s.CreateClapet(ctx, "C1"); !errors.Is(err, ErrDuplicate) {
				t.Fatalf("expected ErrDuplicate, got %v", err)
			}
		})
	}
}

func TestDeleteClapet_FreesOccupantAndKeepsDoe(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cid, err := s.CreateClapet(ctx, "C1")
			if err != nil {
				t.Fatalf("create clapet: %v", err)
			}
			fid, err := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", ClapetID: uintPtr(cid), Statut: domain.FemelleVivante})
			if err != nil {
				t.Fatalf("create femelle: %v", err)
			}

			if err := s.DeleteClapet(ctx, cid); err != nil {
				t.Fatalf("delete clapet: %v", err)
			}

			f, err := s.GetFemelle(ctx, fid)
			if err != nil {
				t.Fatalf("doe must survive cage deletion: %v", err)
			}
			if f.ClapetID != nil {
				t.Fatalf("cage reference not nulled: %v", *f.ClapetID)
			}
			if f.Numero != "F1" || f.Statut != domain.FemelleVivante {
				t.Fatalf("doe mutated beyond cage reference: %+v", f)
			}

			if err := s.DeleteClapet(ctx, cid); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestListClapets_OccupantOnlyWhenLiving(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c1, _ := s.CreateClapet(ctx, "A1")
			c2, _ := s.CreateClapet(ctx, "B2")
			if _, err := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", ClapetID: uintPtr(c1), Statut: domain.FemelleVivante}); err != nil {
				t.Fatalf("seed living doe: %v", err)
			}
			if _, err := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F2", ClapetID: uintPtr(c2), Statut: domain.FemelleMorte}); err != nil {
				t.Fatalf("seed dead doe: %v", err)
			}

			rows, err := s.ListClapets(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(rows) != 2 {
				t.Fatalf("expected 2 cages, got %d", len(rows))
			}
			// Sorted by numero: A1 then B2.
			if rows[0].FemelleNumero == nil || *rows[0].FemelleNumero != "F1" {
				t.Fatalf("A1 should show living occupant, got %+v", rows[0])
			}
			if rows[1].FemelleNumero != nil {
				t.Fatalf("B2 occupant is dead, should be empty, got %q", *rows[1].FemelleNumero)
			}
		})
	}
}

func TestFemelle_JoinedInfos(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cid, _ := s.CreateClapet(ctx, "C7")
			fid, err := s.CreateFemelle(ctx, &domain.Femelle{
				Numero:        "F1",
				ClapetID:      uintPtr(cid),
				DateNaissance: strPtr("2024-03-15"),
				Statut:        domain.FemelleVivante,
			})
			if err != nil {
				t.Fatalf("create femelle: %v", err)
			}
			vid, err := s.CreateVaccin(ctx, &domain.Vaccin{Nom: "Myxo", DureeJours: 180})
			if err != nil {
				t.Fatalf("create vaccin: %v", err)
			}
			if _, err := s.CreateVaccination(ctx, fid, vid, "2025-01-05"); err != nil {
				t.Fatalf("old shot: %v", err)
			}
			if _, err := s.CreateVaccination(ctx, fid, vid, "2025-03-01"); err != nil {
				t.Fatalf("recent shot: %v", err)
			}

			f, err := s.GetFemelle(ctx, fid)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if f.ClapetNumero == nil || *f.ClapetNumero != "C7" {
				t.Fatalf("cage numero not joined: %+v", f)
			}
			if f.DernierVaccin == nil || *f.DernierVaccin != "2025-03-01" {
				t.Fatalf("latest shot date wrong: %+v", f.DernierVaccin)
			}
			if f.ProchainVaccin == nil || *f.ProchainVaccin != "2025-08-28" {
				t.Fatalf("next due date wrong: %+v", f.ProchainVaccin)
			}
		})
	}
}

func TestDeleteFemelle_CascadesRecords(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			fid, _ := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})
			vid, _ := s.CreateVaccin(ctx, &domain.Vaccin{Nom: "VHD", DureeJours: 365})
			if _, err := s.CreateVaccination(ctx, fid, vid, "2025-01-10"); err != nil {
				t.Fatalf("vaccination: %v", err)
			}
			if _, err := s.CreateCycle(ctx, &domain.CycleReproduction{
				FemelleID:         fid,
				DateSaillie:       "2025-02-01",
				DateMiseBasPrevue: "2025-03-04",
				Statut:            domain.CycleSaillie,
			}); err != nil {
				t.Fatalf("cycle: %v", err)
			}

			if err := s.DeleteFemelle(ctx, fid); err != nil {
				t.Fatalf("delete femelle: %v", err)
			}

			if recs, err := s.ListVaccinationsByFemelle(ctx, fid); err != nil || len(recs) != 0 {
				t.Fatalf("vaccinations must cascade, got %d (%v)", len(recs), err)
			}
			if cycles, err := s.ListCyclesByFemelle(ctx, fid); err != nil || len(cycles) != 0 {
				t.Fatalf("cycles must cascade, got %d (%v)", len(cycles), err)
			}
		})
	}
}

func TestCreateVaccination_DerivedDueDate_LeapYear(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			fid, _ := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})
			vid, _ := s.CreateVaccin(ctx, &domain.Vaccin{Nom: "VHD2", DureeJours: 365})

			rec, err := s.CreateVaccination(ctx, fid, vid, "2024-01-10")
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			// 2024 is a leap year: 365 days later is Jan 9, not Jan 10.
			if rec.DateProchain != "2025-01-09" {
				t.Fatalf("expected 2025-01-09, got %s", rec.DateProchain)
			}
		})
	}
}

func TestCreateVaccination_MissingVaccin_NoSideEffect(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			fid, _ := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})

			if _, err := s.CreateVaccination(ctx, fid, 999, "2025-01-10"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			recs, err := s.ListVaccinationsByFemelle(ctx, fid)
			if err != nil || len(recs) != 0 {
				t.Fatalf("nothing must be written on failure, got %d (%v)", len(recs), err)
			}
		})
	}
}

func TestUpdateVaccin_DoesNotRewriteHistory(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			fid, _ := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})
			vid, _ := s.CreateVaccin(ctx, &domain.Vaccin{Nom: "VHD2", DureeJours: 365})
			rec, err := s.CreateVaccination(ctx, fid, vid, "2024-01-10")
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			if err := s.UpdateVaccin(ctx, &domain.Vaccin{ID: vid, Nom: "VHD2", DureeJours: 30}); err != nil {
				t.Fatalf("update vaccin: %v", err)
			}

			recs, err := s.ListVaccinationsByFemelle(ctx, fid)
			if err != nil || len(recs) != 1 {
				t.Fatalf("list: %v (%d rows)", err, len(recs))
			}
			if recs[0].DateProchain != rec.DateProchain {
				t.Fatalf("due date rewritten: %s -> %s", rec.DateProchain, recs[0].DateProchain)
			}
		})
	}
}

func TestActiveCycle_SelectsMostRecentActive(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			fid, _ := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})

			if c, err := s.ActiveCycle(ctx, fid); err != nil || c != nil {
				t.Fatalf("doe at rest: got %+v (%v)", c, err)
			}

			if _, err := s.CreateCycle(ctx, &domain.CycleReproduction{
				FemelleID: fid, DateSaillie: "2025-01-01", DateMiseBasPrevue: "2025-02-01",
				Statut: domain.CycleEchec,
			}); err != nil {
				t.Fatalf("terminal cycle: %v", err)
			}
			want, err := s.CreateCycle(ctx, &domain.CycleReproduction{
				FemelleID: fid, DateSaillie: "2025-03-01", DateMiseBasPrevue: "2025-04-01",
				Statut: domain.CycleGestante,
			})
			if err != nil {
				t.Fatalf("active cycle: %v", err)
			}

			c, err := s.ActiveCycle(ctx, fid)
			if err != nil {
				t.Fatalf("active: %v", err)
			}
			if c == nil || c.ID != want {
				t.Fatalf("expected cycle %d, got %+v", want, c)
			}
		})
	}
}

func TestVaccinationAlerts_LivingOnlyAndSorted(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			living, _ := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})
			sold, _ := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F2", Statut: domain.FemelleVendue})
			vid, _ := s.CreateVaccin(ctx, &domain.Vaccin{Nom: "Myxo", DureeJours: 30})

			// Living doe: one overdue (due Jun 10), one upcoming (due Jun 20).
			if _, err := s.CreateVaccination(ctx, living, vid, "2025-05-11"); err != nil {
				t.Fatalf("overdue shot: %v", err)
			}
			if _, err := s.CreateVaccination(ctx, living, vid, "2025-05-21"); err != nil {
				t.Fatalf("upcoming shot: %v", err)
			}
			// Sold doe: would be overdue, must not appear.
			if _, err := s.CreateVaccination(ctx, sold, vid, "2025-05-01"); err != nil {
				t.Fatalf("sold doe shot: %v", err)
			}

			today := "2025-06-15"
			overdue, err := s.OverdueVaccinations(ctx, today)
			if err != nil {
				t.Fatalf("overdue: %v", err)
			}
			if len(overdue) != 1 || overdue[0].DateProchain != "2025-06-10" {
				t.Fatalf("unexpected overdue rows: %+v", overdue)
			}
			if overdue[0].FemelleNumero != "F1" || overdue[0].VaccinNom != "Myxo" {
				t.Fatalf("join fields missing: %+v", overdue[0])
			}

			upcoming, err := s.UpcomingVaccinations(ctx, today, "2025-06-22")
			if err != nil {
				t.Fatalf("upcoming: %v", err)
			}
			if len(upcoming) != 1 || upcoming[0].DateProchain != "2025-06-20" {
				t.Fatalf("unexpected upcoming rows: %+v", upcoming)
			}
		})
	}
}

func TestStatistics(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c1, _ := s.CreateClapet(ctx, "A1")
			if _, err := s.CreateClapet(ctx, "B2"); err != nil {
				t.Fatalf("empty cage: %v", err)
			}
			if _, err := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", ClapetID: uintPtr(c1), Statut: domain.FemelleVivante}); err != nil {
				t.Fatalf("housed doe: %v", err)
			}
			if _, err := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F2", Statut: domain.FemelleVivante}); err != nil {
				t.Fatalf("homeless doe: %v", err)
			}
			if _, err := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F3", Statut: domain.FemelleMorte}); err != nil {
				t.Fatalf("dead doe: %v", err)
			}

			st, err := s.Statistics(ctx)
			if err != nil {
				t.Fatalf("statistics: %v", err)
			}
			if st.TotalFemelles != 2 || st.ClapetsRemplis != 1 || st.ClapetsVides != 1 {
				t.Fatalf("unexpected statistics: %+v", st)
			}
		})
	}
}

func TestEnsureDailyCheck_Idempotent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := s.EnsureDailyCheck(ctx, "2025-06-15")
			if err != nil || !created {
				t.Fatalf("first call must create: created=%v err=%v", created, err)
			}
			created, err = s.EnsureDailyCheck(ctx, "2025-06-15")
			if err != nil || created {
				t.Fatalf("second call must be a no-op: created=%v err=%v", created, err)
			}
			done, err := s.DailyCheckDone(ctx, "2025-06-15")
			if err != nil || !done {
				t.Fatalf("check must be marked done: done=%v err=%v", done, err)
			}
			done, err = s.DailyCheckDone(ctx, "2025-06-16")
			if err != nil || done {
				t.Fatalf("other dates must stay unmarked: done=%v err=%v", done, err)
			}
		})
	}
}

func TestSettings_UpsertAndMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := s.GetSetting(ctx, "daily_time"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := s.PutSetting(ctx, "daily_time", "9:00"); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := s.PutSetting(ctx, "daily_time", "18:30"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, err := s.GetSetting(ctx, "daily_time")
			if err != nil || v != "18:30" {
				t.Fatalf("expected 18:30, got %q (%v)", v, err)
			}
		})
	}
}

func TestUpdateFemelle_NotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.UpdateFemelle(context.Background(), &domain.Femelle{ID: 42, Numero: "F", Statut: domain.FemelleVivante})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestFemelle_DanglingClapetRejected(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.CreateFemelle(ctx, &domain.Femelle{
				Numero:   "F1",
				ClapetID: uintPtr(999),
				Statut:   domain.FemelleVivante,
			})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("create with dangling cage: expected ErrNotFound, got %v", err)
			}
			rows, err := s.ListFemelles(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(rows) != 0 {
				t.Fatalf("expected no doe stored, got %d", len(rows))
			}

			// An update to a missing cage must leave the stored row intact.
			fid, err := s.CreateFemelle(ctx, &domain.Femelle{Numero: "F1", Statut: domain.FemelleVivante})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			err = s.UpdateFemelle(ctx, &domain.Femelle{
				ID:       fid,
				Numero:   "F1-moved",
				ClapetID: uintPtr(999),
				Statut:   domain.FemelleVivante,
			})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("update with dangling cage: expected ErrNotFound, got %v", err)
			}
			got, err := s.GetFemelle(ctx, fid)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Numero != "F1" || got.ClapetID != nil {
				t.Fatalf("row mutated despite rejected update: %+v", got.Femelle)
			}
		})
	}
}

func TestGetClapet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id, err := s.CreateClapet(ctx, "A1")
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			c, err := s.GetClapet(ctx, id)
			if err != nil || c.Numero != "A1" {
				t.Fatalf("get: %v %+v", err, c)
			}
			if _, err := s.GetClapet(ctx, id+1); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}
