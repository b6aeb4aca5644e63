// Aggregate and alert queries for the durable backend: vaccination alert
// rows restricted to living does, and the dashboard headline counts. ISO
// date strings compare correctly with plain string ordering, so the date
// filters are simple range predicates.
package repo

import (
	"context"

	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

// alerteSelect is the projection for alert rows: the vaccination record plus
// the doe number and the vaccine name.
const alerteSelect = `vf.id, vf.femelle_id, vf.vaccin_id, vf.date_vaccination, vf.date_prochain,
	f.numero AS femelle_numero, v.nom AS vaccin_nom`

// OverdueVaccinations returns vaccination records of living does whose due
// date precedes today, most urgent first.
func (s *gormStore) OverdueVaccinations(ctx context.Context, today string) ([]domain.VaccinationAlerte, error) {
	var out []domain.VaccinationAlerte
	err := s.db.WithContext(ctx).
		Table("vaccinations_femelles AS vf").
		Select(alerteSelect).
		Joins("JOIN femelles f ON vf.femelle_id = f.id").
		Joins("JOIN vaccins v ON vf.vaccin_id = v.id").
		Where("vf.date_prochain < ? AND f.statut = ?", today, domain.FemelleVivante).
		Order("vf.date_prochain").
		Scan(&out).Error
	return out, err
}

// UpcomingVaccinations returns vaccination records of living does whose due
// date falls within [from, to] inclusive, soonest first.
func (s *gormStore) UpcomingVaccinations(ctx context.Context, from, to string) ([]domain.VaccinationAlerte, error) {
	var out []domain.VaccinationAlerte
	err := s.db.WithContext(ctx).
		Table("vaccinations_femelles AS vf").
		Select(alerteSelect).
		Joins("JOIN femelles f ON vf.femelle_id = f.id").
		Joins("JOIN vaccins v ON vf.vaccin_id = v.id").
		Where("vf.date_prochain >= ? AND vf.date_prochain <= ? AND f.statut = ?",
			from, to, domain.FemelleVivante).
		Order("vf.date_prochain").
		Scan(&out).Error
	return out, err
}

// Statistics returns the dashboard counts: living does, cages occupied by a
// living doe, and empty cages.
func (s *gormStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var st domain.Statistics

	if err := s.db.WithContext(ctx).
		Model(&domain.Femelle{}).
		Where("statut = ?", domain.FemelleVivante).
		Count(&st.TotalFemelles).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.Femelle{}).
		Where("statut = ? AND clapet_id IS NOT NULL", domain.FemelleVivante).
		Distinct("clapet_id").
		Count(&st.ClapetsRemplis).Error; err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&domain.Clapet{}).
		Count(&total).Error; err != nil {
		return nil, err
	}
	st.ClapetsVides = total - st.ClapetsRemplis

	return &st, nil
}
