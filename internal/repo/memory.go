// In-memory Store backend: maps keyed by auto-incrementing counters behind
// one RWMutex. It replicates the durable backend's semantics — cascade
// deletes, set-null on cage removal, joined row shapes, sort orders — so
// the two backends are interchangeable behind the Store interface. Used
// where no SQLite file can be opened and throughout the test suite.
package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lapinos/go-rabbitry-backend/internal/dateutil"
	"github.com/lapinos/go-rabbitry-backend/internal/domain"
)

type memStore struct {
	mu sync.RWMutex

	clapets      map[uint]domain.Clapet
	femelles     map[uint]domain.Femelle
	vaccins      map[uint]domain.Vaccin
	vaccinations map[uint]domain.VaccinationFemelle
	aliments     map[uint]domain.Aliment
	cycles       map[uint]domain.CycleReproduction
	checks       map[string]domain.DailyCheck
	settings     map[string]string

	nextID map[string]uint
}

// NewMemoryStore returns an empty in-memory Store. The instance owns all of
// its state; nothing is shared between stores or processes.
func NewMemoryStore() Store {
	return &memStore{
		clapets:      make(map[uint]domain.Clapet),
		femelles:     make(map[uint]domain.Femelle),
		vaccins:      make(map[uint]domain.Vaccin),
		vaccinations: make(map[uint]domain.VaccinationFemelle),
		aliments:     make(map[uint]domain.Aliment),
		cycles:       make(map[uint]domain.CycleReproduction),
		checks:       make(map[string]domain.DailyCheck),
		settings:     make(map[string]string),
		nextID:       make(map[string]uint),
	}
}

func (s *memStore) nextFor(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

// Migrate is a no-op: the maps are the schema.
func (s *memStore) Migrate(ctx context.Context) error { return nil }

// Close discards nothing; the store dies with the process.
func (s *memStore) Close() error { return nil }

// ---- Clapets ----

func (s *memStore) ListClapets(ctx context.Context) ([]domain.ClapetWithFemelle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ClapetWithFemelle, 0, len(s.clapets))
	for _, c := range s.clapets {
		row := domain.ClapetWithFemelle{Clapet: c}
		for _, f := range s.femelles {
			if f.ClapetID != nil && *f.ClapetID == c.ID && f.Statut == domain.FemelleVivante {
				num := f.Numero
				row.FemelleNumero = &num
				break
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (s *memStore) GetClapet(ctx context.Context, id uint) (*domain.Clapet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clapets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *memStore) CreateClapet(ctx context.Context, numero string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clapets {
		if c.Numero == numero {
			return 0, ErrDuplicate
		}
	}
	id := s.nextFor("clapets")
	s.clapets[id] = domain.Clapet{ID: id, Numero: numero}
	return id, nil
}

func (s *memStore) DeleteClapet(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clapets[id]; !ok {
		return ErrNotFound
	}
	// Free any occupant; the doe record itself stays.
	for fid, f := range s.femelles {
		if f.ClapetID != nil && *f.ClapetID == id {
			f.ClapetID = nil
			s.femelles[fid] = f
		}
	}
	delete(s.clapets, id)
	return nil
}

// ---- Femelles ----

// femelleInfos assembles the joined read shape for one doe. Caller holds at
// least the read lock.
func (s *memStore) femelleInfos(f domain.Femelle) domain.FemelleWithInfos {
	row := domain.FemelleWithInfos{Femelle: f}
	if f.ClapetID != nil {
		if c, ok := s.clapets[*f.ClapetID]; ok {
			num := c.Numero
			row.ClapetNumero = &num
		}
	}
	// Latest vaccination by administration date, as the SQL subqueries do.
	var latest *domain.VaccinationFemelle
	for _, vf := range s.vaccinations {
		if vf.FemelleID != f.ID {
			continue
		}
		if latest == nil || vf.DateVaccination > latest.DateVaccination ||
			(vf.DateVaccination == latest.DateVaccination && vf.ID > latest.ID) {
			rec := vf
			latest = &rec
		}
	}
	if latest != nil {
		d, p := latest.DateVaccination, latest.DateProchain
		row.DernierVaccin = &d
		row.ProchainVaccin = &p
	}
	return row
}

func (s *memStore) ListFemelles(ctx context.Context) ([]domain.FemelleWithInfos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FemelleWithInfos, 0, len(s.femelles))
	for _, f := range s.femelles {
		out = append(out, s.femelleInfos(f))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Numero != out[j].Numero {
			return out[i].Numero < out[j].Numero
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) GetFemelle(ctx context.Context, id uint) (*domain.FemelleWithInfos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.femelles[id]
	if !ok {
		return nil, ErrNotFound
	}
	row := s.femelleInfos(f)
	return &row, nil
}

func (s *memStore) CreateFemelle(ctx context.Context, f *domain.Femelle) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Same contract as the FK on the durable backend: no dangling cage refs.
	if f.ClapetID != nil {
		if _, ok := s.clapets[*f.ClapetID]; !ok {
			return 0, ErrNotFound
		}
	}
	id := s.nextFor("femelles")
	rec := *f
	rec.ID = id
	if rec.Statut == "" {
		rec.Statut = domain.FemelleVivante
	}
	s.femelles[id] = rec
	f.ID = id
	return id, nil
}

func (s *memStore) UpdateFemelle(ctx context.Context, f *domain.Femelle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.femelles[f.ID]; !ok {
		return ErrNotFound
	}
	if f.ClapetID != nil {
		if _, ok := s.clapets[*f.ClapetID]; !ok {
			return ErrNotFound
		}
	}
	s.femelles[f.ID] = *f
	return nil
}

func (s *memStore) DeleteFemelle(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.femelles[id]; !ok {
		return ErrNotFound
	}
	for vid, vf := range s.vaccinations {
		if vf.FemelleID == id {
			delete(s.vaccinations, vid)
		}
	}
	for cid, c := range s.cycles {
		if c.FemelleID == id {
			delete(s.cycles, cid)
		}
	}
	delete(s.femelles, id)
	return nil
}

func (s *memStore) CountFemellesVivantes(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, f := range s.femelles {
		if f.Statut == domain.FemelleVivante {
			n++
		}
	}
	return n, nil
}

// ---- Vaccins ----

func (s *memStore) ListVaccins(ctx context.Context) ([]domain.Vaccin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Vaccin, 0, len(s.vaccins))
	for _, v := range s.vaccins {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, nil
}

func (s *memStore) GetVaccin(ctx context.Context, id uint) (*domain.Vaccin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vaccins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *memStore) CreateVaccin(ctx context.Context, v *domain.Vaccin) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextFor("vaccins")
	rec := *v
	rec.ID = id
	s.vaccins[id] = rec
	v.ID = id
	return id, nil
}

func (s *memStore) UpdateVaccin(ctx context.Context, v *domain.Vaccin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vaccins[v.ID]; !ok {
		return ErrNotFound
	}
	s.vaccins[v.ID] = *v
	return nil
}

func (s *memStore) DeleteVaccin(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vaccins[id]; !ok {
		return ErrNotFound
	}
	for vid, vf := range s.vaccinations {
		if vf.VaccinID == id {
			delete(s.vaccinations, vid)
		}
	}
	delete(s.vaccins, id)
	return nil
}

// ---- Vaccinations ----

func (s *memStore) ListVaccinationsByFemelle(ctx context.Context, femelleID uint) ([]domain.VaccinationWithVaccin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.VaccinationWithVaccin
	for _, vf := range s.vaccinations {
		if vf.FemelleID != femelleID {
			continue
		}
		row := domain.VaccinationWithVaccin{VaccinationFemelle: vf}
		if v, ok := s.vaccins[vf.VaccinID]; ok {
			row.VaccinNom = v.Nom
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateVaccination != out[j].DateVaccination {
			return out[i].DateVaccination > out[j].DateVaccination
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memStore) CreateVaccination(ctx context.Context, femelleID, vaccinID uint, dateVaccination string) (*domain.VaccinationFemelle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.femelles[femelleID]; !ok {
		return nil, ErrNotFound
	}
	v, ok := s.vaccins[vaccinID]
	if !ok {
		return nil, ErrNotFound
	}
	prochain, ok := dateutil.AddDaysISO(dateVaccination, v.DureeJours)
	if !ok {
		return nil, fmt.Errorf("malformed vaccination date %q", dateVaccination)
	}
	id := s.nextFor("vaccinations_femelles")
	rec := domain.VaccinationFemelle{
		ID:              id,
		FemelleID:       femelleID,
		VaccinID:        vaccinID,
		DateVaccination: dateVaccination,
		DateProchain:    prochain,
	}
	s.vaccinations[id] = rec
	return &rec, nil
}

func (s *memStore) DeleteVaccination(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vaccinations[id]; !ok {
		return ErrNotFound
	}
	delete(s.vaccinations, id)
	return nil
}

// ---- Aliments ----

func (s *memStore) ListAliments(ctx context.Context) ([]domain.Aliment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Aliment, 0, len(s.aliments))
	for _, a := range s.aliments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, nil
}

func (s *memStore) GetAliment(ctx context.Context, id uint) (*domain.Aliment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.aliments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *memStore) CreateAliment(ctx context.Context, a *domain.Aliment) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextFor("aliments")
	rec := *a
	rec.ID = id
	s.aliments[id] = rec
	a.ID = id
	return id, nil
}

func (s *memStore) UpdateAliment(ctx context.Context, a *domain.Aliment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.aliments[a.ID]; !ok {
		return ErrNotFound
	}
	s.aliments[a.ID] = *a
	return nil
}

func (s *memStore) DeleteAliment(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.aliments[id]; !ok {
		return ErrNotFound
	}
	delete(s.aliments, id)
	return nil
}

// ---- Cycles ----

func (s *memStore) GetCycle(ctx context.Context, id uint) (*domain.CycleReproduction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cycles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *memStore) ActiveCycle(ctx context.Context, femelleID uint) (*domain.CycleReproduction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.CycleReproduction
	for _, c := range s.cycles {
		if c.FemelleID != femelleID || !domain.CycleActive(c.Statut) {
			continue
		}
		if best == nil || c.DateSaillie > best.DateSaillie ||
			(c.DateSaillie == best.DateSaillie && c.ID > best.ID) {
			rec := c
			best = &rec
		}
	}
	return best, nil
}

func (s *memStore) ListCyclesByFemelle(ctx context.Context, femelleID uint) ([]domain.CycleReproduction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CycleReproduction
	for _, c := range s.cycles {
		if c.FemelleID == femelleID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateSaillie != out[j].DateSaillie {
			return out[i].DateSaillie > out[j].DateSaillie
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memStore) CreateCycle(ctx context.Context, c *domain.CycleReproduction) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.femelles[c.FemelleID]; !ok {
		return 0, ErrNotFound
	}
	id := s.nextFor("cycles_reproduction")
	rec := *c
	rec.ID = id
	s.cycles[id] = rec
	c.ID = id
	return id, nil
}

func (s *memStore) UpdateCycle(ctx context.Context, c *domain.CycleReproduction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cycles[c.ID]; !ok {
		return ErrNotFound
	}
	s.cycles[c.ID] = *c
	return nil
}

// ---- Alerts and aggregates ----

// alertRows collects vaccination alert rows of living does matching keep,
// sorted ascending by due date. Caller holds at least the read lock.
func (s *memStore) alertRows(keep func(dateProchain string) bool) []domain.VaccinationAlerte {
	var out []domain.VaccinationAlerte
	for _, vf := range s.vaccinations {
		f, ok := s.femelles[vf.FemelleID]
		if !ok || f.Statut != domain.FemelleVivante || !keep(vf.DateProchain) {
			continue
		}
		row := domain.VaccinationAlerte{VaccinationFemelle: vf, FemelleNumero: f.Numero}
		if v, ok := s.vaccins[vf.VaccinID]; ok {
			row.VaccinNom = v.Nom
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateProchain != out[j].DateProchain {
			return out[i].DateProchain < out[j].DateProchain
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *memStore) OverdueVaccinations(ctx context.Context, today string) ([]domain.VaccinationAlerte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alertRows(func(d string) bool { return d < today }), nil
}

func (s *memStore) UpcomingVaccinations(ctx context.Context, from, to string) ([]domain.VaccinationAlerte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alertRows(func(d string) bool { return d >= from && d <= to }), nil
}

func (s *memStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := domain.Statistics{}
	occupied := make(map[uint]struct{})
	for _, f := range s.femelles {
		if f.Statut != domain.FemelleVivante {
			continue
		}
		st.TotalFemelles++
		if f.ClapetID != nil {
			occupied[*f.ClapetID] = struct{}{}
		}
	}
	st.ClapetsRemplis = int64(len(occupied))
	st.ClapetsVides = int64(len(s.clapets)) - st.ClapetsRemplis
	return &st, nil
}

// ---- Daily check ----

func (s *memStore) EnsureDailyCheck(ctx context.Context, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checks[date]; ok {
		return false, nil
	}
	id := s.nextFor("daily_checks")
	s.checks[date] = domain.DailyCheck{ID: id, Date: date, Statut: "done"}
	return true, nil
}

func (s *memStore) DailyCheckDone(ctx context.Context, date string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.checks[date]
	return ok, nil
}

// ---- Settings ----

func (s *memStore) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *memStore) PutSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}
