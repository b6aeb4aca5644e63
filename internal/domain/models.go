// Package domain defines the persistence models of the rabbitry: cages,
// breeding does, vaccines and vaccination records, feed stocks, reproduction
// cycles, daily husbandry checks, and free-form settings. These types are
// mapped with GORM and form the core data layer of the application.
//
// All dates are stored as ISO `YYYY-MM-DD` strings (TEXT columns), matching
// the calendar-day granularity of the domain: nothing here cares about the
// time of day, and ISO strings compare correctly with plain string ordering.
package domain

// Doe life status values (femelles.statut).
const (
	FemelleVivante = "vivante" // alive, occupies a cage, counted in feed/alerts
	FemelleVendue  = "vendue"  // sold
	FemelleMorte   = "morte"   // dead
)

// Reproduction cycle status values (cycles_reproduction.statut).
const (
	CycleSaillie    = "saillie"    // mated, gestation not yet confirmed
	CycleGestante   = "gestante"   // palpation confirmed pregnancy
	CycleAllaitante = "allaitante" // litter born, nursing until weaning
	CycleTermine    = "termine"    // terminal: weaning done
	CycleEchec      = "echec"      // terminal: failed at any stage
)

// FemelleStatuts lists the valid doe statuses.
var FemelleStatuts = []string{FemelleVivante, FemelleVendue, FemelleMorte}

// CycleActive reports whether a cycle status counts as active, i.e. the doe
// is somewhere between mating and weaning. A doe has at most one active
// cycle at a time.
func CycleActive(statut string) bool {
	switch statut {
	case CycleSaillie, CycleGestante, CycleAllaitante:
		return true
	}
	return false
}

// CycleTerminal reports whether a cycle status is terminal. Terminal cycles
// never transition again; a new cycle is started afresh instead.
func CycleTerminal(statut string) bool {
	return statut == CycleTermine || statut == CycleEchec
}

// Clapet is a cage. Cage numbers are unique; at most one living doe occupies
// a cage at a time (enforced at the read layer, not by the schema).
type Clapet struct {
	ID     uint   `json:"id"     gorm:"primaryKey;autoIncrement"`
	Numero string `json:"numero" gorm:"type:text;uniqueIndex;not null"`
}

// TableName returns the database table name for Clapet.
func (Clapet) TableName() string { return "clapets" }

// Femelle is a breeding doe.
//
// Fields:
//   - Numero: ear-tag / book number; not unique (numbers are reused across
//     generations).
//   - ClapetID: occupied cage, nullable. Deleting the cage nulls this out.
//   - DateNaissance: birth date (ISO), optional.
//   - Statut: vivante, vendue or morte (DB CHECK constraint).
//
// Deleting a doe cascades to its vaccination records and cycles.
type Femelle struct {
	ID            uint    `json:"id"             gorm:"primaryKey;autoIncrement"`
	Numero        string  `json:"numero"         gorm:"type:text;not null"`
	ClapetID      *uint   `json:"clapet_id"      gorm:"index:idx_femelles_clapet"`
	DateNaissance *string `json:"date_naissance" gorm:"type:text"`
	Statut        string  `json:"statut"         gorm:"type:text;not null;default:'vivante';check:statut IN ('vivante','vendue','morte')"`

	// Clapet is the occupied cage. The doe survives cage deletion with a
	// nulled reference.
	Clapet *Clapet `json:"-" gorm:"foreignKey:ClapetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Femelle.
func (Femelle) TableName() string { return "femelles" }

// Vaccin is a vaccine type. DureeJours is the validity interval in days used
// to derive the next due date when a vaccination is recorded.
type Vaccin struct {
	ID         uint   `json:"id"          gorm:"primaryKey;autoIncrement"`
	Nom        string `json:"nom"         gorm:"type:text;not null"`
	DureeJours int    `json:"duree_jours" gorm:"not null"`
}

// TableName returns the database table name for Vaccin.
func (Vaccin) TableName() string { return "vaccins" }

// VaccinationFemelle records one administered vaccination.
//
// DateProchain is derived at insert time as DateVaccination plus the
// vaccine's DureeJours and is immutable afterwards: editing the vaccine's
// duration later must not rewrite the history of already recorded shots.
type VaccinationFemelle struct {
	ID              uint   `json:"id"               gorm:"primaryKey;autoIncrement"`
	FemelleID       uint   `json:"femelle_id"       gorm:"not null;index:idx_vaccinations_femelle"`
	VaccinID        uint   `json:"vaccin_id"        gorm:"not null"`
	DateVaccination string `json:"date_vaccination" gorm:"type:text;not null"`
	DateProchain    string `json:"date_prochain"    gorm:"type:text;not null;index:idx_vaccinations_date"`

	Femelle Femelle `json:"-" gorm:"foreignKey:FemelleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Vaccin  Vaccin  `json:"-" gorm:"foreignKey:VaccinID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for VaccinationFemelle.
func (VaccinationFemelle) TableName() string { return "vaccinations_femelles" }

// Aliment is a feed stock line: current stock in kilograms and the
// per-animal daily consumption in grams. Depletion figures are computed at
// read time from the living-doe count, never stored.
type Aliment struct {
	ID            uint    `json:"id"             gorm:"primaryKey;autoIncrement"`
	Nom           string  `json:"nom"            gorm:"type:text;not null"`
	StockKg       float64 `json:"stock_kg"       gorm:"not null"`
	ConsommationG float64 `json:"consommation_g" gorm:"not null"`
}

// TableName returns the database table name for Aliment.
func (Aliment) TableName() string { return "aliments" }

// CycleReproduction is one breeding cycle of a doe, from mating to weaning
// (or failure). Expected dates are derived once, at the transition that
// binds them: DateMiseBasPrevue at mating, DateSevragePrevue at birth.
type CycleReproduction struct {
	ID                uint    `json:"id"                   gorm:"primaryKey;autoIncrement"`
	FemelleID         uint    `json:"femelle_id"           gorm:"not null;index:idx_cycles_femelle"`
	DateSaillie       string  `json:"date_saillie"         gorm:"type:text;not null"`
	DateMiseBasPrevue string  `json:"date_mise_bas_prevue" gorm:"type:text;not null"`
	DateVerification  *string `json:"date_verification"    gorm:"type:text"`
	DateMiseBasReelle *string `json:"date_mise_bas_reelle" gorm:"type:text"`
	NombreVivants     *int    `json:"nombre_vivants"`
	NombreMorts       *int    `json:"nombre_morts"`
	DateSevragePrevue *string `json:"date_sevrage_prevue"  gorm:"type:text"`
	Statut            string  `json:"statut"               gorm:"type:text;not null;default:'saillie'"`

	Femelle Femelle `json:"-" gorm:"foreignKey:FemelleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CycleReproduction.
func (CycleReproduction) TableName() string { return "cycles_reproduction" }

// DailyCheck marks that the husbandry round (water, feed, litters) was done
// on a given calendar day. One row per date, created idempotently.
type DailyCheck struct {
	ID     uint   `json:"id"     gorm:"primaryKey;autoIncrement"`
	Date   string `json:"date"   gorm:"type:text;uniqueIndex;not null"`
	Statut string `json:"statut" gorm:"type:text;not null;default:'done'"`
}

// TableName returns the database table name for DailyCheck.
func (DailyCheck) TableName() string { return "daily_checks" }

// Setting is a free-form key/value pair. Currently holds the daily reminder
// time under the "daily_time" key (H:MM, 24-hour clock).
type Setting struct {
	Key   string `json:"key"   gorm:"primaryKey;type:text"`
	Value string `json:"value" gorm:"type:text;not null"`
}

// TableName returns the database table name for Setting.
func (Setting) TableName() string { return "settings" }
