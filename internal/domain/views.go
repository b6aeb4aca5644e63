// Read models: joined and derived row shapes returned by list queries and
// the alerting layer. Both store backends (SQLite and in-memory) produce
// exactly these shapes so callers never see which engine is live.
package domain

// JoursIllimites is the sentinel "will not run out" value for feed
// depletion when the daily consumption computes to zero.
const JoursIllimites = -1

// ClapetWithFemelle is a cage row joined with the number of the living doe
// occupying it, if any.
type ClapetWithFemelle struct {
	Clapet
	FemelleNumero *string `json:"femelle_numero"`
}

// FemelleWithInfos is a doe row joined with its cage number and the dates of
// its most recent vaccination (administered and next due).
type FemelleWithInfos struct {
	Femelle
	ClapetNumero   *string `json:"clapet_numero"`
	DernierVaccin  *string `json:"dernier_vaccin"`
	ProchainVaccin *string `json:"prochain_vaccin"`
}

// VaccinationWithVaccin is a vaccination record joined with its vaccine name,
// as listed on a doe's detail view.
type VaccinationWithVaccin struct {
	VaccinationFemelle
	VaccinNom string `json:"vaccin_nom"`
}

// VaccinationAlerte is a vaccination record joined with the doe number and
// vaccine name, as surfaced by the overdue / due-soon alert queries.
type VaccinationAlerte struct {
	VaccinationFemelle
	FemelleNumero string `json:"femelle_numero"`
	VaccinNom     string `json:"vaccin_nom"`
}

// AlimentWithJours is a feed stock row with its read-time depletion figures.
// ConsoJourKg is the whole-herd daily consumption in kilograms;
// JoursRestants is the floor of StockKg / ConsoJourKg, or JoursIllimites
// when consumption is zero.
type AlimentWithJours struct {
	Aliment
	ConsoJourKg   float64 `json:"conso_jour_kg"`
	JoursRestants int     `json:"jours_restants"`
}

// Statistics is the dashboard headline: living does, cages occupied by a
// living doe, and empty cages.
type Statistics struct {
	TotalFemelles  int64 `json:"total_femelles"`
	ClapetsRemplis int64 `json:"clapets_remplis"`
	ClapetsVides   int64 `json:"clapets_vides"`
}

// Segment display states for the post-birth windows.
const (
	SegmentFuture     = "future"
	SegmentInProgress = "in-progress"
	SegmentComplete   = "complete"
)

// CycleSegment is one fixed post-birth window (mate-check, verification,
// weaning) with its display state relative to today.
type CycleSegment struct {
	Nom       string `json:"nom"`
	DebutJour int    `json:"debut_jour"`
	FinJour   int    `json:"fin_jour"`
	Etat      string `json:"etat"`
}

// FemelleStatus is the per-doe dashboard summary: the doe with its joined
// infos, its active cycle if any, and the derived display figures.
type FemelleStatus struct {
	FemelleWithInfos
	Cycle         *CycleReproduction `json:"cycle,omitempty"`
	Statut        string             `json:"statut_cycle"`             // "repos" or the active cycle status
	VaccinEtat    string             `json:"vaccin_etat"`              // due class of the next vaccination
	Progress      float64            `json:"progress"`                 // gestation or lactation progress in [0,1]
	JoursRestants *int               `json:"jours_restants,omitempty"` // days to expected birth / weaning
	Segments      []CycleSegment     `json:"segments,omitempty"`       // only while allaitante
}
