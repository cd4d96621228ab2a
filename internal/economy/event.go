package economy

import (
	"slices"

	"github.com/google/uuid"
)

// EventConfig describes an exogenous shock.
type EventConfig struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Probability       float64            `json:"probability"` // Per-quarter; 0 for scheduled-only
	AffectedCountries []string           `json:"affected_countries"`
	AffectedSectors   []string           `json:"affected_sectors"`
	GDPImpact         map[string]float64 `json:"gdp_impact"` // Quarterly growth delta per country
	DurationQuarters  int                `json:"duration_quarters"`
	OneTime           bool               `json:"one_time"`
	TriggerStep       *int               `json:"trigger_step,omitempty"`
}

// Affects reports whether the named country is in the affected set.
func (e EventConfig) Affects(country string) bool {
	return slices.Contains(e.AffectedCountries, country)
}

// Clone returns an independent copy. The ID is preserved.
func (e EventConfig) Clone() EventConfig {
	e.AffectedCountries = slices.Clone(e.AffectedCountries)
	e.AffectedSectors = slices.Clone(e.AffectedSectors)
	e.GDPImpact = cloneRates(e.GDPImpact)
	if e.TriggerStep != nil {
		step := *e.TriggerStep
		e.TriggerStep = &step
	}
	return e
}

// Activate returns a distinct instance of the event with a fresh ID.
func (e EventConfig) Activate() EventConfig {
	cp := e.Clone()
	cp.ID = uuid.New()
	return cp
}
