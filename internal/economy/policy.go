package economy

import (
	"time"

	"github.com/google/uuid"
)

// TariffPolicy is a directional, sector-rated, time-bounded trade restriction.
type TariffPolicy struct {
	ID               uuid.UUID          `json:"id"`
	Source           string             `json:"source_country"` // Imposing (importing) country
	Target           string             `json:"target_country"` // Exporter being taxed
	SectorRates      map[string]float64 `json:"sector_rates"`
	DurationQuarters int                `json:"duration_quarters"`
	StartDate        time.Time          `json:"start_date"`
}

// NewTariffPolicy creates a policy with a fresh ID.
func NewTariffPolicy(source, target string, rates map[string]float64, quarters int) TariffPolicy {
	return TariffPolicy{
		ID:               uuid.New(),
		Source:           source,
		Target:           target,
		SectorRates:      rates,
		DurationQuarters: quarters,
		StartDate:        time.Now().UTC(),
	}
}

// EndDate approximates a quarter as 90 days.
func (p TariffPolicy) EndDate() time.Time {
	return p.StartDate.AddDate(0, 0, 90*p.DurationQuarters)
}

// AverageRate is the mean sector rate, 0 for an empty policy.
func (p TariffPolicy) AverageRate() float64 {
	if len(p.SectorRates) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range p.SectorRates {
		sum += r
	}
	return sum / float64(len(p.SectorRates))
}

// Clone returns a copy with its own rate map. The ID is preserved.
func (p TariffPolicy) Clone() TariffPolicy {
	rates := make(map[string]float64, len(p.SectorRates))
	for k, v := range p.SectorRates {
		rates[k] = v
	}
	p.SectorRates = rates
	return p
}

// TariffImpact is the transient result of applying one policy.
type TariffImpact struct {
	GDPImpactExporter float64            `json:"gdp_impact_exporter"`
	GDPImpactImporter float64            `json:"gdp_impact_importer"`
	TradeVolumeChange map[string]float64 `json:"trade_volume_change"`
	PriceChange       map[string]float64 `json:"price_change"`
}
