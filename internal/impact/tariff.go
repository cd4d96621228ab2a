// Package impact computes the economic effects that drive each simulation step:
// tariff impacts, optimal tariffs, quarterly trade flows, and GDP growth.
package impact

import (
	"math"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// Tariff impact constants.
const (
	defaultPriceElasticity = -2.0
	pricePassThrough       = 0.7
	exporterPassThrough    = 0.8
	consumerSurplusShare   = 0.3
	baselineVolumeScale    = 0.001
)

// TariffCalculator estimates GDP and trade-volume effects of a tariff policy.
type TariffCalculator struct {
	ElasticityMultiplier float64
}

// NewTariffCalculator returns a calculator with the default elasticity.
func NewTariffCalculator() *TariffCalculator {
	return &TariffCalculator{ElasticityMultiplier: 1.0}
}

// CalculateImpact computes the effect of policy. The policy source is the
// importer imposing the tariff; the target is the exporter.
func (tc *TariffCalculator) CalculateImpact(st *state.State, policy economy.TariffPolicy) economy.TariffImpact {
	impact := economy.TariffImpact{
		TradeVolumeChange: make(map[string]float64, len(policy.SectorRates)),
		PriceChange:       make(map[string]float64, len(policy.SectorRates)),
	}
	if len(policy.SectorRates) == 0 {
		return impact
	}

	volumes := tc.sectorVolumes(st, policy)
	elasticity := defaultPriceElasticity * tc.ElasticityMultiplier

	totalChange := 0.0
	revenue := 0.0
	for _, sector := range economy.SortedKeys(policy.SectorRates) {
		rate := policy.SectorRates[sector]
		price := rate * pricePassThrough
		change := volumes[sector] * elasticity * price

		impact.PriceChange[sector] = price
		impact.TradeVolumeChange[sector] = change
		totalChange += change
		revenue -= change * rate
	}

	impact.GDPImpactExporter = exporterPassThrough * totalChange
	impact.GDPImpactImporter = revenue - consumerSurplusShare*revenue
	return impact
}

// ApplyImpact moves the GDP of the policy's two countries by a computed impact.
func (tc *TariffCalculator) ApplyImpact(st *state.State, policy economy.TariffPolicy, impact economy.TariffImpact) {
	st.ApplyTariffImpact(policy.Source, policy.Target, impact)
}

// sectorVolumes returns the pre-tariff volume per policy sector.
func (tc *TariffCalculator) sectorVolumes(st *state.State, policy economy.TariffPolicy) map[string]float64 {
	out := make(map[string]float64, len(policy.SectorRates))
	n := float64(len(policy.SectorRates))

	latest, ok := st.LatestFlow(policy.Target, policy.Source)
	if !ok {
		var base float64
		importer, exporter := st.Country(policy.Source), st.Country(policy.Target)
		if importer != nil && exporter != nil {
			base = math.Sqrt(math.Max(0, importer.GDP*exporter.GDP)) * baselineVolumeScale
		}
		for sector := range policy.SectorRates {
			out[sector] = base / n
		}
		return out
	}

	even := latest.TotalValue() / n
	for sector := range policy.SectorRates {
		if v, ok := latest.SectorVolumes[sector]; ok {
			out[sector] = math.Max(0, v)
		} else {
			out[sector] = math.Max(0, even)
		}
	}
	return out
}
