package agents

import (
	"slices"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// IndonesiaAgent exploits great-power conflict for investment and turns
// protectionist when growth stalls.
type IndonesiaAgent struct {
	base
	ProtectionistTendency float64
	PrioritySectors       []string
	SlowdownGrowth        float64 // Annualized growth below which tariffs go up
}

// NewIndonesiaAgent returns the Indonesia agent with its default strategy.
func NewIndonesiaAgent(advisor Advisor) *IndonesiaAgent {
	priority := []string{
		economy.SectorAgriculture, economy.SectorManufacturing,
		economy.SectorTourism, economy.SectorNaturalResources,
	}
	return &IndonesiaAgent{
		base:                  newBase(Indonesia, advisor, priority),
		ProtectionistTendency: 0.5,
		PrioritySectors:       priority,
		SlowdownGrowth:        0.015,
	}
}

func (id *IndonesiaAgent) DecideAction(st *state.State) economy.EconomicAction {
	if a, ok := id.advise(st); ok {
		return a
	}

	us, usOK := lastTargeted(st.RecentActions, US)
	cn, cnOK := lastTargeted(st.RecentActions, China)
	if usOK && cnOK && us.Target == China && cn.Target == US {
		top := id.PrioritySectors[:min(2, len(id.PrioritySectors))]
		return economy.EconomicAction{
			Country:       id.country,
			Type:          economy.Investment,
			Sectors:       slices.Clone(top),
			Magnitude:     0.15,
			Justification: "Leveraging US-China trade tensions to boost domestic industries",
		}
	}

	if ind, ok := st.LatestIndicator(id.country); ok && ind.GDPGrowth < id.SlowdownGrowth {
		return economy.EconomicAction{
			Country:       id.country,
			Type:          economy.TariffIncrease,
			Sectors:       slices.Clone(id.PrioritySectors),
			Magnitude:     0.1 * id.ProtectionistTendency,
			Justification: "Protecting domestic industries during economic slowdown",
		}
	}

	return economy.EconomicAction{
		Country:       id.country,
		Type:          economy.Investment,
		Sectors:       slices.Clone(id.PrioritySectors),
		Magnitude:     0.08,
		Justification: "Continuing focus on economic development and domestic growth",
	}
}

func (id *IndonesiaAgent) CalculateTariffPolicy(st *state.State, target string) economy.TariffPolicy {
	const baseRate = 0.07
	rates := make(map[string]float64)
	for _, s := range id.PrioritySectors {
		rates[s] = baseRate * (1 + id.ProtectionistTendency)
	}
	for _, s := range []string{economy.SectorTechnology, economy.SectorHealthcare, economy.SectorEducation} {
		rates[s] = baseRate * 0.6
	}
	if target == China || target == US {
		if len(st.ActiveTariffPolicies(target, id.country)) > 0 {
			for s, r := range rates {
				rates[s] = min(r*1.25, 0.2)
			}
		}
	}
	return economy.NewTariffPolicy(id.country, target, rates, 4)
}
