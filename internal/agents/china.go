package agents

import (
	"maps"
	"slices"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// ChinaAgent retaliates in kind against US tariffs and otherwise invests in
// strategic sectors.
type ChinaAgent struct {
	base
	RetaliatoryFactor float64
	StrategicSectors  []string
}

// NewChinaAgent returns the China agent with its default strategy.
func NewChinaAgent(advisor Advisor) *ChinaAgent {
	strategic := []string{economy.SectorTechnology, economy.SectorManufacturing, economy.SectorRareEarthMinerals}
	return &ChinaAgent{
		base:              newBase(China, advisor, strategic),
		RetaliatoryFactor: 1.0,
		StrategicSectors:  strategic,
	}
}

func (c *ChinaAgent) DecideAction(st *state.State) economy.EconomicAction {
	if a, ok := c.advise(st); ok {
		return a
	}
	if last, ok := c.lastUSMove(st); ok && last.Type == economy.TariffIncrease {
		return economy.EconomicAction{
			Country:       c.country,
			Type:          economy.TariffIncrease,
			Target:        US,
			Sectors:       slices.Clone(last.Sectors),
			Magnitude:     last.Magnitude * c.RetaliatoryFactor,
			Justification: "Reciprocal measures in response to US tariffs",
		}
	}
	return economy.EconomicAction{
		Country:       c.country,
		Type:          economy.Investment,
		Sectors:       slices.Clone(c.StrategicSectors),
		Magnitude:     0.1,
		Justification: "Strategic sector development",
	}
}

// lastUSMove is the latest recent US action aimed at China.
func (c *ChinaAgent) lastUSMove(st *state.State) (economy.EconomicAction, bool) {
	for i := len(st.RecentActions) - 1; i >= 0; i-- {
		a := st.RecentActions[i]
		if a.Country == US && a.Target == c.country {
			return a, true
		}
	}
	return economy.EconomicAction{}, false
}

func (c *ChinaAgent) CalculateTariffPolicy(st *state.State, target string) economy.TariffPolicy {
	if target == US {
		if active := st.ActiveTariffPolicies(US, c.country); len(active) > 0 {
			mirrored := maps.Clone(active[0].SectorRates)
			for sector, rate := range mirrored {
				mirrored[sector] = rate * c.RetaliatoryFactor
			}
			return economy.NewTariffPolicy(c.country, target, mirrored, active[0].DurationQuarters)
		}
	}
	return economy.NewTariffPolicy(c.country, target, uniformRates(c.StrategicSectors, 0.05), 4)
}
