package agents

import (
	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// GenericAgent drives countries without a dedicated playbook. It holds the
// status quo until tariffed, then answers the heaviest tariff in proportion.
type GenericAgent struct {
	base
	RetaliationShare float64 // Fraction of the incoming rate mirrored back
}

// NewGenericAgent returns a generic agent for country.
func NewGenericAgent(country string, advisor Advisor) *GenericAgent {
	return &GenericAgent{
		base:             newBase(country, advisor, economy.SortedKeys(economy.SectorWeights(country))),
		RetaliationShare: 0.5,
	}
}

func (g *GenericAgent) DecideAction(st *state.State) economy.EconomicAction {
	if a, ok := g.advise(st); ok {
		return a
	}

	var (
		worst    string
		worstAvg float64
		sectors  []string
	)
	for _, other := range st.CountryNames() {
		if other == g.country {
			continue
		}
		policies := st.ActiveTariffPolicies(other, g.country)
		if avg := combinedRate(policies); avg > worstAvg {
			worst, worstAvg = other, avg
			sectors = policySectors(policies)
		}
	}
	if worst == "" {
		return economy.StatusQuoAction(g.country, "No tariffs to answer")
	}
	return economy.EconomicAction{
		Country:       g.country,
		Type:          economy.TariffAdjustment,
		Target:        worst,
		Sectors:       sectors,
		Magnitude:     worstAvg * g.RetaliationShare,
		Justification: "Proportional response to tariffs on our exports",
	}
}

func (g *GenericAgent) CalculateTariffPolicy(st *state.State, target string) economy.TariffPolicy {
	rates := make(map[string]float64)
	for _, p := range st.ActiveTariffPolicies(target, g.country) {
		for s, r := range p.SectorRates {
			rates[s] += r * g.RetaliationShare
		}
	}
	if len(rates) == 0 {
		rates = uniformRates(g.sectors, 0.05)
	}
	return economy.NewTariffPolicy(g.country, target, rates, 4)
}

func policySectors(policies []economy.TariffPolicy) []string {
	seen := make(map[string]bool)
	for _, p := range policies {
		for s := range p.SectorRates {
			seen[s] = true
		}
	}
	return economy.SortedKeys(seen)
}
