package agents

import (
	"slices"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// Country names with dedicated agents.
const (
	US        = "US"
	China     = "China"
	Indonesia = "Indonesia"
)

// USAgent protects domestic industry and answers large deficits with tariffs.
type USAgent struct {
	base
	Aggressive       bool
	FocusSectors     []string
	DeficitThreshold float64 // Tariff China when the cumulative balance falls below this
	TariffMagnitude  float64
}

// NewUSAgent returns the US agent with its default strategy.
func NewUSAgent(advisor Advisor) *USAgent {
	focus := []string{economy.SectorTechnology, economy.SectorManufacturing, economy.SectorAgriculture}
	return &USAgent{
		base:             newBase(US, advisor, focus),
		Aggressive:       true,
		FocusSectors:     focus,
		DeficitThreshold: -100,
		TariffMagnitude:  0.25,
	}
}

func (u *USAgent) DecideAction(st *state.State) economy.EconomicAction {
	if a, ok := u.advise(st); ok {
		return a
	}
	if st.Country(China) != nil && st.TradeBalance(u.country, China) < u.DeficitThreshold {
		return economy.EconomicAction{
			Country:       u.country,
			Type:          economy.TariffIncrease,
			Target:        China,
			Sectors:       slices.Clone(u.FocusSectors),
			Magnitude:     u.TariffMagnitude,
			Justification: "Addressing trade imbalance and protecting US industries",
		}
	}
	return economy.StatusQuoAction(u.country, "Maintaining current policy")
}

func (u *USAgent) CalculateTariffPolicy(st *state.State, target string) economy.TariffPolicy {
	if target == China && u.Aggressive {
		return economy.NewTariffPolicy(u.country, target, map[string]float64{
			economy.SectorTechnology:    0.25,
			economy.SectorManufacturing: 0.25,
			economy.SectorAgriculture:   0.10,
			economy.SectorRawMaterials:  0.05,
			economy.SectorServices:      0.05,
		}, 4)
	}
	return economy.NewTariffPolicy(u.country, target, uniformRates(u.FocusSectors, 0.05), 4)
}
