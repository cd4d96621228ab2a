package impact

import (
	"fmt"
	"math"

	"github.com/talgya/tradewar/internal/economy"
)

// Objective selects what an optimal tariff maximizes.
type Objective string

const (
	ObjectiveWelfare  Objective = "welfare"
	ObjectiveRevenue  Objective = "revenue"
	ObjectivePolitics Objective = "politics"
)

// CalculateOptimalTariff returns a rate in [0, 1] for every sector in
// elasticities. A nil table uses economy.TariffElasticities.
func CalculateOptimalTariff(country string, objective Objective, elasticities map[string]float64) (map[string]float64, error) {
	if elasticities == nil {
		elasticities = economy.TariffElasticities()
	}
	rates := make(map[string]float64, len(elasticities))
	for sector, e := range elasticities {
		abs := math.Abs(e)
		var rate float64
		switch objective {
		case ObjectiveWelfare:
			rate = math.Min(1/abs, 0.5)
		case ObjectiveRevenue:
			rate = math.Min(1/(1+abs), 0.7)
		case ObjectivePolitics:
			sensitivity := economy.PoliticalSensitivity(country, sector)
			rate = math.Min((1/abs)*(1+sensitivity), 0.8)
		default:
			return nil, fmt.Errorf("unknown tariff objective %q", objective)
		}
		if math.IsNaN(rate) {
			rate = 0
		}
		rates[sector] = economy.Clamp01(rate)
	}
	return rates, nil
}
