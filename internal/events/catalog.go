package events

import "github.com/talgya/tradewar/internal/economy"

var allThree = []string{"US", "China", "Indonesia"}

func step(n int) *int { return &n }

// defaultCatalog returns the predefined shocks. GDP impacts are quarterly
// growth deltas.
func defaultCatalog() []economy.EventConfig {
	return []economy.EventConfig{
		{
			Name:              "Global Financial Crisis",
			Description:       "Major global financial crisis impacting all economies",
			Probability:       0.01,
			AffectedCountries: allThree,
			AffectedSectors:   []string{"banking", economy.SectorServices, economy.SectorManufacturing},
			GDPImpact:         map[string]float64{"US": -0.02, "China": -0.015, "Indonesia": -0.025},
			DurationQuarters:  4,
		},
		{
			Name:              "US Economic Recession",
			Description:       "Economic recession in the United States",
			Probability:       0.03,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorServices, economy.SectorManufacturing, economy.SectorTechnology},
			GDPImpact:         map[string]float64{"US": -0.015, "China": -0.01, "Indonesia": -0.005},
			DurationQuarters:  3,
		},
		{
			Name:              "US Presidential Election",
			Description:       "US Presidential election causing policy uncertainty",
			AffectedCountries: allThree,
			AffectedSectors:   []string{"all"},
			GDPImpact:         map[string]float64{"US": 0, "China": 0, "Indonesia": 0},
			DurationQuarters:  1,
			OneTime:           true,
			TriggerStep:       step(11),
		},
		{
			Name:              "China Credit Crunch",
			Description:       "Tightening credit conditions in China's economy",
			Probability:       0.02,
			AffectedCountries: allThree,
			AffectedSectors:   []string{"real_estate", economy.SectorManufacturing, "banking"},
			GDPImpact:         map[string]float64{"China": -0.02, "US": -0.005, "Indonesia": -0.01},
			DurationQuarters:  2,
		},
		{
			Name:              "Global Supply Chain Disruption",
			Description:       "Major disruption to global supply chains",
			Probability:       0.025,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorManufacturing, economy.SectorTechnology, economy.SectorRawMaterials},
			GDPImpact:         map[string]float64{"US": -0.01, "China": -0.015, "Indonesia": -0.01},
			DurationQuarters:  2,
		},
		{
			Name:              "Natural Disaster in Indonesia",
			Description:       "Major natural disaster affecting Indonesia's economy",
			Probability:       0.03,
			AffectedCountries: []string{"Indonesia"},
			AffectedSectors:   []string{economy.SectorAgriculture, economy.SectorManufacturing, economy.SectorTourism},
			GDPImpact:         map[string]float64{"Indonesia": -0.02},
			DurationQuarters:  2,
		},
		{
			Name:              "Global Oil Price Shock",
			Description:       "Sudden change in global oil prices",
			Probability:       0.02,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorEnergy, "transportation", economy.SectorManufacturing},
			GDPImpact:         map[string]float64{"US": -0.007, "China": -0.01, "Indonesia": 0.01},
			DurationQuarters:  3,
		},
		{
			Name:              "Major Technology Breakthrough",
			Description:       "Breakthrough in technology providing economic advantages",
			Probability:       0.01,
			AffectedCountries: []string{"US", "China"},
			AffectedSectors:   []string{economy.SectorTechnology, economy.SectorManufacturing},
			GDPImpact:         map[string]float64{"US": 0.01, "China": 0.007},
			DurationQuarters:  6,
		},
		{
			Name:              "Global Pandemic",
			Description:       "Global health crisis severely impacting all economies",
			Probability:       0.005,
			AffectedCountries: allThree,
			AffectedSectors:   []string{"all"},
			GDPImpact:         map[string]float64{"US": -0.03, "China": -0.025, "Indonesia": -0.035},
			DurationQuarters:  5,
			OneTime:           true,
		},
		{
			Name:              "Global Semiconductor Shortage",
			Description:       "Chip supply falls short of demand across electronics and autos",
			Probability:       0.03,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorSemiconductors, economy.SectorElectronics, economy.SectorAutomotive, economy.SectorTechnology},
			GDPImpact:         map[string]float64{"US": -0.006, "China": -0.008, "Indonesia": -0.004},
			DurationQuarters:  3,
		},
		{
			Name:              "AI Breakthrough Productivity Boom",
			Description:       "Frontier AI systems lift productivity in services and technology",
			Probability:       0.015,
			AffectedCountries: []string{"US", "China"},
			AffectedSectors:   []string{economy.SectorAI, economy.SectorTechnology, economy.SectorServices},
			GDPImpact:         map[string]float64{"US": 0.008, "China": 0.006},
			DurationQuarters:  4,
		},
		{
			Name:              "Electric Vehicle Market Disruption",
			Description:       "Price war and overcapacity reshape the EV supply chain",
			Probability:       0.025,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorAutomotive, economy.SectorBatteries, economy.SectorGreenTech},
			GDPImpact:         map[string]float64{"US": -0.003, "China": 0.004, "Indonesia": 0.005},
			DurationQuarters:  3,
		},
		{
			Name:              "Rare Earth Minerals Crisis",
			Description:       "Export curbs on critical minerals squeeze downstream producers",
			Probability:       0.02,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorRareEarths, economy.SectorRareEarthMinerals, economy.SectorTechnology, economy.SectorGreenTech},
			GDPImpact:         map[string]float64{"US": -0.007, "China": 0.003, "Indonesia": 0.002},
			DurationQuarters:  2,
		},
		{
			Name:              "Major Cyber Attack on Trade Infrastructure",
			Description:       "Coordinated attack disrupts ports, payments, and logistics systems",
			Probability:       0.02,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorDigitalServices, economy.SectorServices, economy.SectorTechnology},
			GDPImpact:         map[string]float64{"US": -0.005, "China": -0.004, "Indonesia": -0.003},
			DurationQuarters:  1,
		},
		{
			Name:              "Green Technology Subsidy Race",
			Description:       "Competing clean-energy subsidy packages redirect investment",
			Probability:       0.02,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorGreenTech, economy.SectorBatteries, economy.SectorEnergy},
			GDPImpact:         map[string]float64{"US": 0.003, "China": 0.004, "Indonesia": 0.002},
			DurationQuarters:  4,
		},
		{
			Name:              "Regional Trade Agreement Expansion",
			Description:       "Asian regional trade agreement deepens tariff cuts among members",
			Probability:       0.015,
			AffectedCountries: []string{"China", "Indonesia"},
			AffectedSectors:   []string{economy.SectorManufacturing, economy.SectorAgriculture, economy.SectorServices},
			GDPImpact:         map[string]float64{"China": 0.004, "Indonesia": 0.006},
			DurationQuarters:  6,
			OneTime:           true,
		},
		{
			Name:              "Nearshoring Wave",
			Description:       "Manufacturers relocate production closer to end markets",
			Probability:       0.02,
			AffectedCountries: allThree,
			AffectedSectors:   []string{economy.SectorManufacturing, economy.SectorElectronics, economy.SectorSemiconductors},
			GDPImpact:         map[string]float64{"US": 0.002, "China": -0.006, "Indonesia": 0.008},
			DurationQuarters:  4,
		},
	}
}
