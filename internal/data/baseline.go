package data

import (
	"maps"

	"github.com/talgya/tradewar/internal/economy"
)

type baseline struct {
	gdp        float64
	population int64
	inflation  float64
	unemploy   float64
	interest   float64
	sectors    map[string]float64
	partners   []string
}

var baselines = map[string]baseline{
	"US": {
		gdp: 28.8, population: 335_000_000, inflation: 0.031, unemploy: 0.039, interest: 0.0525,
		sectors: map[string]float64{
			economy.SectorTechnology: 0.25, economy.SectorServices: 0.40, economy.SectorManufacturing: 0.15,
			economy.SectorAgriculture: 0.02, economy.SectorHealthcare: 0.10, economy.SectorNaturalResources: 0.05,
			economy.SectorEducation: 0.03,
		},
		partners: []string{"China", "Indonesia"},
	},
	"China": {
		gdp: 17.8, population: 1_410_000_000, inflation: 0.002, unemploy: 0.051, interest: 0.0345,
		sectors: map[string]float64{
			economy.SectorManufacturing: 0.35, economy.SectorTechnology: 0.15, economy.SectorServices: 0.25,
			economy.SectorAgriculture: 0.08, economy.SectorNaturalResources: 0.10,
			economy.SectorRareEarthMinerals: 0.05, economy.SectorEducation: 0.02,
		},
		partners: []string{"US", "Indonesia"},
	},
	"Indonesia": {
		gdp: 1.42, population: 277_000_000, inflation: 0.028, unemploy: 0.053, interest: 0.06,
		sectors: map[string]float64{
			economy.SectorAgriculture: 0.15, economy.SectorNaturalResources: 0.25,
			economy.SectorManufacturing: 0.20, economy.SectorServices: 0.30,
			economy.SectorTourism: 0.08, economy.SectorTechnology: 0.02,
		},
		partners: []string{"China", "US"},
	},
}

// Baseline returns the built-in record for a known country.
func Baseline(name string) (*economy.Country, bool) {
	b, ok := baselines[name]
	if !ok {
		return nil, false
	}
	return &economy.Country{
		Name:             name,
		GDP:              b.gdp,
		Population:       b.population,
		InflationRate:    b.inflation,
		UnemploymentRate: b.unemploy,
		InterestRate:     b.interest,
		CurrencyValue:    DefaultCurrency,
		Sectors:          maps.Clone(b.sectors),
		TradingPartners:  append([]string(nil), b.partners...),
	}, true
}

// BaselineNames lists countries with built-in records.
func BaselineNames() []string {
	return economy.SortedKeys(baselines)
}
