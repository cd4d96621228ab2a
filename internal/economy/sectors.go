package economy

import (
	"maps"
	"slices"
)

// Sector names used across the model.
const (
	SectorAgriculture       = "agriculture"
	SectorManufacturing     = "manufacturing"
	SectorTechnology        = "technology"
	SectorRawMaterials      = "raw_materials"
	SectorServices          = "services"
	SectorHealthcare        = "healthcare"
	SectorEducation         = "education"
	SectorTourism           = "tourism"
	SectorNaturalResources  = "natural_resources"
	SectorRareEarthMinerals = "rare_earth_minerals"
	SectorDigitalServices   = "digital_services"
	SectorSemiconductors    = "semiconductors"
	SectorAI                = "ai"
	SectorGreenTech         = "green_tech"
	SectorBatteries         = "batteries"
	SectorRareEarths        = "rare_earths"
	SectorAutomotive        = "automotive"
	SectorElectronics       = "electronics"
	SectorEnergy            = "energy"
)

// Default trade-balance sector mix per exporter.
var sectorWeights = map[string]map[string]float64{
	"US": {
		SectorTechnology: 0.25, SectorServices: 0.20, SectorManufacturing: 0.15,
		SectorAgriculture: 0.10, SectorHealthcare: 0.10, SectorEducation: 0.05,
		SectorRawMaterials: 0.05, SectorNaturalResources: 0.05, SectorTourism: 0.05,
	},
	"China": {
		SectorManufacturing: 0.35, SectorTechnology: 0.20, SectorRawMaterials: 0.10,
		SectorRareEarthMinerals: 0.05, SectorAgriculture: 0.08, SectorServices: 0.07,
		SectorHealthcare: 0.05, SectorNaturalResources: 0.05, SectorTourism: 0.05,
	},
	"Indonesia": {
		SectorNaturalResources: 0.25, SectorAgriculture: 0.20, SectorManufacturing: 0.20,
		SectorTourism: 0.15, SectorRawMaterials: 0.10, SectorServices: 0.05,
		SectorTechnology: 0.05,
	},
}

var genericSectorWeights = map[string]float64{
	SectorManufacturing: 0.25, SectorServices: 0.20, SectorAgriculture: 0.15,
	SectorNaturalResources: 0.15, SectorTechnology: 0.10, SectorTourism: 0.10,
	SectorHealthcare: 0.05,
}

// SectorWeights returns a copy of the exporter's sector mix.
func SectorWeights(exporter string) map[string]float64 {
	if w, ok := sectorWeights[exporter]; ok {
		return maps.Clone(w)
	}
	return maps.Clone(genericSectorWeights)
}

// Trade-flow elasticity used when tariffs reshape bilateral volumes.
var tradeElasticities = map[string]float64{
	SectorAgriculture: -0.8, SectorManufacturing: -1.5, SectorTechnology: -2.0,
	SectorRawMaterials: -0.6, SectorServices: -1.8, SectorHealthcare: -1.2,
	SectorEducation: -1.0, SectorTourism: -2.5, SectorNaturalResources: -0.7,
	SectorRareEarthMinerals: -0.5,
}

// DefaultTradeElasticity applies to sectors missing from the table.
const DefaultTradeElasticity = -1.2

// TradeElasticity returns the sector's trade elasticity.
func TradeElasticity(sector string) float64 {
	if e, ok := tradeElasticities[sector]; ok {
		return e
	}
	return DefaultTradeElasticity
}

// TariffElasticities is the price-elasticity table used for optimal tariffs.
func TariffElasticities() map[string]float64 {
	return map[string]float64{
		SectorAgriculture: -1.5, SectorManufacturing: -2.0, SectorTechnology: -2.5,
		SectorRawMaterials: -1.0, SectorServices: -3.0, SectorHealthcare: -2.2,
		SectorEducation: -2.5, SectorTourism: -3.5, SectorNaturalResources: -0.8,
		SectorRareEarthMinerals: -0.5,
	}
}

var politicalSensitivity = map[string]map[string]float64{
	"US":        {SectorManufacturing: 0.8, SectorAgriculture: 0.7, SectorTechnology: 0.5},
	"China":     {SectorTechnology: 0.9, SectorManufacturing: 0.7, SectorRareEarthMinerals: 0.6},
	"Indonesia": {SectorAgriculture: 0.9, SectorNaturalResources: 0.8, SectorManufacturing: 0.7, SectorTourism: 0.6},
}

// DefaultPoliticalSensitivity applies to unlisted (country, sector) pairs.
const DefaultPoliticalSensitivity = 0.3

// PoliticalSensitivity returns how politically charged protecting a sector is.
func PoliticalSensitivity(country, sector string) float64 {
	if s, ok := politicalSensitivity[country][sector]; ok {
		return s
	}
	return DefaultPoliticalSensitivity
}

var baselineAnnualGrowth = map[string]float64{
	"US":        0.020,
	"China":     0.050,
	"Indonesia": 0.042,
}

// DefaultAnnualGrowth applies to unknown countries.
const DefaultAnnualGrowth = 0.025

// BaselineAnnualGrowth returns the country's trend growth rate.
func BaselineAnnualGrowth(country string) float64 {
	if g, ok := baselineAnnualGrowth[country]; ok {
		return g
	}
	return DefaultAnnualGrowth
}

var exportRatios = map[string]float64{
	"US":        0.10,
	"China":     0.20,
	"Indonesia": 0.25,
}

// DefaultExportRatio applies to unknown countries.
const DefaultExportRatio = 0.3

// ExportRatio returns exports as a share of GDP.
func ExportRatio(country string) float64 {
	if r, ok := exportRatios[country]; ok {
		return r
	}
	return DefaultExportRatio
}

// SortedKeys returns map keys in ascending order. Callers that draw
// randomness per key iterate in this order to stay reproducible.
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
