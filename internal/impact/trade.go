package impact

import (
	"math"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// Trade flow constants.
const (
	flowScaleExponent     = 0.4
	flowVolumeJitter      = 0.10
	flowSectorJitter      = 0.20
	flowPriceJitter       = 0.10
	exporterPriceAbsorb   = 0.3
	exporterGrowthWeight  = 0.6
	importerGrowthWeight  = 0.4
	growthJitter          = 0.005
	defaultQuarterlyTrade = 0.01
	minTradeGrowth        = -0.05
	maxTradeGrowth        = 0.07
)

// TradeUpdater advances bilateral trade flows one quarter at a time.
type TradeUpdater struct {
	// DiversionElasticity scales volume gained per point of tariff
	// advantage over competing exporters to the same importer.
	DiversionElasticity float64
	// MaxDiversion caps the fractional gain from diversion.
	MaxDiversion float64
}

// NewTradeUpdater returns an updater with default diversion parameters.
func NewTradeUpdater() *TradeUpdater {
	return &TradeUpdater{DiversionElasticity: 1.5, MaxDiversion: 0.5}
}

// UpdateTradeBalance appends a->b and b->a flows for the period (current
// period when nil) and returns the period's balance from a's perspective.
func (u *TradeUpdater) UpdateTradeBalance(st *state.State, a, b string, period *economy.Period) float64 {
	p := st.Period()
	if period != nil {
		p = *period
	}
	ab := u.nextFlow(st, a, b, p)
	ba := u.nextFlow(st, b, a, p)
	st.AddTradeFlow(ab)
	st.AddTradeFlow(ba)
	return ab.TotalValue() - ba.TotalValue()
}

// BaselineFlow synthesizes an exporter->importer flow from GDP and the
// exporter's sector mix.
func (u *TradeUpdater) BaselineFlow(st *state.State, exporter, importer string, p economy.Period) economy.TradeFlow {
	rng := st.Rand()
	var gE, gI float64
	if c := st.Country(exporter); c != nil {
		gE = c.GDP
	}
	if c := st.Country(importer); c != nil {
		gI = c.GDP
	}
	total := math.Pow(math.Max(0, gE*gI), flowScaleExponent) * baselineVolumeScale
	total *= 1 + jitter(rng.Float64(), flowVolumeJitter)

	weights := economy.SectorWeights(exporter)
	f := economy.TradeFlow{
		Exporter:      exporter,
		Importer:      importer,
		Year:          p.Year,
		Quarter:       p.Quarter,
		SectorVolumes: make(map[string]float64, len(weights)),
		SectorValues:  make(map[string]float64, len(weights)),
	}
	for _, sector := range economy.SortedKeys(weights) {
		vol := total * weights[sector] * (1 + jitter(rng.Float64(), flowSectorJitter))
		price := 1 + jitter(rng.Float64(), flowPriceJitter)
		f.SectorVolumes[sector] = vol
		f.SectorValues[sector] = vol * price
	}
	return f
}

// SeedFlows appends baseline flows in both directions for every pair.
func (u *TradeUpdater) SeedFlows(st *state.State, p economy.Period) {
	names := st.CountryNames()
	for i, a := range names {
		for _, b := range names[i+1:] {
			st.AddTradeFlow(u.BaselineFlow(st, a, b, p))
			st.AddTradeFlow(u.BaselineFlow(st, b, a, p))
		}
	}
}

func (u *TradeUpdater) nextFlow(st *state.State, exporter, importer string, p economy.Period) economy.TradeFlow {
	prior, ok := st.LatestFlowBefore(exporter, importer, p)
	if !ok {
		prior = u.BaselineFlow(st, exporter, importer, p)
	}

	rates := tariffRates(st, importer, exporter)
	rivals := rivalRates(st, importer, exporter)
	growth := u.growthRate(st, exporter, importer)
	adjust := st.TakeFlowAdjustments(exporter, importer)

	next := economy.TradeFlow{
		Exporter:      exporter,
		Importer:      importer,
		Year:          p.Year,
		Quarter:       p.Quarter,
		SectorVolumes: make(map[string]float64, len(prior.SectorVolumes)),
		SectorValues:  make(map[string]float64, len(prior.SectorVolumes)),
	}
	for _, sector := range economy.SortedKeys(prior.SectorVolumes) {
		vol := math.Max(0, prior.SectorVolumes[sector])
		unitPrice := 1.0
		if vol > 0 {
			unitPrice = prior.SectorValues[sector] / vol
		}

		rate, taxed := rates[sector]
		own := 1.0
		if taxed {
			own = math.Max(0, 1+economy.TradeElasticity(sector)*rate)
		}
		vol *= own
		// Diverted demand replaces the exporter's own-tariff loss first.
		if gap := rivals[sector] - rate; gap > 0 && own > 0 {
			vol *= (1 + math.Min(u.MaxDiversion, u.DiversionElasticity*gap)) / own
		}
		vol *= 1 + growth
		vol *= adjustmentFactor(adjust, sector)
		vol = math.Max(0, vol)

		next.SectorVolumes[sector] = vol
		if taxed {
			next.SectorValues[sector] = vol * math.Max(0, 1+rate-rate*exporterPriceAbsorb)
		} else {
			next.SectorValues[sector] = vol * math.Max(0, unitPrice)
		}
	}
	return next
}

// growthRate blends exporter and importer quarterly growth.
func (u *TradeUpdater) growthRate(st *state.State, exporter, importer string) float64 {
	g := exporterGrowthWeight*quarterlyGrowth(st, exporter) +
		importerGrowthWeight*quarterlyGrowth(st, importer) +
		jitter(st.Rand().Float64(), growthJitter)
	return economy.Clamp(g, minTradeGrowth, maxTradeGrowth)
}

func quarterlyGrowth(st *state.State, country string) float64 {
	ind, ok := st.LatestIndicator(country)
	if !ok {
		return defaultQuarterlyTrade
	}
	return ind.GDPGrowth / float64(st.QuartersPerYear)
}

// tariffRates sums active rates the importer charges the exporter per sector.
func tariffRates(st *state.State, importer, exporter string) map[string]float64 {
	rates := make(map[string]float64)
	for _, p := range st.ActiveTariffPolicies(importer, exporter) {
		for sector, r := range p.SectorRates {
			rates[sector] += r
		}
	}
	return rates
}

// rivalRates is the highest rate the importer charges any other exporter
// per sector.
func rivalRates(st *state.State, importer, exporter string) map[string]float64 {
	perRival := make(map[string]map[string]float64)
	for _, p := range st.ActiveTariffPolicies(importer, "") {
		if p.Target == exporter {
			continue
		}
		m := perRival[p.Target]
		if m == nil {
			m = make(map[string]float64)
			perRival[p.Target] = m
		}
		for sector, r := range p.SectorRates {
			m[sector] += r
		}
	}
	out := make(map[string]float64)
	for _, m := range perRival {
		for sector, r := range m {
			if r > out[sector] {
				out[sector] = r
			}
		}
	}
	return out
}

func adjustmentFactor(adjust map[string]float64, sector string) float64 {
	f := 1.0
	if v, ok := adjust[state.AllSectors]; ok {
		f *= v
	}
	if v, ok := adjust[sector]; ok {
		f *= v
	}
	return f
}

// jitter maps u in [0,1) to [-spread, spread).
func jitter(u, spread float64) float64 {
	return (2*u - 1) * spread
}
