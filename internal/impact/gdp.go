package impact

import (
	"math"
	"slices"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// GDP growth constants.
const (
	outgoingTariffDrag = 0.05
	incomingTariffDrag = 0.15
	investmentMultiple = 1.5
	globalCycleAmp     = 0.005
	globalCycleYears   = 5
	gdpNoise           = 0.0025
	minQuarterlyGrowth = -0.08
	maxQuarterlyGrowth = 0.10
)

// Factors is a named breakdown of a computed value.
type Factors map[string]float64

// CalculateGDPImpact returns the country's quarterly growth rate for
// (year, quarter) and the contribution of each factor.
func CalculateGDPImpact(st *state.State, country string, year, quarter int) (float64, Factors) {
	f := Factors{
		"baseline":            baselineGrowth(country),
		"tariff_impact":       tariffDrag(st, country),
		"trade_impact":        tradeContribution(st, country, economy.Period{Year: year, Quarter: quarter}),
		"investment_impact":   investmentContribution(st, country),
		"event_impact":        eventContribution(st, country),
		"global_cycle_impact": GlobalCycle(year, quarter, st.QuartersPerYear),
		"noise":               jitter(st.Rand().Float64(), gdpNoise),
	}
	total := 0.0
	for _, k := range economy.SortedKeys(f) {
		total += f[k]
	}
	growth := economy.Clamp(total, minQuarterlyGrowth, maxQuarterlyGrowth)
	f["total"] = growth
	return growth, f
}

func baselineGrowth(country string) float64 {
	return math.Pow(1+economy.BaselineAnnualGrowth(country), 0.25) - 1
}

func tariffDrag(st *state.State, country string) float64 {
	drag := 0.0
	for _, p := range st.ActiveTariffPolicies(country, "") {
		drag -= p.AverageRate() * outgoingTariffDrag
	}
	for _, p := range st.ActiveTariffPolicies("", country) {
		drag -= p.AverageRate() * incomingTariffDrag
	}
	return drag
}

// tradeContribution is the growth of the latest period's exports over the
// total of all earlier periods, scaled by the export share of GDP.
func tradeContribution(st *state.State, country string, upTo economy.Period) float64 {
	byPeriod := st.ExportsByPeriod(country)
	periods := make([]economy.Period, 0, len(byPeriod))
	for p := range byPeriod {
		if !upTo.Before(p) {
			periods = append(periods, p)
		}
	}
	if len(periods) < 2 {
		return 0
	}
	slices.SortFunc(periods, func(a, b economy.Period) int {
		return a.Step(st.QuartersPerYear) - b.Step(st.QuartersPerYear)
	})

	latest := byPeriod[periods[len(periods)-1]]
	prior := 0.0
	for _, p := range periods[:len(periods)-1] {
		prior += byPeriod[p]
	}
	if prior <= 0 {
		return 0
	}
	return (latest - prior) / prior * economy.ExportRatio(country)
}

func investmentContribution(st *state.State, country string) float64 {
	sum := 0.0
	for _, a := range st.RecentActions {
		if a.Country == country && a.Type == economy.Investment {
			sum += a.Magnitude * investmentMultiple
		}
	}
	return sum
}

func eventContribution(st *state.State, country string) float64 {
	sum := 0.0
	for _, e := range st.ActiveEvents {
		if e.Affects(country) {
			sum += e.GDPImpact[country]
		}
	}
	return sum
}

// GlobalCycle is the shared five-year sinusoidal macro cycle.
func GlobalCycle(year, quarter, quartersPerYear int) float64 {
	if quartersPerYear <= 0 {
		quartersPerYear = 4
	}
	period := globalCycleYears * quartersPerYear
	phase := float64((year*quartersPerYear+quarter)%period) / float64(period)
	return globalCycleAmp * math.Sin(2*math.Pi*phase)
}
