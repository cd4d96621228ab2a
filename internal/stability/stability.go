// Package stability scores global and per-country economic stability.
package stability

import (
	"errors"
	"math"
	"slices"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// ErrNoIndicators is returned for a country with no indicator history.
var ErrNoIndicators = errors.New("no economic data available")

// Trend labels.
const (
	TrendImproving     = "improving"
	TrendStable        = "stable"
	TrendDeteriorating = "deteriorating"
	TrendInsufficient  = "insufficient data"
)

const (
	neutralScore     = 0.5
	eventImpactScale = 0.02
	trendWindow      = 5
	trendMinPoints   = 3
	trendSlope       = 0.01
	minVolatilityObs = 3
	idealInflation   = 0.02
)

// Thresholds control how quickly each sub-score decays to zero.
type Thresholds struct {
	Tariff     float64 // Average tariff rate that scores 0
	Volatility float64 // Combined stdev that scores 0
	Deficit    float64 // |balance|/GDP that scores 0
}

// DefaultThresholds returns the standard calibration.
func DefaultThresholds() Thresholds {
	return Thresholds{Tariff: 0.25, Volatility: 0.03, Deficit: 0.1}
}

var globalWeights = map[string]float64{
	"tariff_level":        0.25,
	"retaliation":         0.25,
	"trade_imbalance":     0.20,
	"economic_volatility": 0.20,
	"external_events":     0.10,
}

var countryWeights = map[string]float64{
	"gdp_growth":    0.25,
	"inflation":     0.15,
	"unemployment":  0.15,
	"tariff_impact": 0.20,
	"trade_balance": 0.15,
	"confidence":    0.10,
}

// Factors is a per-factor score breakdown.
type Factors map[string]float64

// Report is a global stability reading.
type Report struct {
	Score   float64 `json:"score"`
	Factors Factors `json:"factors"`
	Trend   string  `json:"trend"`
}

// Analyzer scores stability and remembers recent global scores for trends.
type Analyzer struct {
	Thresholds Thresholds
	scores     []float64
}

// NewAnalyzer returns an analyzer with default thresholds.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Thresholds: DefaultThresholds()}
}

// Global scores the whole system. The trend treats the score as the next
// point after the recorded window but does not record it.
func (a *Analyzer) Global(st *state.State) Report {
	f := Factors{
		"tariff_level":        a.tariffLevel(st),
		"retaliation":         retaliation(st),
		"trade_imbalance":     a.tradeImbalance(st),
		"economic_volatility": a.volatility(st),
		"external_events":     externalEvents(st),
	}
	score := economy.Clamp01(weighted(f, globalWeights))
	return Report{Score: score, Factors: f, Trend: labelTrend(a.window(score))}
}

// Observe scores the system once per step and records the score for later trends.
func (a *Analyzer) Observe(st *state.State) Report {
	r := a.Global(st)
	a.scores = a.window(r.Score)
	return r
}

// Country scores one country from its latest indicator.
func (a *Analyzer) Country(st *state.State, name string) (float64, Factors, error) {
	ind, ok := st.LatestIndicator(name)
	if !ok {
		return neutralScore, Factors{}, ErrNoIndicators
	}
	f := Factors{
		"gdp_growth":   economy.Clamp01(0.5 + ind.GDPGrowth*10),
		"inflation":    economy.Clamp01(1 - math.Abs(ind.Inflation-idealInflation)*10),
		"unemployment": economy.Clamp01(1 - ind.Unemployment*5),
		"confidence":   economy.Clamp01((ind.ConsumerConfidence + ind.BusinessConfidence) / 200),
	}

	incoming := st.ActiveTariffPolicies("", name)
	if len(incoming) == 0 {
		f["tariff_impact"] = 1
	} else {
		avg := 0.0
		for _, p := range incoming {
			avg += p.AverageRate()
		}
		avg /= float64(len(incoming))
		f["tariff_impact"] = economy.Clamp01(1 - avg*2)
	}

	if c := st.Country(name); c != nil && c.GDP > 0 && len(ind.TradeBalance) > 0 && a.Thresholds.Deficit > 0 {
		ratio := ind.TotalTradeBalance() / c.GDP
		f["trade_balance"] = 1 - math.Min(1, math.Abs(ratio)/a.Thresholds.Deficit)
	}

	return economy.Clamp01(weighted(f, countryWeights)), f, nil
}

// weighted averages the present factors, renormalizing their weights.
func weighted(f Factors, weights map[string]float64) float64 {
	sum, wsum := 0.0, 0.0
	for _, k := range economy.SortedKeys(f) {
		w, ok := weights[k]
		if !ok {
			continue
		}
		sum += f[k] * w
		wsum += w
	}
	if wsum == 0 {
		return neutralScore
	}
	return sum / wsum
}

func (a *Analyzer) tariffLevel(st *state.State) float64 {
	total, n := 0.0, 0
	for _, p := range st.TariffPolicies {
		for _, r := range p.SectorRates {
			total += r
			n++
		}
	}
	if n == 0 || a.Thresholds.Tariff <= 0 {
		return 1
	}
	return economy.Clamp01(1 - (total/float64(n))/a.Thresholds.Tariff)
}

// retaliation is one minus the share of directed tariff pairs that are
// reciprocated.
func retaliation(st *state.State) float64 {
	if len(st.TariffPolicies) < 2 {
		return 1
	}
	type pair struct{ src, dst string }
	pairs := make(map[pair]bool)
	for _, p := range st.TariffPolicies {
		pairs[pair{p.Source, p.Target}] = true
	}
	reciprocated := 0
	for p := range pairs {
		if pairs[pair{p.dst, p.src}] {
			reciprocated++
		}
	}
	return economy.Clamp01(1 - float64(reciprocated)/float64(len(pairs)))
}

func (a *Analyzer) tradeImbalance(st *state.State) float64 {
	var ratios []float64
	for _, c := range st.Countries {
		ind, ok := st.LatestIndicator(c.Name)
		if !ok || len(ind.TradeBalance) == 0 || c.GDP <= 0 {
			continue
		}
		ratios = append(ratios, math.Abs(ind.TotalTradeBalance()/c.GDP))
	}
	if len(ratios) == 0 || a.Thresholds.Deficit <= 0 {
		return neutralScore
	}
	return economy.Clamp01(1 - mean(ratios)/a.Thresholds.Deficit)
}

func (a *Analyzer) volatility(st *state.State) float64 {
	var scores []float64
	for _, c := range st.Countries {
		series := st.Indicators[c.Name]
		if len(series) < minVolatilityObs {
			continue
		}
		growth := make([]float64, len(series))
		inflation := make([]float64, len(series))
		for i, ind := range series {
			growth[i] = ind.GDPGrowth
			inflation[i] = ind.Inflation
		}
		combined := (stdev(growth) + stdev(inflation)) / 2
		if a.Thresholds.Volatility <= 0 {
			continue
		}
		scores = append(scores, economy.Clamp01(1-combined/a.Thresholds.Volatility))
	}
	if len(scores) == 0 {
		return neutralScore
	}
	return mean(scores)
}

func externalEvents(st *state.State) float64 {
	var impacts []float64
	for _, e := range st.ActiveEvents {
		for _, v := range e.GDPImpact {
			impacts = append(impacts, math.Abs(v))
		}
	}
	if len(impacts) == 0 {
		return 1
	}
	return economy.Clamp01(1 - mean(impacts)/eventImpactScale)
}

// window returns the recorded scores plus next, trimmed to the trend window.
func (a *Analyzer) window(next float64) []float64 {
	w := append(slices.Clone(a.scores), next)
	if len(w) > trendWindow {
		w = w[len(w)-trendWindow:]
	}
	return w
}

// labelTrend labels the least-squares slope of scores.
func labelTrend(scores []float64) string {
	if len(scores) < trendMinPoints {
		return TrendInsufficient
	}
	slope := Slope(scores)
	switch {
	case slope > trendSlope:
		return TrendImproving
	case slope < -trendSlope:
		return TrendDeteriorating
	default:
		return TrendStable
	}
}

// Slope is the least-squares slope of ys against 0..n-1.
func Slope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	var sx, sy, sxy, sxx float64
	for i, y := range ys {
		x := float64(i)
		sx += x
		sy += y
		sxy += x * y
		sxx += x * x
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// stdev is the population standard deviation.
func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	v := 0.0
	for _, x := range xs {
		v += (x - m) * (x - m)
	}
	return math.Sqrt(v / float64(len(xs)))
}
