// Package agents decides each country's quarterly economic action.
//
// Every country is driven by one Agent. The built-in agents follow fixed
// national playbooks; when an Advisor is attached they ask it first and fall
// back to the playbook on any failure.
package agents

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/llm"
	"github.com/talgya/tradewar/internal/state"
)

// Agent decides policy for one country.
type Agent interface {
	Country() string
	// DecideAction always returns a concrete action. StatusQuo is the safe default.
	DecideAction(st *state.State) economy.EconomicAction
	CalculateTariffPolicy(st *state.State, target string) economy.TariffPolicy
	UpdateStrategy(st *state.State)
	RecordAction(a economy.EconomicAction)
	History() []economy.EconomicAction
}

// Advisor is an external text generator consulted before the rules.
type Advisor = llm.Completer

const defaultAdvisorTokens = 512

// base carries the bookkeeping shared by every agent.
type base struct {
	country   string
	history   []economy.EconomicAction
	advisor   Advisor
	maxTokens int
	sectors   []string // Sectors shown to the advisor
}

func newBase(country string, advisor Advisor, sectors []string) base {
	return base{country: country, advisor: advisor, maxTokens: defaultAdvisorTokens, sectors: sectors}
}

func (b *base) Country() string { return b.country }

func (b *base) RecordAction(a economy.EconomicAction) {
	b.history = append(b.history, a.Clone())
}

func (b *base) History() []economy.EconomicAction {
	out := make([]economy.EconomicAction, len(b.history))
	for i, a := range b.history {
		out[i] = a.Clone()
	}
	return out
}

func (b *base) UpdateStrategy(*state.State) {}

// SetAdvisor attaches or clears the advisor.
func (b *base) SetAdvisor(a Advisor, maxTokens int) {
	b.advisor = a
	if maxTokens > 0 {
		b.maxTokens = maxTokens
	}
}

// advise asks the advisor for an action. ok is false when there is no
// advisor or its answer cannot be used.
func (b *base) advise(st *state.State) (economy.EconomicAction, bool) {
	if b.advisor == nil {
		return economy.EconomicAction{}, false
	}
	d, err := llm.GeneratePolicyDecision(b.advisor, b.policyContext(st), b.maxTokens)
	if err == nil {
		err = b.validate(st, d)
	}
	if err != nil {
		slog.Warn("advisor fallback", "country", b.country, "error", err)
		return economy.EconomicAction{}, false
	}
	return d.ToAction(b.country), true
}

func (b *base) validate(st *state.State, d llm.PolicyDecision) error {
	if d.Target == "" {
		return nil
	}
	if d.Target == b.country {
		return fmt.Errorf("advisor targeted own country")
	}
	if st.Country(d.Target) == nil {
		return fmt.Errorf("advisor targeted unknown country %q", d.Target)
	}
	return nil
}

func (b *base) policyContext(st *state.State) llm.PolicyContext {
	ctx := llm.PolicyContext{
		Country:  b.country,
		Year:     st.Year,
		Quarter:  st.Quarter,
		Balances: make(map[string]float64),
		Tariffs:  make(map[string]float64),
		Recent:   slices.Clone(st.RecentActions),
		Sectors:  b.sectors,
	}
	if c := st.Country(b.country); c != nil {
		ctx.GDP = c.GDP
		ctx.Inflation = c.InflationRate
		ctx.Unemployment = c.UnemploymentRate
	}
	if ind, ok := st.LatestIndicator(b.country); ok {
		ctx.GDPGrowth = ind.GDPGrowth
		ctx.Inflation = ind.Inflation
		ctx.Unemployment = ind.Unemployment
	}
	for _, other := range st.CountryNames() {
		if other == b.country {
			continue
		}
		ctx.Balances[other] = st.TradeBalance(b.country, other)
		if r := combinedRate(st.ActiveTariffPolicies(other, b.country)); r != 0 {
			ctx.Tariffs[other] = r
		}
	}
	for _, e := range st.ActiveEvents {
		ctx.Events = append(ctx.Events, e.Name)
	}
	return ctx
}

// combinedRate sums the average rates of the given policies.
func combinedRate(policies []economy.TariffPolicy) float64 {
	total := 0.0
	for _, p := range policies {
		total += p.AverageRate()
	}
	return total
}

// lastTargeted returns the most recent targeted action by country.
func lastTargeted(recent []economy.EconomicAction, country string) (economy.EconomicAction, bool) {
	for i := len(recent) - 1; i >= 0; i-- {
		a := recent[i]
		if a.Country == country && a.HasTarget() {
			return a, true
		}
	}
	return economy.EconomicAction{}, false
}

func uniformRates(sectors []string, rate float64) map[string]float64 {
	out := make(map[string]float64, len(sectors))
	for _, s := range sectors {
		out[s] = rate
	}
	return out
}
