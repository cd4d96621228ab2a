package engine

import (
	"log/slog"
	"math"
	"slices"

	"github.com/talgya/tradewar/internal/economy"
)

// Action effect parameters.
const (
	maxRedirect      = 0.20 // Diversification and friend-shoring volume gain
	maxSovereignty   = 0.50 // Data-sovereignty cut to incoming services
	maxQuotaCut      = 0.90
	maxExportControl = 0.90
	maxExportBoost   = 0.20
	maxDevaluation   = 0.50
	reliefQuarters   = 4
	minNudgeMag      = 0.05

	subsidyRate     = 0.02
	subsidyCap      = 0.010
	greenRate       = 0.015
	greenCap        = 0.008
	exportRate      = 0.01
	exportCap       = 0.005
	controlRate     = 0.03
	controlCap      = 0.020
	devaluationGain = 0.5 // Export boost per unit of devaluation
)

var (
	sovereigntySectors = []string{economy.SectorServices, economy.SectorDigitalServices}
	controlledSectors  = []string{economy.SectorTechnology, economy.SectorSemiconductors, economy.SectorAI}
)

// applyAction installs policies and queues flow adjustments for one action.
func (e *Engine) applyAction(a economy.EconomicAction) {
	st := e.st
	mag := math.Abs(a.Magnitude)

	switch a.Type {
	case economy.TariffIncrease, economy.TariffAdjustment:
		for _, target := range e.targets(a) {
			e.installPolicy(e.agents[a.Country].CalculateTariffPolicy(st, target))
		}

	case economy.TariffDecrease:
		for _, target := range e.targets(a) {
			e.installRelief(a, target, mag)
		}

	case economy.ImportQuota:
		for _, target := range e.targets(a) {
			st.QueueFlowAdjustment(target, a.Country, a.Sectors, 1-min(maxQuotaCut, mag))
		}

	case economy.SupplyChainDiversification, economy.FriendShoring:
		for _, target := range e.targets(a) {
			st.QueueFlowAdjustment(target, a.Country, a.Sectors, 1+min(maxRedirect, mag))
		}

	case economy.DataSovereignty:
		for _, target := range e.targets(a) {
			st.QueueFlowAdjustment(target, a.Country, sovereigntySectors, 1-min(maxSovereignty, mag))
		}

	case economy.TechExportControl:
		sectors := a.Sectors
		if len(sectors) == 0 {
			sectors = controlledSectors
		}
		for _, target := range e.targets(a) {
			st.QueueFlowAdjustment(a.Country, target, sectors, 1-min(maxExportControl, mag))
		}

	case economy.ExportSubsidy:
		for _, target := range e.targets(a) {
			st.QueueFlowAdjustment(a.Country, target, a.Sectors, 1+min(maxExportBoost, mag))
		}

	case economy.CurrencyDevaluation:
		for _, target := range e.targets(a) {
			st.QueueFlowAdjustment(a.Country, target, nil, 1+min(maxExportBoost, mag*devaluationGain))
		}

	case economy.Investment, economy.IndustrialSubsidy, economy.GreenTechInvestment, economy.StatusQuo:
		// GDP effects only.

	default:
		slog.Warn("unknown action type ignored", "country", a.Country, "action", a.Type)
	}
}

// applyNudge moves GDP or currency directly for actions with immediate effect.
func (e *Engine) applyNudge(a economy.EconomicAction) {
	actor := e.st.Country(a.Country)
	if actor == nil {
		return
	}
	mag := max(math.Abs(a.Magnitude), minNudgeMag)

	switch a.Type {
	case economy.CurrencyDevaluation:
		actor.CurrencyValue *= 1 - min(maxDevaluation, mag)
	case economy.IndustrialSubsidy:
		actor.GDP *= 1 + min(subsidyCap, subsidyRate*mag)
	case economy.GreenTechInvestment:
		actor.GDP *= 1 + min(greenCap, greenRate*mag)
	case economy.ExportSubsidy:
		actor.GDP *= 1 + min(exportCap, exportRate*mag)
	case economy.TechExportControl:
		for _, name := range e.targets(a) {
			if c := e.st.Country(name); c != nil {
				c.GDP *= 1 - min(controlCap, controlRate*mag)
			}
		}
	}
}

// targets resolves who an action applies to: its target, or every other
// country when untargeted. Unknown or self targets resolve to nothing.
func (e *Engine) targets(a economy.EconomicAction) []string {
	if a.HasTarget() {
		if a.Target == a.Country || e.st.Country(a.Target) == nil {
			slog.Warn("action target ignored", "country", a.Country, "action", a.Type, "target", a.Target)
			return nil
		}
		return []string{a.Target}
	}
	out := make([]string, 0, len(e.order)-1)
	for _, name := range e.order {
		if name != a.Country {
			out = append(out, name)
		}
	}
	return out
}

func (e *Engine) installPolicy(p economy.TariffPolicy) {
	if len(p.SectorRates) == 0 {
		return
	}
	e.st.AddTariffPolicy(p)
	imp := e.tariffs.CalculateImpact(e.st, p)
	e.tariffs.ApplyImpact(e.st, p, imp)
	slog.Debug("tariff installed", "source", p.Source, "target", p.Target,
		"avg_rate", p.AverageRate(), "quarters", p.DurationQuarters)
}

// installRelief offsets a share of the active rates the actor charges the
// target. Relief never outlasts the policies it offsets.
func (e *Engine) installRelief(a economy.EconomicAction, target string, mag float64) {
	active := e.st.ActiveTariffPolicies(a.Country, target)
	if len(active) == 0 {
		slog.Debug("tariff decrease without active tariffs", "country", a.Country, "target", target)
		return
	}

	share := min(1, mag)
	current := e.st.CurrentStep()
	remaining := reliefQuarters
	relief := make(map[string]float64)
	for _, p := range active {
		if start, ok := e.st.PolicyStartStep(p.ID); ok {
			remaining = min(remaining, max(1, p.DurationQuarters-(current-start)))
		}
		for sector, rate := range p.SectorRates {
			if len(a.Sectors) > 0 && !slices.Contains(a.Sectors, sector) {
				continue
			}
			relief[sector] -= share * rate
		}
	}
	for sector, r := range relief {
		if r == 0 {
			delete(relief, sector)
		}
	}
	if len(relief) == 0 {
		return
	}
	e.installPolicy(economy.NewTariffPolicy(a.Country, target, relief, remaining))
}
