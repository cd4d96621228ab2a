package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/impact"
)

// Step advances one quarter, rolling the year over, and runs the pipeline.
func (e *Engine) Step() []economy.EconomicAction {
	p := e.st.Period().Next(e.cfg.QuartersPerYear)
	return e.StepAt(p.Year, p.Quarter)
}

// StepAt runs the pipeline for an explicit period. It never fails; missing
// data resolves to defaults.
func (e *Engine) StepAt(year, quarter int) []economy.EconomicAction {
	st := e.st
	st.SetPeriod(year, quarter)

	// 1. External shocks.
	fired := e.events.GenerateEvents(st, year, quarter)
	st.AddEvents(fired...)

	// 2. Decisions are taken against the same pre-action state.
	actions := make([]economy.EconomicAction, 0, len(e.order))
	for _, name := range e.order {
		a := e.agents[name].DecideAction(st)
		if a.Country == "" {
			a.Country = name
		}
		if a.Timestamp.IsZero() {
			a.Timestamp = e.now()
		}
		actions = append(actions, a)
		slog.Debug("agent decided", "country", name, "action", a.Type, "target", a.Target, "magnitude", a.Magnitude)
	}
	for _, a := range actions {
		e.agents[a.Country].RecordAction(a)
		st.AddAction(a)
	}

	// 3. Policies, flow adjustments, and direct GDP nudges.
	for _, a := range actions {
		e.applyAction(a)
	}
	for _, a := range actions {
		e.applyNudge(a)
	}

	// 4. Growth.
	gdp := make(map[string]float64, len(e.order))
	factors := make(map[string]impact.Factors, len(e.order))
	for _, name := range e.order {
		c := st.Country(name)
		g, f := e.growth(st, name, year, quarter)
		c.GDP = max(0, c.GDP*(1+g))
		gdp[name] = c.GDP
		factors[name] = f
	}

	// 5. Trade flows for every pair, both directions.
	p := st.Period()
	for i, a := range e.order {
		for _, b := range e.order[i+1:] {
			e.trade.UpdateTradeBalance(st, a, b, &p)
		}
	}

	// 6. Indicators and expiry.
	st.FinalizeUpdate(year, quarter)

	// 7. Strategy hooks.
	for _, name := range e.order {
		e.agents[name].UpdateStrategy(st)
	}

	e.last = StepReport{
		Year:       year,
		Quarter:    quarter,
		Step:       st.CurrentStep(),
		Actions:    actions,
		Events:     fired,
		GDP:        gdp,
		GDPFactors: factors,
		Stability:  e.stability.Observe(st),
	}
	slog.Debug("step complete", "year", year, "quarter", quarter,
		"events", len(fired), "stability", e.last.Stability.Score)
	return actions
}

// Run steps years × quarters-per-year times, snapshotting after each step
// and invoking OnStep callbacks. ctx is checked between steps only.
func (e *Engine) Run(ctx context.Context, years int) ([]StepReport, error) {
	if years <= 0 {
		years = e.cfg.Years
	}
	total := years * e.cfg.QuartersPerYear
	start := time.Now()
	slog.Info("simulation started", "years", years, "steps", total, "countries", len(e.order), "seed", e.cfg.Seed)

	reports := make([]StepReport, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation cancelled", "completed_steps", i)
			return reports, err
		}
		e.Step()
		snap := e.st.Clone()
		e.history = append(e.history, snap)
		e.last.State = snap
		reports = append(reports, e.last)
		for _, fn := range e.onStep {
			fn(e.last)
		}
	}

	slog.Info("simulation completed",
		"steps", total,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"stability", e.last.Stability.Score,
		"trend", e.last.Stability.Trend,
	)
	return reports, nil
}
