// Package events generates scheduled and random exogenous shocks.
package events

import (
	"log/slog"
	"math/rand"
	"slices"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// Generator draws events from a fixed catalog.
type Generator struct {
	rng       *rand.Rand
	catalog   []economy.EventConfig
	triggered map[string]bool // One-time and scheduled events already fired
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		rng:       rng,
		catalog:   defaultCatalog(),
		triggered: make(map[string]bool),
	}
}

// NewGeneratorSeed creates a generator with its own seeded source.
func NewGeneratorSeed(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// Catalog returns a copy of the predefined events.
func (g *Generator) Catalog() []economy.EventConfig {
	out := make([]economy.EventConfig, len(g.catalog))
	for i, e := range g.catalog {
		out[i] = e.Clone()
	}
	return out
}

// Triggered returns names of events that can no longer fire.
func (g *Generator) Triggered() []string {
	names := make([]string, 0, len(g.triggered))
	for n := range g.triggered {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// GenerateEvents returns fresh event instances for (year, quarter).
// Random events whose affected countries are all absent from st are dropped
// after sampling so the draw sequence does not depend on the country list.
func (g *Generator) GenerateEvents(st *state.State, year, quarter int) []economy.EventConfig {
	qpy := 4
	if st != nil && st.QuartersPerYear > 0 {
		qpy = st.QuartersPerYear
	}
	timeline := economy.Period{Year: year, Quarter: quarter}.Step(qpy)
	var out []economy.EventConfig

	for _, e := range g.catalog {
		if e.TriggerStep == nil || g.triggered[e.Name] {
			continue
		}
		if *e.TriggerStep == timeline {
			out = append(out, e.Activate())
			g.triggered[e.Name] = true
		}
	}

	for _, e := range g.catalog {
		if e.TriggerStep != nil {
			continue
		}
		if e.OneTime && g.triggered[e.Name] {
			continue
		}
		if g.rng.Float64() >= e.Probability {
			continue
		}
		if e.OneTime {
			g.triggered[e.Name] = true
		}
		if st != nil && !touches(st, e) {
			continue
		}
		out = append(out, e.Activate())
	}

	if len(out) > 0 {
		names := make([]string, len(out))
		for i, e := range out {
			names[i] = e.Name
		}
		slog.Info("events generated", "year", year, "quarter", quarter, "events", names)
	}
	return out
}

func touches(st *state.State, e economy.EventConfig) bool {
	for _, name := range e.AffectedCountries {
		if st.Country(name) != nil {
			return true
		}
	}
	return false
}
