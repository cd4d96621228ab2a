// Package state holds the mutable ledger of a trade-war simulation run.
package state

import (
	"math/rand"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/tradewar/internal/economy"
)

// MaxRecentActions bounds the recent-action buffer.
const MaxRecentActions = 10

// State holds countries, flow history, indicators, and active policies/events.
type State struct {
	Countries       []*economy.Country
	QuartersPerYear int
	Year            int
	Quarter         int

	TradeFlows     []economy.TradeFlow                    // Append-only
	Indicators     map[string][]economy.EconomicIndicator // Country -> time series
	TariffPolicies []economy.TariffPolicy                 // Active only
	ActiveEvents   []economy.EventConfig

	RecentActions []economy.EconomicAction // Last MaxRecentActions
	AllActions    []economy.EconomicAction

	// Expiry bookkeeping keyed by instance ID.
	policyStart map[uuid.UUID]int
	eventStart  map[uuid.UUID]int

	gdpSnapshots map[string][]GDPSnapshot
	adjustments  map[flowKey]map[string]float64

	rng *rand.Rand
}

// GDPSnapshot is a country's GDP recorded at an absolute step.
type GDPSnapshot struct {
	Step int     `json:"step"`
	GDP  float64 `json:"gdp"`
}

type flowKey struct{ exporter, importer string }

// AllSectors in a flow adjustment applies the factor to every sector.
const AllSectors = "*"

// New creates a state for the given countries. A nil rng gets a fixed seed.
func New(countries []*economy.Country, quartersPerYear int, rng *rand.Rand) *State {
	if quartersPerYear <= 0 {
		quartersPerYear = 4
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(42))
	}
	return &State{
		Countries:       countries,
		QuartersPerYear: quartersPerYear,
		Indicators:      make(map[string][]economy.EconomicIndicator),
		policyStart:     make(map[uuid.UUID]int),
		eventStart:      make(map[uuid.UUID]int),
		gdpSnapshots:    make(map[string][]GDPSnapshot),
		adjustments:     make(map[flowKey]map[string]float64),
		rng:             rng,
	}
}

// Rand returns the run's random source.
func (s *State) Rand() *rand.Rand {
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(0))
	}
	return s.rng
}

// Country looks up a country by name.
func (s *State) Country(name string) *economy.Country {
	for _, c := range s.Countries {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// CountryNames returns names in simulation order.
func (s *State) CountryNames() []string {
	names := make([]string, len(s.Countries))
	for i, c := range s.Countries {
		names[i] = c.Name
	}
	return names
}

// Period returns the current (year, quarter).
func (s *State) Period() economy.Period {
	return economy.Period{Year: s.Year, Quarter: s.Quarter}
}

// SetPeriod moves the clock.
func (s *State) SetPeriod(year, quarter int) {
	s.Year, s.Quarter = year, quarter
}

// CurrentStep is the absolute step of the current period.
func (s *State) CurrentStep() int {
	return s.Period().Step(s.QuartersPerYear)
}

// AddAction logs an action in both the bounded and unbounded logs.
func (s *State) AddAction(a economy.EconomicAction) {
	s.RecentActions = append(s.RecentActions, a)
	if n := len(s.RecentActions); n > MaxRecentActions {
		s.RecentActions = slices.Clone(s.RecentActions[n-MaxRecentActions:])
	}
	s.AllActions = append(s.AllActions, a)
}

// AddTariffPolicy activates a policy at the current step.
func (s *State) AddTariffPolicy(p economy.TariffPolicy) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.TariffPolicies = append(s.TariffPolicies, p)
	s.policyStart[p.ID] = s.CurrentStep()
}

// AddEvents activates events at the current step.
func (s *State) AddEvents(events ...economy.EventConfig) {
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		s.ActiveEvents = append(s.ActiveEvents, e)
		s.eventStart[e.ID] = s.CurrentStep()
	}
}

// PolicyStartStep returns the step a policy was activated at.
func (s *State) PolicyStartStep(id uuid.UUID) (int, bool) {
	step, ok := s.policyStart[id]
	return step, ok
}

// EventStartStep returns the step an event was activated at.
func (s *State) EventStartStep(id uuid.UUID) (int, bool) {
	step, ok := s.eventStart[id]
	return step, ok
}

// ActiveTariffPolicies returns policies matching source and target exactly.
// An empty source or target matches any country.
func (s *State) ActiveTariffPolicies(source, target string) []economy.TariffPolicy {
	var out []economy.TariffPolicy
	for _, p := range s.TariffPolicies {
		if (source == "" || p.Source == source) && (target == "" || p.Target == target) {
			out = append(out, p)
		}
	}
	return out
}

// ApplyTariffImpact moves GDP of the imposing (importer) and target (exporter) countries.
func (s *State) ApplyTariffImpact(imposing, target string, impact economy.TariffImpact) {
	if c := s.Country(target); c != nil {
		c.GDP = max(0, c.GDP+impact.GDPImpactExporter)
	}
	if c := s.Country(imposing); c != nil {
		c.GDP = max(0, c.GDP+impact.GDPImpactImporter)
	}
}

// RemoveExpiredItems drops policies and events whose window has elapsed.
func (s *State) RemoveExpiredItems() {
	current := s.CurrentStep()

	kept := s.TariffPolicies[:0]
	for _, p := range s.TariffPolicies {
		start, ok := s.policyStart[p.ID]
		if ok && current-start >= p.DurationQuarters {
			delete(s.policyStart, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	s.TariffPolicies = kept

	keptEvents := s.ActiveEvents[:0]
	for _, e := range s.ActiveEvents {
		start, ok := s.eventStart[e.ID]
		if ok && current-start >= e.DurationQuarters {
			delete(s.eventStart, e.ID)
			continue
		}
		keptEvents = append(keptEvents, e)
	}
	s.ActiveEvents = keptEvents
}

// LatestIndicator returns the most recent indicator for a country.
func (s *State) LatestIndicator(country string) (economy.EconomicIndicator, bool) {
	series := s.Indicators[country]
	if len(series) == 0 {
		return economy.EconomicIndicator{}, false
	}
	return series[len(series)-1], true
}

// RecordGDPSnapshot stores each country's GDP at the current step unless
// already recorded for that step.
func (s *State) RecordGDPSnapshot() {
	step := s.CurrentStep()
	for _, c := range s.Countries {
		snaps := s.gdpSnapshots[c.Name]
		if n := len(snaps); n > 0 && snaps[n-1].Step == step {
			continue
		}
		s.gdpSnapshots[c.Name] = append(snaps, GDPSnapshot{Step: step, GDP: c.GDP})
	}
}

func (s *State) upsertGDPSnapshot(c *economy.Country, step int) {
	snaps := s.gdpSnapshots[c.Name]
	if n := len(snaps); n > 0 && snaps[n-1].Step == step {
		snaps[n-1].GDP = c.GDP
		return
	}
	s.gdpSnapshots[c.Name] = append(snaps, GDPSnapshot{Step: step, GDP: c.GDP})
}

// GDPSnapshots returns a copy of a country's snapshot history.
func (s *State) GDPSnapshots(country string) []GDPSnapshot {
	return slices.Clone(s.gdpSnapshots[country])
}

func (s *State) priorSnapshot(country string, step int) (GDPSnapshot, bool) {
	snaps := s.gdpSnapshots[country]
	for i := len(snaps) - 1; i >= 0; i-- {
		if snaps[i].Step < step {
			return snaps[i], true
		}
	}
	return GDPSnapshot{}, false
}
