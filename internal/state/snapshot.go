package state

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/tradewar/internal/economy"
)

// Snapshot is a serializable value copy of a State.
type Snapshot struct {
	Year            int                                    `json:"year"`
	Quarter         int                                    `json:"quarter"`
	QuartersPerYear int                                    `json:"quarters_per_year"`
	Countries       []economy.Country                      `json:"countries"`
	TradeFlows      []economy.TradeFlow                    `json:"trade_flows"`
	Indicators      map[string][]economy.EconomicIndicator `json:"indicators"`
	TariffPolicies  []ActivePolicy                         `json:"tariff_policies"`
	ActiveEvents    []ActiveEvent                          `json:"active_events"`
	RecentActions   []economy.EconomicAction               `json:"recent_actions"`
	AllActions      []economy.EconomicAction               `json:"all_actions"`
	GDPSnapshots    map[string][]GDPSnapshot               `json:"gdp_snapshots"`
}

// ActivePolicy pairs a policy with its activation step.
type ActivePolicy struct {
	Policy    economy.TariffPolicy `json:"policy"`
	StartStep int                  `json:"start_step"`
}

// ActiveEvent pairs an event with its activation step.
type ActiveEvent struct {
	Event     economy.EventConfig `json:"event"`
	StartStep int                 `json:"start_step"`
}

// Clone records the current GDP snapshot and returns an independent copy.
// The copy does not share the random source.
func (s *State) Clone() *State {
	s.RecordGDPSnapshot()

	cp := New(nil, s.QuartersPerYear, nil)
	cp.rng = nil
	cp.Year, cp.Quarter = s.Year, s.Quarter

	cp.Countries = make([]*economy.Country, len(s.Countries))
	for i, c := range s.Countries {
		cp.Countries[i] = c.Clone()
	}
	cp.TradeFlows = make([]economy.TradeFlow, len(s.TradeFlows))
	for i, f := range s.TradeFlows {
		cp.TradeFlows[i] = f.Clone()
	}
	for name, series := range s.Indicators {
		out := make([]economy.EconomicIndicator, len(series))
		for i, ind := range series {
			out[i] = ind.Clone()
		}
		cp.Indicators[name] = out
	}
	cp.TariffPolicies = make([]economy.TariffPolicy, len(s.TariffPolicies))
	for i, p := range s.TariffPolicies {
		cp.TariffPolicies[i] = p.Clone()
	}
	cp.ActiveEvents = make([]economy.EventConfig, len(s.ActiveEvents))
	for i, e := range s.ActiveEvents {
		cp.ActiveEvents[i] = e.Clone()
	}
	cp.RecentActions = cloneActions(s.RecentActions)
	cp.AllActions = cloneActions(s.AllActions)
	cp.policyStart = maps.Clone(s.policyStart)
	cp.eventStart = maps.Clone(s.eventStart)
	for name, snaps := range s.gdpSnapshots {
		cp.gdpSnapshots[name] = slices.Clone(snaps)
	}
	for k, adj := range s.adjustments {
		cp.adjustments[k] = maps.Clone(adj)
	}
	return cp
}

func cloneActions(in []economy.EconomicAction) []economy.EconomicAction {
	out := make([]economy.EconomicAction, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

// Export returns a value snapshot suitable for serialization.
func (s *State) Export() Snapshot {
	c := s.Clone()
	snap := Snapshot{
		Year:            c.Year,
		Quarter:         c.Quarter,
		QuartersPerYear: c.QuartersPerYear,
		TradeFlows:      c.TradeFlows,
		Indicators:      c.Indicators,
		RecentActions:   c.RecentActions,
		AllActions:      c.AllActions,
		GDPSnapshots:    c.gdpSnapshots,
	}
	for _, country := range c.Countries {
		snap.Countries = append(snap.Countries, *country)
	}
	for _, p := range c.TariffPolicies {
		snap.TariffPolicies = append(snap.TariffPolicies, ActivePolicy{Policy: p, StartStep: c.policyStart[p.ID]})
	}
	for _, e := range c.ActiveEvents {
		snap.ActiveEvents = append(snap.ActiveEvents, ActiveEvent{Event: e, StartStep: c.eventStart[e.ID]})
	}
	return snap
}

// FromSnapshot rebuilds a State. The result has no random source of its own
// until Rand is first called.
func FromSnapshot(snap Snapshot) *State {
	countries := make([]*economy.Country, len(snap.Countries))
	for i := range snap.Countries {
		countries[i] = snap.Countries[i].Clone()
	}
	s := New(countries, snap.QuartersPerYear, nil)
	s.rng = nil
	s.Year, s.Quarter = snap.Year, snap.Quarter
	s.TradeFlows = slices.Clone(snap.TradeFlows)
	if snap.Indicators != nil {
		s.Indicators = snap.Indicators
	}
	s.RecentActions = slices.Clone(snap.RecentActions)
	s.AllActions = slices.Clone(snap.AllActions)
	if snap.GDPSnapshots != nil {
		s.gdpSnapshots = snap.GDPSnapshots
	}
	for _, ap := range snap.TariffPolicies {
		id := ap.Policy.ID
		if id == uuid.Nil {
			id = uuid.New()
			ap.Policy.ID = id
		}
		s.TariffPolicies = append(s.TariffPolicies, ap.Policy)
		s.policyStart[id] = ap.StartStep
	}
	for _, ae := range snap.ActiveEvents {
		id := ae.Event.ID
		if id == uuid.Nil {
			id = uuid.New()
			ae.Event.ID = id
		}
		s.ActiveEvents = append(s.ActiveEvents, ae.Event)
		s.eventStart[id] = ae.StartStep
	}
	return s
}
