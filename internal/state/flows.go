package state

import "github.com/talgya/tradewar/internal/economy"

// AddTradeFlow appends a flow to the history.
func (s *State) AddTradeFlow(f economy.TradeFlow) {
	s.TradeFlows = append(s.TradeFlows, f)
}

// LatestFlow returns the most recent exporter->importer flow.
// Ties on period go to the later record.
func (s *State) LatestFlow(exporter, importer string) (economy.TradeFlow, bool) {
	return s.latestFlow(exporter, importer, nil)
}

// LatestFlowBefore returns the most recent flow strictly before p.
func (s *State) LatestFlowBefore(exporter, importer string, p economy.Period) (economy.TradeFlow, bool) {
	return s.latestFlow(exporter, importer, &p)
}

func (s *State) latestFlow(exporter, importer string, before *economy.Period) (economy.TradeFlow, bool) {
	var best economy.TradeFlow
	found := false
	for _, f := range s.TradeFlows {
		if f.Exporter != exporter || f.Importer != importer {
			continue
		}
		if before != nil && !f.Period().Before(*before) {
			continue
		}
		if !found || !f.Period().Before(best.Period()) {
			best, found = f, true
		}
	}
	return best, found
}

// FlowsBefore returns the flows recorded strictly before p, oldest first.
func (s *State) FlowsBefore(p economy.Period) []economy.TradeFlow {
	var out []economy.TradeFlow
	for _, f := range s.TradeFlows {
		if f.Period().Before(p) {
			out = append(out, f)
		}
	}
	return out
}

// TradeBalance is exports(a->b) minus imports(b->a) over the full history.
func (s *State) TradeBalance(a, b string) float64 {
	exports, imports := 0.0, 0.0
	for _, f := range s.TradeFlows {
		switch {
		case f.Exporter == a && f.Importer == b:
			exports += f.TotalValue()
		case f.Exporter == b && f.Importer == a:
			imports += f.TotalValue()
		}
	}
	return exports - imports
}

// ExportsByPeriod totals a country's export value per period.
func (s *State) ExportsByPeriod(country string) map[economy.Period]float64 {
	out := make(map[economy.Period]float64)
	for _, f := range s.TradeFlows {
		if f.Exporter == country {
			out[f.Period()] += f.TotalValue()
		}
	}
	return out
}

// QueueFlowAdjustment schedules a multiplicative factor on the next
// exporter->importer flow. Factors on the same sector compound.
func (s *State) QueueFlowAdjustment(exporter, importer string, sectors []string, factor float64) {
	if factor < 0 {
		factor = 0
	}
	key := flowKey{exporter, importer}
	adj := s.adjustments[key]
	if adj == nil {
		adj = make(map[string]float64)
		s.adjustments[key] = adj
	}
	if len(sectors) == 0 {
		sectors = []string{AllSectors}
	}
	for _, sec := range sectors {
		if cur, ok := adj[sec]; ok {
			adj[sec] = cur * factor
		} else {
			adj[sec] = factor
		}
	}
}

// TakeFlowAdjustments returns and clears pending factors for a direction.
func (s *State) TakeFlowAdjustments(exporter, importer string) map[string]float64 {
	key := flowKey{exporter, importer}
	adj := s.adjustments[key]
	delete(s.adjustments, key)
	return adj
}

// PendingFlowAdjustments returns the queued factors without clearing them.
func (s *State) PendingFlowAdjustments(exporter, importer string) map[string]float64 {
	return s.adjustments[flowKey{exporter, importer}]
}
