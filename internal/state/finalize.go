package state

import (
	"math"

	"github.com/talgya/tradewar/internal/economy"
)

// Indicator dynamics.
const (
	defaultAnnualGrowth = 0.02
	trendQuarterly      = 0.005
	baseInflation       = 0.02
	incomingTariffPass  = 0.12
	outgoingTariffPass  = 0.04
	demandPressure      = 0.5
	okunCoefficient     = 0.5
	neutralConfidence   = 100.0
)

// FinalizeUpdate appends an indicator per country for (year, quarter) and
// expires stale policies and events.
func (s *State) FinalizeUpdate(year, quarter int) {
	s.SetPeriod(year, quarter)
	step := s.CurrentStep()
	qpy := float64(s.QuartersPerYear)

	for _, c := range s.Countries {
		annual := s.snapshotGrowth(c, step, qpy)
		q := annual / qpy

		incoming := s.tariffPressure("", c.Name)
		outgoing := s.tariffPressure(c.Name, "")

		inflation := baseInflation +
			incoming*incomingTariffPass +
			outgoing*outgoingTariffPass +
			math.Max(0, q-trendQuarterly)*demandPressure
		inflation = economy.Clamp(inflation, -0.02, 0.2)

		prev, hasPrev := s.LatestIndicator(c.Name)
		prevU := c.UnemploymentRate
		prevConsumer, prevBusiness := neutralConfidence, neutralConfidence
		if hasPrev {
			prevU = prev.Unemployment
			prevConsumer = prev.ConsumerConfidence
			prevBusiness = prev.BusinessConfidence
		}
		if prevU == 0 {
			prevU = 0.05
		}
		unemployment := economy.Clamp(prevU-okunCoefficient*(q-trendQuarterly), 0.02, 0.2)

		balances := make(map[string]float64, len(s.Countries)-1)
		total := 0.0
		for _, partner := range s.Countries {
			if partner.Name == c.Name {
				continue
			}
			b := s.TradeBalance(c.Name, partner.Name)
			balances[partner.Name] = b
			total += b
		}
		balanceRatio := economy.Clamp(economy.SafeDiv(total, c.GDP), -1, 1)

		consumer := prevConsumer +
			(neutralConfidence-prevConsumer)*0.05 +
			(q-trendQuarterly)*150 -
			math.Max(0, inflation-baseInflation)*100 -
			(unemployment-prevU)*200 -
			incoming*20
		business := prevBusiness +
			(neutralConfidence-prevBusiness)*0.05 +
			(q-trendQuarterly)*200 +
			balanceRatio*20 -
			(incoming+outgoing)*25

		c.InflationRate = inflation
		c.UnemploymentRate = unemployment

		s.Indicators[c.Name] = append(s.Indicators[c.Name], economy.EconomicIndicator{
			Country:            c.Name,
			Year:               year,
			Quarter:            quarter,
			GDPGrowth:          annual,
			Inflation:          inflation,
			Unemployment:       unemployment,
			TradeBalance:       balances,
			ConsumerConfidence: economy.Clamp(consumer, 60, 130),
			BusinessConfidence: economy.Clamp(business, 60, 130),
			CurrencyValue:      c.CurrencyValue,
		})
		s.upsertGDPSnapshot(c, step)
	}

	s.RemoveExpiredItems()
}

// snapshotGrowth is annualized growth versus the last snapshot before step.
func (s *State) snapshotGrowth(c *economy.Country, step int, qpy float64) float64 {
	prior, ok := s.priorSnapshot(c.Name, step)
	if !ok {
		return defaultAnnualGrowth
	}
	if prior.GDP <= 0 {
		return 0
	}
	return (c.GDP/prior.GDP - 1) * qpy
}

// tariffPressure sums average rates of active policies matching source/target.
func (s *State) tariffPressure(source, target string) float64 {
	sum := 0.0
	for _, p := range s.ActiveTariffPolicies(source, target) {
		sum += p.AverageRate()
	}
	return sum
}
