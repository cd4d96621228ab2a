// Package economy provides the trade-war data model: countries, actions, tariff
// policies, trade flows, indicators, and exogenous events.
package economy

import "slices"

// Country is a simulated national economy. Identity is the name.
type Country struct {
	Name             string             `json:"name"`
	GDP              float64            `json:"gdp"` // Trillions USD
	Population       int64              `json:"population"`
	InflationRate    float64            `json:"inflation_rate"`
	UnemploymentRate float64            `json:"unemployment_rate"`
	CurrencyValue    float64            `json:"currency_value"` // Relative to USD
	InterestRate     float64            `json:"interest_rate,omitempty"`
	Sectors          map[string]float64 `json:"sectors"` // Sector -> share of GDP
	TradingPartners  []string           `json:"trading_partners,omitempty"`
}

// NewCountry returns a country with default macro fields.
func NewCountry(name string, gdp float64) *Country {
	return &Country{
		Name:             name,
		GDP:              gdp,
		InflationRate:    0.02,
		UnemploymentRate: 0.05,
		CurrencyValue:    1.0,
		InterestRate:     0.02,
		Sectors:          map[string]float64{},
	}
}

// Key returns the identity key of the country.
func (c *Country) Key() string { return c.Name }

// Equal reports whether two countries are the same entity.
// Only the name is compared.
func (c *Country) Equal(o *Country) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Name == o.Name
}

// Clone returns an independent copy.
func (c *Country) Clone() *Country {
	cp := *c
	cp.Sectors = make(map[string]float64, len(c.Sectors))
	for k, v := range c.Sectors {
		cp.Sectors[k] = v
	}
	cp.TradingPartners = slices.Clone(c.TradingPartners)
	return &cp
}

// CountrySet is a set of countries keyed by name.
type CountrySet map[string]*Country

// Add inserts c, replacing any country with the same name.
func (s CountrySet) Add(c *Country) { s[c.Key()] = c }

// Has reports whether a country with the same name is present.
func (s CountrySet) Has(c *Country) bool {
	_, ok := s[c.Key()]
	return ok
}

// Names returns the sorted member names.
func (s CountrySet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
