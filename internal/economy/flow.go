package economy

// Period is a (year, quarter) pair with quarter in [0, quartersPerYear).
type Period struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// Step returns the absolute step index.
func (p Period) Step(quartersPerYear int) int {
	return p.Year*quartersPerYear + p.Quarter
}

// Next returns the following quarter, rolling the year on overflow.
func (p Period) Next(quartersPerYear int) Period {
	p.Quarter++
	if p.Quarter >= quartersPerYear {
		p.Quarter = 0
		p.Year++
	}
	return p
}

// Before reports whether p is strictly earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Quarter < o.Quarter
}

// TradeFlow is a dated, sector-level export record from one country to another.
type TradeFlow struct {
	Exporter      string             `json:"exporter"`
	Importer      string             `json:"importer"`
	Year          int                `json:"year"`
	Quarter       int                `json:"quarter"`
	SectorVolumes map[string]float64 `json:"sector_volumes"`
	SectorValues  map[string]float64 `json:"sector_values"`
}

// Period returns the flow's date.
func (f TradeFlow) Period() Period { return Period{Year: f.Year, Quarter: f.Quarter} }

// TotalValue sums sector values.
func (f TradeFlow) TotalValue() float64 {
	sum := 0.0
	for _, v := range f.SectorValues {
		sum += v
	}
	return sum
}

// TotalVolume sums sector volumes.
func (f TradeFlow) TotalVolume() float64 {
	sum := 0.0
	for _, v := range f.SectorVolumes {
		sum += v
	}
	return sum
}

// Clone returns a copy with its own maps.
func (f TradeFlow) Clone() TradeFlow {
	f.SectorVolumes = cloneRates(f.SectorVolumes)
	f.SectorValues = cloneRates(f.SectorValues)
	return f
}

// EconomicIndicator is one country's end-of-quarter snapshot.
type EconomicIndicator struct {
	Country            string             `json:"country"`
	Year               int                `json:"year"`
	Quarter            int                `json:"quarter"`
	GDPGrowth          float64            `json:"gdp_growth"` // Annualized
	Inflation          float64            `json:"inflation"`
	Unemployment       float64            `json:"unemployment"`
	TradeBalance       map[string]float64 `json:"trade_balance"` // Partner -> cumulative balance
	ConsumerConfidence float64            `json:"consumer_confidence"`
	BusinessConfidence float64            `json:"business_confidence"`
	CurrencyValue      float64            `json:"currency_value"`
}

// TotalTradeBalance sums the balance across partners.
func (i EconomicIndicator) TotalTradeBalance() float64 {
	sum := 0.0
	for _, v := range i.TradeBalance {
		sum += v
	}
	return sum
}

// Clone returns a copy with its own balance map.
func (i EconomicIndicator) Clone() EconomicIndicator {
	i.TradeBalance = cloneRates(i.TradeBalance)
	return i
}

func cloneRates(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
