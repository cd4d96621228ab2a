package impact

import (
	"math"
	"math/rand"
	"testing"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

func newTestState(seed int64) *state.State {
	countries := []*economy.Country{
		economy.NewCountry("US", 28.8),
		economy.NewCountry("China", 17.8),
		economy.NewCountry("Indonesia", 1.42),
	}
	return state.New(countries, 4, rand.New(rand.NewSource(seed)))
}

func TestTariffImpactSigns(t *testing.T) {
	tests := []struct {
		name     string
		rates    map[string]float64
		seedFlow bool
		positive bool
	}{
		{"increase without history", map[string]float64{"technology": 0.25, "agriculture": 0.1}, false, false},
		{"increase with history", map[string]float64{"technology": 0.25, "semiconductors": 0.3}, true, false},
		{"decrease without history", map[string]float64{"technology": -0.1}, false, true},
		{"decrease with history", map[string]float64{"manufacturing": -0.2, "unknown": -0.05}, true, true},
	}
	calc := NewTariffCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState(1)
			if tt.seedFlow {
				NewTradeUpdater().SeedFlows(st, economy.Period{})
			}
			policy := economy.NewTariffPolicy("US", "China", tt.rates, 4)
			impact := calc.CalculateImpact(st, policy)
			if len(impact.TradeVolumeChange) != len(tt.rates) {
				t.Fatalf("expected %d sectors, got %d", len(tt.rates), len(impact.TradeVolumeChange))
			}
			for sector, change := range impact.TradeVolumeChange {
				if tt.positive && change < 0 {
					t.Errorf("sector %s: decrease produced negative change %v", sector, change)
				}
				if !tt.positive && change > 0 {
					t.Errorf("sector %s: increase produced positive change %v", sector, change)
				}
			}
			if !tt.positive && impact.GDPImpactExporter > 0 {
				t.Errorf("exporter should lose from a tariff increase, got %v", impact.GDPImpactExporter)
			}
		})
	}
}

func TestTariffImpactBaselineFormula(t *testing.T) {
	st := newTestState(1)
	policy := economy.NewTariffPolicy("US", "China", map[string]float64{"technology": 0.2}, 4)
	impact := NewTariffCalculator().CalculateImpact(st, policy)

	base := math.Sqrt(28.8*17.8) * 0.001
	wantChange := base * -2.0 * 0.2 * 0.7
	if math.Abs(impact.TradeVolumeChange["technology"]-wantChange) > 1e-12 {
		t.Errorf("volume change = %v, want %v", impact.TradeVolumeChange["technology"], wantChange)
	}
	revenue := -wantChange * 0.2
	if math.Abs(impact.GDPImpactImporter-0.7*revenue) > 1e-12 {
		t.Errorf("importer impact = %v, want %v", impact.GDPImpactImporter, 0.7*revenue)
	}
	if math.Abs(impact.GDPImpactExporter-0.8*wantChange) > 1e-12 {
		t.Errorf("exporter impact = %v, want %v", impact.GDPImpactExporter, 0.8*wantChange)
	}
}

func TestOptimalTariffInUnitInterval(t *testing.T) {
	for _, obj := range []Objective{ObjectiveWelfare, ObjectiveRevenue, ObjectivePolitics} {
		for _, country := range []string{"US", "China", "Indonesia", "Brazil"} {
			rates, err := CalculateOptimalTariff(country, obj, nil)
			if err != nil {
				t.Fatalf("%s/%s: %v", country, obj, err)
			}
			if len(rates) != len(economy.TariffElasticities()) {
				t.Errorf("%s/%s: expected a rate per sector, got %d", country, obj, len(rates))
			}
			for sector, r := range rates {
				if r < 0 || r > 1 {
					t.Errorf("%s/%s/%s: rate %v out of [0,1]", country, obj, sector, r)
				}
			}
		}
	}

	rates, _ := CalculateOptimalTariff("US", ObjectivePolitics, map[string]float64{"manufacturing": -2.0, "zero": 0})
	if rates["manufacturing"] != 0.8 {
		t.Errorf("US manufacturing politics rate = %v, want 0.8", rates["manufacturing"])
	}
	if rates["zero"] != 0.8 {
		t.Errorf("zero elasticity should hit the cap, got %v", rates["zero"])
	}
	rates, _ = CalculateOptimalTariff("US", ObjectiveWelfare, map[string]float64{"agriculture": -1.5})
	if math.Abs(rates["agriculture"]-0.5) > 1e-12 {
		t.Errorf("welfare agriculture = %v, want 0.5", rates["agriculture"])
	}
	if _, err := CalculateOptimalTariff("US", Objective("glory"), nil); err == nil {
		t.Errorf("expected error for unknown objective")
	}
}

func TestUpdateTradeBalanceAppendsBothDirections(t *testing.T) {
	st := newTestState(3)
	u := NewTradeUpdater()
	u.SeedFlows(st, economy.Period{})
	seeded := len(st.TradeFlows)
	if seeded != 6 {
		t.Fatalf("seeded flows = %d, want 6", seeded)
	}

	st.SetPeriod(0, 1)
	bal := u.UpdateTradeBalance(st, "US", "China", nil)
	if len(st.TradeFlows) != seeded+2 {
		t.Fatalf("expected two new flows, got %d", len(st.TradeFlows)-seeded)
	}
	ab := st.TradeFlows[seeded]
	ba := st.TradeFlows[seeded+1]
	if ab.Exporter != "US" || ba.Exporter != "China" || ab.Quarter != 1 {
		t.Errorf("unexpected flow order or period: %+v %+v", ab, ba)
	}
	if math.Abs(bal-(ab.TotalValue()-ba.TotalValue())) > 1e-12 {
		t.Errorf("returned balance does not match appended flows")
	}
	if st.TradeBalance("US", "China") != -st.TradeBalance("China", "US") {
		t.Errorf("cumulative balance not antisymmetric")
	}
}

func TestTradeDiversionFavorsLowTariffExporter(t *testing.T) {
	tests := []struct {
		name        string
		rival, self float64
		rises       bool
	}{
		{"narrow gap", 0.3, 0.2, true},
		{"moderate gap", 0.4, 0.25, true},
		{"double rate", 0.6, 0.3, true},
		{"wide gap", 0.5, 0.05, true},
		{"self taxed higher", 0.2, 0.3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState(11)
			u := NewTradeUpdater()
			u.SeedFlows(st, economy.Period{})
			before, _ := st.LatestFlow("Indonesia", "US")
			baseline := before.SectorVolumes["manufacturing"]

			st.SetPeriod(0, 1)
			st.AddTariffPolicy(economy.NewTariffPolicy("US", "China", map[string]float64{"manufacturing": tt.rival}, 4))
			st.AddTariffPolicy(economy.NewTariffPolicy("US", "Indonesia", map[string]float64{"manufacturing": tt.self}, 4))
			u.UpdateTradeBalance(st, "Indonesia", "US", nil)

			after, _ := st.LatestFlow("Indonesia", "US")
			got := after.SectorVolumes["manufacturing"]
			if rose := got > baseline; rose != tt.rises {
				t.Errorf("rival %.2f self %.2f: volume %v -> %v, rises=%v want %v",
					tt.rival, tt.self, baseline, got, rose, tt.rises)
			}
		})
	}
}

func TestNegativeRatesKeepVolumesNonNegative(t *testing.T) {
	st := newTestState(5)
	u := NewTradeUpdater()
	u.SeedFlows(st, economy.Period{})
	st.SetPeriod(0, 1)
	st.AddTariffPolicy(economy.NewTariffPolicy("US", "China", map[string]float64{"manufacturing": -3, "technology": 4}, 4))
	u.UpdateTradeBalance(st, "China", "US", nil)

	latest, _ := st.LatestFlow("China", "US")
	for sector, v := range latest.SectorVolumes {
		if v < 0 || latest.SectorValues[sector] < 0 {
			t.Errorf("sector %s went negative: volume %v value %v", sector, v, latest.SectorValues[sector])
		}
	}
	if latest.SectorVolumes["technology"] != 0 {
		t.Errorf("prohibitive tariff should floor volume at zero, got %v", latest.SectorVolumes["technology"])
	}
}

func TestFlowAdjustmentsApplyOnce(t *testing.T) {
	st := newTestState(9)
	u := NewTradeUpdater()
	u.SeedFlows(st, economy.Period{})
	st.QueueFlowAdjustment("China", "US", []string{"manufacturing"}, 0)

	st.SetPeriod(0, 1)
	u.UpdateTradeBalance(st, "US", "China", nil)
	latest, _ := st.LatestFlow("China", "US")
	if latest.SectorVolumes["manufacturing"] != 0 {
		t.Errorf("quota adjustment not applied: %v", latest.SectorVolumes["manufacturing"])
	}
	if st.PendingFlowAdjustments("China", "US") != nil {
		t.Errorf("adjustment should be consumed")
	}
}

func TestGDPImpactBounds(t *testing.T) {
	st := newTestState(2)
	st.Country("Indonesia").GDP = 0
	st.AddTariffPolicy(economy.NewTariffPolicy("China", "US", map[string]float64{"technology": 5}, 4))
	for i := 0; i < 12; i++ {
		st.AddAction(economy.EconomicAction{Country: "China", Type: economy.Investment, Magnitude: 0.9})
	}
	for _, name := range st.CountryNames() {
		for q := 0; q < 8; q++ {
			g, f := CalculateGDPImpact(st, name, q/4, q%4)
			if g < -0.08 || g > 0.10 || math.IsNaN(g) {
				t.Errorf("%s q%d: growth %v out of bounds", name, q, g)
			}
			if f["total"] != g {
				t.Errorf("breakdown total mismatch")
			}
		}
	}
	g, _ := CalculateGDPImpact(st, "China", 0, 0)
	if g != 0.10 {
		t.Errorf("heavy investment should saturate growth, got %v", g)
	}
}

func TestGDPImpactFactors(t *testing.T) {
	st := newTestState(4)
	st.AddEvents(economy.EventConfig{
		Name:              "Natural Disaster in Indonesia",
		AffectedCountries: []string{"Indonesia"},
		GDPImpact:         map[string]float64{"Indonesia": -0.02, "US": -0.5},
		DurationQuarters:  2,
	}.Activate())
	_, f := CalculateGDPImpact(st, "Indonesia", 0, 0)
	if f["event_impact"] != -0.02 {
		t.Errorf("event impact = %v, want -0.02", f["event_impact"])
	}
	_, f = CalculateGDPImpact(st, "US", 0, 0)
	if f["event_impact"] != 0 {
		t.Errorf("unaffected country got event impact %v", f["event_impact"])
	}
	want := math.Pow(1.02, 0.25) - 1
	if math.Abs(f["baseline"]-want) > 1e-12 {
		t.Errorf("US baseline = %v, want %v", f["baseline"], want)
	}
	if f["trade_impact"] != 0 {
		t.Errorf("trade impact without history should be 0, got %v", f["trade_impact"])
	}
	if math.Abs(f["noise"]) > 0.0025 {
		t.Errorf("noise out of range: %v", f["noise"])
	}
}

func TestGDPTradeImpactAgainstPriorExports(t *testing.T) {
	st := newTestState(6)
	add := func(importer string, year, quarter int, value float64) {
		st.AddTradeFlow(economy.TradeFlow{
			Exporter: "China", Importer: importer, Year: year, Quarter: quarter,
			SectorVolumes: map[string]float64{"manufacturing": value},
			SectorValues:  map[string]float64{"manufacturing": value},
		})
	}
	add("US", 0, 0, 60)
	add("Indonesia", 0, 0, 40)
	add("US", 0, 1, 100)
	add("US", 0, 2, 120)
	add("Indonesia", 0, 2, 30)
	add("US", 0, 3, 500) // After the evaluated period

	ratio := economy.ExportRatio("China")
	tests := []struct {
		year, quarter int
		want          float64
	}{
		{0, 0, 0},
		{0, 1, (100.0 - 100) / 100 * ratio},
		{0, 2, (150.0 - 200) / 200 * ratio},
	}
	for _, tt := range tests {
		_, f := CalculateGDPImpact(st, "China", tt.year, tt.quarter)
		if math.Abs(f["trade_impact"]-tt.want) > 1e-12 {
			t.Errorf("Y%dQ%d trade_impact = %v, want %v", tt.year, tt.quarter, f["trade_impact"], tt.want)
		}
	}
}

func TestGlobalCycle(t *testing.T) {
	tests := []struct {
		name       string
		qpy        int
		peak       [2]int // A quarter of the way through the cycle
		nextPeriod [2]int
	}{
		{"quarterly", 4, [2]int{1, 1}, [2]int{5, 0}},
		{"monthly", 12, [2]int{1, 3}, [2]int{5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if GlobalCycle(0, 0, tt.qpy) != 0 {
				t.Errorf("cycle should start at zero")
			}
			if got := GlobalCycle(tt.peak[0], tt.peak[1], tt.qpy); math.Abs(got-0.005) > 1e-12 {
				t.Errorf("cycle peak = %v, want 0.005", got)
			}
			if got := GlobalCycle(tt.nextPeriod[0], tt.nextPeriod[1], tt.qpy); math.Abs(got) > 1e-12 {
				t.Errorf("cycle should repeat every five years, got %v", got)
			}
		})
	}
}
