package engine

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/tradewar/internal/agents"
	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/impact"
	"github.com/talgya/tradewar/internal/state"
)

func testCountries() []*economy.Country {
	return []*economy.Country{
		economy.NewCountry(agents.US, 28.8),
		economy.NewCountry(agents.China, 17.8),
		economy.NewCountry(agents.Indonesia, 1.42),
	}
}

func zeroGrowth(*state.State, string, int, int) (float64, impact.Factors) {
	return 0, impact.Factors{}
}

// scriptedAgent plays a fixed list of actions, then holds.
type scriptedAgent struct {
	country string
	script  []economy.EconomicAction
	calls   int
	history []economy.EconomicAction
}

func (s *scriptedAgent) Country() string { return s.country }

func (s *scriptedAgent) DecideAction(*state.State) economy.EconomicAction {
	defer func() { s.calls++ }()
	if s.calls < len(s.script) {
		return s.script[s.calls]
	}
	return economy.StatusQuoAction(s.country, "script finished")
}

func (s *scriptedAgent) CalculateTariffPolicy(_ *state.State, target string) economy.TariffPolicy {
	return economy.NewTariffPolicy(s.country, target, map[string]float64{economy.SectorTechnology: 0.25}, 4)
}

func (s *scriptedAgent) UpdateStrategy(*state.State) {}

func (s *scriptedAgent) RecordAction(a economy.EconomicAction) { s.history = append(s.history, a) }

func (s *scriptedAgent) History() []economy.EconomicAction { return s.history }

func scriptedUS(t *testing.T, script ...economy.EconomicAction) *Engine {
	t.Helper()
	f := agents.NewFactory(nil)
	f.Register(agents.US, func(agents.Advisor) agents.Agent {
		return &scriptedAgent{country: agents.US, script: script}
	})
	e, err := New(testCountries(), DefaultConfig(), WithFactory(f), WithGrowth(zeroGrowth))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func usAction(t economy.ActionType, target string, mag float64) economy.EconomicAction {
	return economy.EconomicAction{Country: agents.US, Type: t, Target: target, Magnitude: mag}
}

func TestNewRejectsEmptyCountryList(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	if !errors.Is(err, economy.ErrFatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestNewRejectsUnknownCountry(t *testing.T) {
	countries := append(testCountries(), economy.NewCountry("Vietnam", 0.43))
	_, err := New(countries, DefaultConfig())
	if !errors.Is(err, economy.ErrFatal) || !errors.Is(err, agents.ErrUnknownCountry) {
		t.Fatalf("expected unknown-country fatal error, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.AllowGeneric = true
	e, err := New(countries, cfg)
	if err != nil {
		t.Fatalf("new with generic agents: %v", err)
	}
	if _, ok := e.Agent("Vietnam"); !ok {
		t.Error("missing generic agent")
	}
}

func TestNewRejectsDuplicateCountry(t *testing.T) {
	countries := []*economy.Country{economy.NewCountry(agents.US, 28.8), economy.NewCountry(agents.US, 1)}
	if _, err := New(countries, DefaultConfig()); !errors.Is(err, economy.ErrFatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestNewSeedsFlowsAndDoesNotAliasInput(t *testing.T) {
	input := testCountries()
	e, err := New(input, DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if got := len(e.State().TradeFlows); got != 6 {
		t.Errorf("seeded flows = %d, want 6", got)
	}
	e.State().Country(agents.US).GDP = 1
	if input[0].GDP != 28.8 {
		t.Error("engine mutated caller's country")
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Years = 2
	e, err := New(testCountries(), cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var seen int
	e.onStep = append(e.onStep, func(StepReport) { seen++ })

	reports, err := e.Run(context.Background(), 2)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(e.History()) != 8 || len(reports) != 8 || seen != 8 {
		t.Fatalf("history=%d reports=%d callbacks=%d, want 8", len(e.History()), len(reports), seen)
	}

	rows := e.Results()
	for i, r := range rows {
		ab := r.Metrics[BalanceKey(agents.US, agents.China)]
		ba := r.Metrics[BalanceKey(agents.China, agents.US)]
		if ab != -ba {
			t.Errorf("step %d: balance %v is not the negative of %v", i, ab, ba)
		}
	}

	last := rows[len(rows)-1]
	if last.Year != 2 || last.Quarter != 0 {
		t.Errorf("final period = (%d,%d), want (2,0)", last.Year, last.Quarter)
	}
	changed := false
	for _, c := range testCountries() {
		if math.Abs(last.Metrics[GDPKey(c.Name)]-c.GDP) > 1e-9 {
			changed = true
		}
	}
	if !changed {
		t.Error("no GDP changed over the run")
	}
	for _, r := range reports {
		if r.Stability.Score < 0 || r.Stability.Score > 1 {
			t.Errorf("stability %v out of range", r.Stability.Score)
		}
	}
}

func TestRunIsReproducible(t *testing.T) {
	run := func() map[string]float64 {
		e, err := New(testCountries(), DefaultConfig())
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		if _, err := e.Run(context.Background(), 3); err != nil {
			t.Fatalf("run: %v", err)
		}
		rows := e.Results()
		return rows[len(rows)-1].Metrics
	}
	a, b := run(), run()
	for k, v := range a {
		if math.Abs(v-b[k]) > 1e-9 {
			t.Errorf("%s differs between runs: %v vs %v", k, v, b[k])
		}
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	e, err := New(testCountries(), DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports, err := e.Run(ctx, 1)
	if !errors.Is(err, context.Canceled) || len(reports) != 0 {
		t.Fatalf("expected immediate cancel, got %d reports, err %v", len(reports), err)
	}
}

func TestTechExportControlLowersTargetGDP(t *testing.T) {
	e := scriptedUS(t, usAction(economy.TechExportControl, agents.China, 0.3))
	before := e.State().Country(agents.China).GDP
	e.Step()
	if after := e.State().Country(agents.China).GDP; after >= before {
		t.Fatalf("China GDP %v did not fall from %v", after, before)
	}
}

func TestSubsidiesRaiseActorGDP(t *testing.T) {
	for _, at := range []economy.ActionType{economy.IndustrialSubsidy, economy.GreenTechInvestment, economy.ExportSubsidy} {
		t.Run(string(at), func(t *testing.T) {
			e := scriptedUS(t, usAction(at, "", 0.4))
			before := e.State().Country(agents.US).GDP
			e.Step()
			if after := e.State().Country(agents.US).GDP; after <= before {
				t.Fatalf("US GDP %v did not rise from %v", after, before)
			}
		})
	}
}

func TestCurrencyDevaluation(t *testing.T) {
	e := scriptedUS(t, usAction(economy.CurrencyDevaluation, "", 0.2))
	e.Step()
	if got := e.State().Country(agents.US).CurrencyValue; math.Abs(got-0.8) > 1e-12 {
		t.Errorf("currency value = %v, want 0.8", got)
	}
}

func TestTariffIncreaseDrawsRetaliation(t *testing.T) {
	e := scriptedUS(t, usAction(economy.TariffIncrease, agents.China, 0.25))
	e.Step()
	st := e.State()
	if n := len(st.ActiveTariffPolicies(agents.US, agents.China)); n != 1 {
		t.Fatalf("US->China policies = %d, want 1", n)
	}
	if n := len(st.ActiveTariffPolicies(agents.China, agents.US)); n != 0 {
		t.Fatalf("China retaliated in the same step")
	}

	e.Step()
	if n := len(st.ActiveTariffPolicies(agents.China, agents.US)); n != 1 {
		t.Fatalf("China->US policies = %d, want 1 after retaliation", n)
	}
}

func TestTariffPolicyExpires(t *testing.T) {
	e := scriptedUS(t, usAction(economy.TariffIncrease, agents.China, 0.25))
	e.Step()
	for i := 0; i < 3; i++ {
		e.Step()
		if len(e.State().ActiveTariffPolicies(agents.US, agents.China)) != 1 {
			t.Fatalf("policy expired early after %d extra steps", i+1)
		}
	}
	e.Step()
	if len(e.State().ActiveTariffPolicies(agents.US, agents.China)) != 0 {
		t.Fatal("policy still active after its duration")
	}
}

func TestTariffDecreaseInstallsBoundedRelief(t *testing.T) {
	e := scriptedUS(t,
		usAction(economy.TariffIncrease, agents.China, 0.25),
		usAction(economy.TariffDecrease, agents.China, 0.5),
	)
	e.Step()
	e.Step()

	policies := e.State().ActiveTariffPolicies(agents.US, agents.China)
	if len(policies) != 2 {
		t.Fatalf("policies = %d, want original plus relief", len(policies))
	}
	relief := policies[1]
	if got := relief.SectorRates[economy.SectorTechnology]; math.Abs(got+0.125) > 1e-12 {
		t.Errorf("relief rate = %v, want -0.125", got)
	}
	if relief.DurationQuarters != 3 {
		t.Errorf("relief duration = %d, want 3", relief.DurationQuarters)
	}
}

func TestTariffDecreaseWithoutTariffsIsNoop(t *testing.T) {
	e := scriptedUS(t, usAction(economy.TariffDecrease, agents.China, 0.5))
	e.Step()
	if n := len(e.State().ActiveTariffPolicies(agents.US, "")); n != 0 {
		t.Fatalf("expected no policies, got %d", n)
	}
}

func TestFlowActionsQueueAdjustments(t *testing.T) {
	tests := []struct {
		name     string
		action   economy.EconomicAction
		exporter string
		importer string
		sector   string
		want     float64
	}{
		{"quota", economy.EconomicAction{Country: agents.US, Type: economy.ImportQuota, Target: agents.China, Sectors: []string{economy.SectorManufacturing}, Magnitude: 0.5},
			agents.China, agents.US, economy.SectorManufacturing, 0.5},
		{"quota capped", economy.EconomicAction{Country: agents.US, Type: economy.ImportQuota, Target: agents.China, Sectors: []string{economy.SectorManufacturing}, Magnitude: 3},
			agents.China, agents.US, economy.SectorManufacturing, 0.1},
		{"friend shoring", economy.EconomicAction{Country: agents.US, Type: economy.FriendShoring, Target: agents.Indonesia, Magnitude: 0.5},
			agents.Indonesia, agents.US, state.AllSectors, 1.2},
		{"diversification untargeted", economy.EconomicAction{Country: agents.US, Type: economy.SupplyChainDiversification, Magnitude: 0.1},
			agents.Indonesia, agents.US, state.AllSectors, 1.1},
		{"data sovereignty", economy.EconomicAction{Country: agents.US, Type: economy.DataSovereignty, Magnitude: 0.9},
			agents.China, agents.US, economy.SectorDigitalServices, 0.5},
		{"export control", economy.EconomicAction{Country: agents.US, Type: economy.TechExportControl, Target: agents.China, Magnitude: 0.4},
			agents.US, agents.China, economy.SectorSemiconductors, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := scriptedUS(t)
			e.applyAction(tt.action)
			got := e.State().PendingFlowAdjustments(tt.exporter, tt.importer)[tt.sector]
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("adjustment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuotaShrinksNextFlow(t *testing.T) {
	e := scriptedUS(t, economy.EconomicAction{
		Country: agents.US, Type: economy.ImportQuota, Target: agents.China,
		Sectors: []string{economy.SectorManufacturing}, Magnitude: 0.9,
	})
	seed, _ := e.State().LatestFlow(agents.China, agents.US)
	e.Step()
	next, _ := e.State().LatestFlow(agents.China, agents.US)
	if next.SectorVolumes[economy.SectorManufacturing] >= seed.SectorVolumes[economy.SectorManufacturing]*0.2 {
		t.Errorf("manufacturing volume %v not cut from %v",
			next.SectorVolumes[economy.SectorManufacturing], seed.SectorVolumes[economy.SectorManufacturing])
	}
	if len(e.State().PendingFlowAdjustments(agents.China, agents.US)) != 0 {
		t.Error("adjustment not consumed")
	}
}

func TestSelfTargetIgnored(t *testing.T) {
	e := scriptedUS(t, usAction(economy.TariffIncrease, agents.US, 0.25))
	e.Step()
	if n := len(e.State().ActiveTariffPolicies(agents.US, "")); n != 0 {
		t.Fatalf("self-targeted tariff installed %d policies", n)
	}
}

func TestSaveResults(t *testing.T) {
	e, err := New(testCountries(), DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := e.Run(context.Background(), 1); err != nil {
		t.Fatalf("run: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	if err := SaveResults(dir, e.Results()); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, name := range []string{"simulation_results.csv", "summary.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if err := SaveResults(dir, nil); err == nil {
		t.Error("expected error for empty results")
	}
}
