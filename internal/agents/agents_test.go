package agents

import (
	"errors"
	"testing"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/llm"
	"github.com/talgya/tradewar/internal/state"
)

func newTestState() *state.State {
	return state.New([]*economy.Country{
		economy.NewCountry(US, 28.8),
		economy.NewCountry(China, 17.8),
		economy.NewCountry(Indonesia, 1.42),
	}, 4, nil)
}

func addFlow(st *state.State, exp, imp string, value float64) {
	st.AddTradeFlow(economy.TradeFlow{
		Exporter:      exp,
		Importer:      imp,
		SectorVolumes: map[string]float64{economy.SectorManufacturing: value},
		SectorValues:  map[string]float64{economy.SectorManufacturing: value},
	})
}

type stubAdvisor struct {
	reply string
	err   error
	calls int
}

func (s *stubAdvisor) Complete(string, string, int) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestUSAgentDecide(t *testing.T) {
	t.Run("deficit triggers tariff", func(t *testing.T) {
		st := newTestState()
		addFlow(st, China, US, 200)
		a := NewUSAgent(nil).DecideAction(st)
		if a.Type != economy.TariffIncrease || a.Target != China || a.Magnitude != 0.25 {
			t.Fatalf("unexpected action %+v", a)
		}
		if len(a.Sectors) != 3 {
			t.Errorf("expected focus sectors, got %v", a.Sectors)
		}
	})
	t.Run("small deficit holds", func(t *testing.T) {
		st := newTestState()
		addFlow(st, China, US, 50)
		a := NewUSAgent(nil).DecideAction(st)
		if a.Type != economy.StatusQuo || a.Magnitude != 0 {
			t.Fatalf("expected status quo, got %+v", a)
		}
	})
	t.Run("threshold is tunable", func(t *testing.T) {
		st := newTestState()
		addFlow(st, China, US, 0.5)
		us := NewUSAgent(nil)
		us.DeficitThreshold = -0.1
		if a := us.DecideAction(st); a.Type != economy.TariffIncrease {
			t.Fatalf("expected tariff increase, got %s", a.Type)
		}
	})
}

func TestUSAgentTariffPolicy(t *testing.T) {
	st := newTestState()
	us := NewUSAgent(nil)

	p := us.CalculateTariffPolicy(st, China)
	if p.SectorRates[economy.SectorTechnology] != 0.25 || p.SectorRates[economy.SectorServices] != 0.05 {
		t.Errorf("unexpected China rates %v", p.SectorRates)
	}
	if p.DurationQuarters != 4 || p.Source != US || p.Target != China {
		t.Errorf("unexpected policy %+v", p)
	}

	us.Aggressive = false
	p = us.CalculateTariffPolicy(st, China)
	if len(p.SectorRates) != 3 || p.SectorRates[economy.SectorAgriculture] != 0.05 {
		t.Errorf("unexpected non-aggressive rates %v", p.SectorRates)
	}
}

func TestChinaAgentRetaliates(t *testing.T) {
	st := newTestState()
	st.AddAction(economy.EconomicAction{
		Country: US, Type: economy.TariffIncrease, Target: China,
		Sectors: []string{economy.SectorTechnology}, Magnitude: 0.25,
	})
	cn := NewChinaAgent(nil)
	cn.RetaliatoryFactor = 1.2

	a := cn.DecideAction(st)
	if a.Type != economy.TariffIncrease || a.Target != US {
		t.Fatalf("expected retaliation, got %+v", a)
	}
	if a.Magnitude < 0.2999 || a.Magnitude > 0.3001 || a.Sectors[0] != economy.SectorTechnology {
		t.Errorf("unexpected retaliation %+v", a)
	}
}

func TestChinaAgentInvestsWithoutProvocation(t *testing.T) {
	st := newTestState()
	st.AddAction(economy.StatusQuoAction(US, "hold"))
	a := NewChinaAgent(nil).DecideAction(st)
	if a.Type != economy.Investment || a.Magnitude != 0.1 || a.HasTarget() {
		t.Fatalf("expected investment, got %+v", a)
	}
}

func TestChinaAgentMirrorsUSPolicy(t *testing.T) {
	st := newTestState()
	st.AddTariffPolicy(economy.NewTariffPolicy(US, China, map[string]float64{economy.SectorTechnology: 0.2}, 6))
	cn := NewChinaAgent(nil)
	cn.RetaliatoryFactor = 1.5

	p := cn.CalculateTariffPolicy(st, US)
	if got := p.SectorRates[economy.SectorTechnology]; got < 0.2999 || got > 0.3001 {
		t.Errorf("mirrored rate = %v, want 0.3", got)
	}
	if p.DurationQuarters != 6 {
		t.Errorf("duration = %d, want 6", p.DurationQuarters)
	}

	other := cn.CalculateTariffPolicy(st, Indonesia)
	if len(other.SectorRates) != 3 || other.SectorRates[economy.SectorRareEarthMinerals] != 0.05 {
		t.Errorf("unexpected default rates %v", other.SectorRates)
	}
}

func TestIndonesiaAgentDecide(t *testing.T) {
	t.Run("tensions attract investment", func(t *testing.T) {
		st := newTestState()
		st.AddAction(economy.EconomicAction{Country: US, Type: economy.TariffIncrease, Target: China})
		st.AddAction(economy.EconomicAction{Country: China, Type: economy.TariffIncrease, Target: US})
		a := NewIndonesiaAgent(nil).DecideAction(st)
		if a.Type != economy.Investment || a.Magnitude != 0.15 || len(a.Sectors) != 2 {
			t.Fatalf("unexpected action %+v", a)
		}
	})
	t.Run("slowdown raises tariffs", func(t *testing.T) {
		st := newTestState()
		st.Indicators[Indonesia] = []economy.EconomicIndicator{{Country: Indonesia, GDPGrowth: 0.01}}
		a := NewIndonesiaAgent(nil).DecideAction(st)
		if a.Type != economy.TariffIncrease || a.HasTarget() || a.Magnitude != 0.05 {
			t.Fatalf("unexpected action %+v", a)
		}
	})
	t.Run("default development", func(t *testing.T) {
		st := newTestState()
		a := NewIndonesiaAgent(nil).DecideAction(st)
		if a.Type != economy.Investment || a.Magnitude != 0.08 || len(a.Sectors) != 4 {
			t.Fatalf("unexpected action %+v", a)
		}
	})
}

func TestIndonesiaTariffEscalatesAgainstTariffingPower(t *testing.T) {
	st := newTestState()
	id := NewIndonesiaAgent(nil)

	calm := id.CalculateTariffPolicy(st, China)
	if got := calm.SectorRates[economy.SectorAgriculture]; got < 0.1049 || got > 0.1051 {
		t.Errorf("priority rate = %v, want 0.105", got)
	}

	st.AddTariffPolicy(economy.NewTariffPolicy(China, Indonesia, map[string]float64{economy.SectorAgriculture: 0.1}, 4))
	hot := id.CalculateTariffPolicy(st, China)
	for s, r := range hot.SectorRates {
		if r > 0.2 {
			t.Errorf("sector %s rate %v exceeds cap", s, r)
		}
		if r <= calm.SectorRates[s] {
			t.Errorf("sector %s rate %v not escalated from %v", s, r, calm.SectorRates[s])
		}
	}
}

func TestGenericAgent(t *testing.T) {
	st := state.New([]*economy.Country{economy.NewCountry("Vietnam", 0.4), economy.NewCountry(US, 28.8)}, 4, nil)
	g := NewGenericAgent("Vietnam", nil)

	if a := g.DecideAction(st); a.Type != economy.StatusQuo {
		t.Fatalf("expected status quo, got %s", a.Type)
	}

	st.AddTariffPolicy(economy.NewTariffPolicy(US, "Vietnam", map[string]float64{economy.SectorElectronics: 0.2}, 4))
	a := g.DecideAction(st)
	if a.Type != economy.TariffAdjustment || a.Target != US {
		t.Fatalf("expected retaliation against US, got %+v", a)
	}
	if a.Magnitude != 0.1 {
		t.Errorf("magnitude = %v, want 0.1", a.Magnitude)
	}
	p := g.CalculateTariffPolicy(st, US)
	if p.SectorRates[economy.SectorElectronics] != 0.1 {
		t.Errorf("unexpected rates %v", p.SectorRates)
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory(nil)
	for _, name := range []string{US, China, Indonesia} {
		a, err := f.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if a.Country() != name {
			t.Errorf("agent country = %s, want %s", a.Country(), name)
		}
	}

	_, err := f.Create("Atlantis")
	if !errors.Is(err, ErrUnknownCountry) || !errors.Is(err, economy.ErrFatal) {
		t.Fatalf("expected fatal unknown-country error, got %v", err)
	}

	f.AllowGeneric(true)
	a, err := f.Create("Atlantis")
	if err != nil {
		t.Fatalf("create generic: %v", err)
	}
	if _, ok := a.(*GenericAgent); !ok {
		t.Errorf("expected GenericAgent, got %T", a)
	}
}

func TestFactoryDropsDisabledClient(t *testing.T) {
	var client *llm.Client
	f := NewFactory(client)
	if f.advisor != nil {
		t.Fatal("disabled client should not be kept as advisor")
	}
}

func TestFactoryAdvisorTokens(t *testing.T) {
	f := NewFactory(&stubAdvisor{})
	f.SetAdvisorTokens(256)
	a, err := f.Create(China)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := a.(*ChinaAgent).maxTokens; got != 256 {
		t.Errorf("maxTokens = %d, want 256", got)
	}
}

func TestAdvisorUsedAndFallback(t *testing.T) {
	st := newTestState()

	good := &stubAdvisor{reply: `{"action":"friend_shoring","target":"Indonesia","sectors":["electronics"],"magnitude":0.2,"justification":"allies"}`}
	a := NewUSAgent(good).DecideAction(st)
	if a.Type != economy.FriendShoring || a.Target != Indonesia || a.Country != US {
		t.Errorf("expected advisor action, got %+v", a)
	}

	tests := []struct {
		name    string
		advisor *stubAdvisor
	}{
		{"error", &stubAdvisor{err: errors.New("timeout")}},
		{"garbage", &stubAdvisor{reply: "no idea"}},
		{"unknown target", &stubAdvisor{reply: `{"action":"tariff_increase","target":"Atlantis","magnitude":0.1}`}},
		{"self target", &stubAdvisor{reply: `{"action":"tariff_increase","target":"US","magnitude":0.1}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewUSAgent(tt.advisor).DecideAction(st)
			if tt.advisor.calls != 1 {
				t.Errorf("advisor called %d times", tt.advisor.calls)
			}
			if a.Type != economy.StatusQuo {
				t.Errorf("expected rule fallback, got %+v", a)
			}
		})
	}
}

func TestHistoryIsCopied(t *testing.T) {
	us := NewUSAgent(nil)
	us.RecordAction(economy.EconomicAction{Country: US, Type: economy.Investment, Sectors: []string{"ai"}})
	h := us.History()
	h[0].Sectors[0] = "mutated"
	if us.History()[0].Sectors[0] != "ai" {
		t.Error("history shares sector slice with caller")
	}
}
