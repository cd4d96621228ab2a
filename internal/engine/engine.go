// Package engine runs the quarterly trade-war simulation.
//
// An Engine owns one State and one agent per country. Each Step runs a fixed
// pipeline: events, decisions, action application, GDP growth, trade flows,
// indicator finalization, and agent strategy updates. Later stages read what
// earlier stages wrote, so the order is part of the model.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/talgya/tradewar/internal/agents"
	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/events"
	"github.com/talgya/tradewar/internal/impact"
	"github.com/talgya/tradewar/internal/stability"
	"github.com/talgya/tradewar/internal/state"
)

// Config controls a simulation run.
type Config struct {
	Years               int
	QuartersPerYear     int
	Seed                int64
	DiversionElasticity float64
	MaxDiversion        float64
	AllowGeneric        bool // Serve unknown countries with a generic agent
}

// DefaultConfig mirrors the stock five-year quarterly run.
func DefaultConfig() Config {
	return Config{
		Years:               5,
		QuartersPerYear:     4,
		Seed:                42,
		DiversionElasticity: 1.5,
		MaxDiversion:        0.5,
	}
}

// GrowthFunc returns a country's quarterly GDP growth and its breakdown.
type GrowthFunc func(st *state.State, country string, year, quarter int) (float64, impact.Factors)

// StepReport summarizes one completed step.
type StepReport struct {
	Year       int
	Quarter    int
	Step       int
	Actions    []economy.EconomicAction
	Events     []economy.EventConfig
	GDP        map[string]float64
	GDPFactors map[string]impact.Factors
	Stability  stability.Report
	State      *state.State // Independent snapshot taken after the step
}

// Option customizes an Engine.
type Option func(*Engine)

// WithAdvisor consults an external advisor before each agent's rules.
func WithAdvisor(a agents.Advisor) Option {
	return func(e *Engine) { e.advisor = a }
}

// WithFactory replaces the default agent factory.
func WithFactory(f *agents.Factory) Option {
	return func(e *Engine) { e.factory = f }
}

// WithGrowth replaces the GDP impact calculator.
func WithGrowth(fn GrowthFunc) Option {
	return func(e *Engine) { e.growth = fn }
}

// WithClock sets the clock used to stamp actions.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// OnStep registers a callback invoked by Run after every step.
func OnStep(fn func(StepReport)) Option {
	return func(e *Engine) { e.onStep = append(e.onStep, fn) }
}

// Engine drives a simulation forward one quarter at a time.
// It is not safe for concurrent use.
type Engine struct {
	cfg       Config
	st        *state.State
	order     []string
	agents    map[string]agents.Agent
	events    *events.Generator
	tariffs   *impact.TariffCalculator
	trade     *impact.TradeUpdater
	stability *stability.Analyzer
	growth    GrowthFunc
	advisor   agents.Advisor
	factory   *agents.Factory
	now       func() time.Time
	onStep    []func(StepReport)

	history []*state.State
	last    StepReport
}

// New builds an engine over copies of countries. An empty country list or a
// country without an agent is a fatal error.
func New(countries []*economy.Country, cfg Config, opts ...Option) (*Engine, error) {
	if len(countries) == 0 {
		return nil, economy.Fatalf("new engine", "empty country list")
	}
	if cfg.QuartersPerYear <= 0 {
		cfg.QuartersPerYear = 4
	}

	seen := make(economy.CountrySet, len(countries))
	owned := make([]*economy.Country, 0, len(countries))
	for _, c := range countries {
		if c == nil {
			return nil, economy.Fatalf("new engine", "nil country")
		}
		if seen.Has(c) {
			return nil, economy.Fatalf("new engine", "duplicate country %q", c.Name)
		}
		seen.Add(c)
		owned = append(owned, c.Clone())
	}

	e := &Engine{
		cfg:       cfg,
		st:        state.New(owned, cfg.QuartersPerYear, rand.New(rand.NewSource(cfg.Seed))),
		agents:    make(map[string]agents.Agent, len(owned)),
		events:    events.NewGeneratorSeed(cfg.Seed + 1),
		tariffs:   impact.NewTariffCalculator(),
		trade:     impact.NewTradeUpdater(),
		stability: stability.NewAnalyzer(),
		growth:    impact.CalculateGDPImpact,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if cfg.DiversionElasticity > 0 {
		e.trade.DiversionElasticity = cfg.DiversionElasticity
	}
	if cfg.MaxDiversion > 0 {
		e.trade.MaxDiversion = cfg.MaxDiversion
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.factory == nil {
		e.factory = agents.NewFactory(e.advisor)
	}
	if cfg.AllowGeneric {
		e.factory.AllowGeneric(true)
	}

	for _, c := range owned {
		a, err := e.factory.Create(c.Name)
		if err != nil {
			return nil, fmt.Errorf("create agent: %w", err)
		}
		e.agents[c.Name] = a
		e.order = append(e.order, c.Name)
		slog.Debug("agent initialized", "country", c.Name, "type", fmt.Sprintf("%T", a))
	}

	e.trade.SeedFlows(e.st, e.st.Period())
	e.st.RecordGDPSnapshot()
	return e, nil
}

// State returns the live state. Callers must not step concurrently.
func (e *Engine) State() *state.State { return e.st }

// Config returns the run configuration.
func (e *Engine) Config() Config { return e.cfg }

// Agent returns the agent for a country.
func (e *Engine) Agent(country string) (agents.Agent, bool) {
	a, ok := e.agents[country]
	return a, ok
}

// Events returns the event generator.
func (e *Engine) Events() *events.Generator { return e.events }

// Trade returns the trade updater so callers can tune diversion.
func (e *Engine) Trade() *impact.TradeUpdater { return e.trade }

// History returns the per-step snapshots recorded by Run.
func (e *Engine) History() []*state.State { return e.history }

// LastReport returns the report of the most recent step.
func (e *Engine) LastReport() StepReport { return e.last }
