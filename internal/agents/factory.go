package agents

import (
	"fmt"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/llm"
)

// ErrUnknownCountry is returned for countries without a registered agent.
var ErrUnknownCountry = fmt.Errorf("%w: no agent registered for country", economy.ErrFatal)

// Constructor builds an agent wired to an optional advisor.
type Constructor func(advisor Advisor) Agent

// Factory creates agents by country name.
type Factory struct {
	advisor      Advisor
	registry     map[string]Constructor
	allowGeneric bool
	maxTokens    int
}

// NewFactory returns a factory holding the US, China, and Indonesia agents.
// A nil advisor keeps every agent on its rules.
func NewFactory(advisor Advisor) *Factory {
	if c, ok := advisor.(*llm.Client); ok && !c.Enabled() {
		advisor = nil
	}
	f := &Factory{advisor: advisor, registry: make(map[string]Constructor)}
	f.Register(US, func(a Advisor) Agent { return NewUSAgent(a) })
	f.Register(China, func(a Advisor) Agent { return NewChinaAgent(a) })
	f.Register(Indonesia, func(a Advisor) Agent { return NewIndonesiaAgent(a) })
	return f
}

// Register adds or replaces the constructor for a country.
func (f *Factory) Register(country string, ctor Constructor) {
	f.registry[country] = ctor
}

// AllowGeneric makes Create serve unknown countries with a GenericAgent.
func (f *Factory) AllowGeneric(allow bool) {
	f.allowGeneric = allow
}

// SetAdvisorTokens caps the response size of every advisor request made by
// agents created afterwards.
func (f *Factory) SetAdvisorTokens(n int) {
	f.maxTokens = n
}

// Registered lists countries with a dedicated agent.
func (f *Factory) Registered() []string {
	return economy.SortedKeys(f.registry)
}

// Create returns the agent for country.
func (f *Factory) Create(country string) (Agent, error) {
	var a Agent
	switch ctor, ok := f.registry[country]; {
	case ok:
		a = ctor(f.advisor)
	case f.allowGeneric:
		a = NewGenericAgent(country, f.advisor)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}
	if ad, ok := a.(interface{ SetAdvisor(Advisor, int) }); ok && f.maxTokens > 0 {
		ad.SetAdvisor(f.advisor, f.maxTokens)
	}
	return a, nil
}
