package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/talgya/tradewar/internal/economy"
)

// Completer is anything that can answer a system+user prompt.
type Completer interface {
	Complete(system, userPrompt string, maxTokens int) (string, error)
}

// PolicyContext is everything an advisor sees before choosing a country's move.
type PolicyContext struct {
	Country      string
	Year         int
	Quarter      int
	GDP          float64
	GDPGrowth    float64
	Inflation    float64
	Unemployment float64
	Balances     map[string]float64 // partner -> cumulative trade balance
	Tariffs      map[string]float64 // partner -> average active rate imposed on us
	Recent       []economy.EconomicAction
	Events       []string
	Sectors      []string
}

// PolicyDecision is the parsed advisor reply.
type PolicyDecision struct {
	Action        economy.ActionType `json:"action"`
	Target        string             `json:"target"`
	Sectors       []string           `json:"sectors"`
	Magnitude     float64            `json:"magnitude"`
	Justification string             `json:"justification"`
}

// ToAction converts the decision into an action for country.
func (d PolicyDecision) ToAction(country string) economy.EconomicAction {
	return economy.EconomicAction{
		Country:       country,
		Type:          d.Action,
		Target:        d.Target,
		Sectors:       d.Sectors,
		Magnitude:     d.Magnitude,
		Justification: d.Justification,
	}
}

// GeneratePolicyDecision asks the advisor for this quarter's move.
func GeneratePolicyDecision(c Completer, ctx PolicyContext, maxTokens int) (PolicyDecision, error) {
	if c == nil {
		return PolicyDecision{}, ErrNotConfigured
	}
	resp, err := c.Complete(buildPolicySystemPrompt(ctx), buildPolicyUserPrompt(ctx), maxTokens)
	if err != nil {
		return PolicyDecision{}, err
	}
	return ParsePolicyResponse(resp)
}

func buildPolicySystemPrompt(ctx PolicyContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the chief trade policy advisor for %s. ", ctx.Country)
	b.WriteString("Each quarter you recommend exactly one economic action. ")
	b.WriteString("Weigh growth, employment, and the risk of escalation.\n\n")
	b.WriteString("Respond with ONLY a JSON object:\n")
	b.WriteString(`{"action": "<type>", "target": "<country or empty>", "sectors": ["..."], "magnitude": 0.0, "justification": "..."}`)
	b.WriteString("\n\nValid actions: ")
	names := make([]string, len(economy.ActionTypes))
	for i, t := range economy.ActionTypes {
		names[i] = string(t)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\nMagnitude is a fraction between -1 and 1.")
	return b.String()
}

func buildPolicyUserPrompt(ctx PolicyContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: year %d, quarter %d\n", ctx.Year, ctx.Quarter)
	fmt.Fprintf(&b, "GDP: %.3f trillion, growth %.2f%%, inflation %.2f%%, unemployment %.2f%%\n",
		ctx.GDP, ctx.GDPGrowth*100, ctx.Inflation*100, ctx.Unemployment*100)

	if len(ctx.Balances) > 0 {
		b.WriteString("\nTrade balances:\n")
		for _, p := range economy.SortedKeys(ctx.Balances) {
			fmt.Fprintf(&b, "- %s: %+.4f\n", p, ctx.Balances[p])
		}
	}
	if len(ctx.Tariffs) > 0 {
		b.WriteString("\nTariffs imposed on us:\n")
		for _, p := range economy.SortedKeys(ctx.Tariffs) {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", p, ctx.Tariffs[p]*100)
		}
	}
	if len(ctx.Recent) > 0 {
		b.WriteString("\nRecent actions:\n")
		for _, a := range ctx.Recent {
			target := a.Target
			if target == "" {
				target = "all"
			}
			fmt.Fprintf(&b, "- %s: %s -> %s (%.2f)\n", a.Country, a.Type, target, a.Magnitude)
		}
	}
	if len(ctx.Events) > 0 {
		b.WriteString("\nActive events: ")
		b.WriteString(strings.Join(ctx.Events, "; "))
		b.WriteString("\n")
	}
	if len(ctx.Sectors) > 0 {
		b.WriteString("\nKey sectors: ")
		b.WriteString(strings.Join(ctx.Sectors, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// ParsePolicyResponse extracts and validates the JSON decision from an LLM reply.
func ParsePolicyResponse(resp string) (PolicyDecision, error) {
	start := strings.Index(resp, "{")
	end := strings.LastIndex(resp, "}")
	if start < 0 || end < 0 || end <= start {
		return PolicyDecision{}, fmt.Errorf("no JSON found in response")
	}

	var raw struct {
		Action        string   `json:"action"`
		Target        string   `json:"target"`
		Sectors       []string `json:"sectors"`
		Magnitude     float64  `json:"magnitude"`
		Justification string   `json:"justification"`
	}
	if err := json.Unmarshal([]byte(resp[start:end+1]), &raw); err != nil {
		return PolicyDecision{}, fmt.Errorf("parse JSON: %w", err)
	}

	action, err := economy.ParseActionType(raw.Action)
	if err != nil {
		return PolicyDecision{}, err
	}

	return PolicyDecision{
		Action:        action,
		Target:        strings.TrimSpace(raw.Target),
		Sectors:       raw.Sectors,
		Magnitude:     economy.Clamp(raw.Magnitude, -1, 1),
		Justification: raw.Justification,
	}, nil
}
