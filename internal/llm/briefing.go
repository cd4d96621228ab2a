package llm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/tradewar/internal/economy"
)

// CountryLine summarizes one country for a briefing.
type CountryLine struct {
	Name         string
	GDP          float64
	GDPGrowth    float64
	Inflation    float64
	Unemployment float64
	Stability    float64
}

// BriefingData is the input for a quarterly briefing.
type BriefingData struct {
	Year            int
	Quarter         int
	Countries       []CountryLine
	Actions         []economy.EconomicAction
	Events          []string
	GlobalStability float64
	Trend           string
}

// GenerateBriefing writes a short analyst briefing for the quarter.
// Falls back to a plain template when the completer is nil or errors.
func GenerateBriefing(c Completer, data BriefingData) string {
	if c == nil {
		return FallbackBriefing(data)
	}
	system := "You are a senior economist writing a terse quarterly briefing on an ongoing trade conflict. " +
		"Write 2-3 short paragraphs in plain prose. Name countries and concrete numbers. No headings."
	text, err := c.Complete(system, buildBriefingPrompt(data), 600)
	if err != nil {
		slog.Warn("briefing generation failed", "error", err)
		return FallbackBriefing(data)
	}
	return strings.TrimSpace(text)
}

func buildBriefingPrompt(data BriefingData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Year %d, quarter %d. Global stability %.2f (%s).\n\n", data.Year, data.Quarter, data.GlobalStability, data.Trend)
	b.WriteString("Countries:\n")
	for _, c := range data.Countries {
		fmt.Fprintf(&b, "- %s: GDP %.3f, growth %.2f%%, inflation %.2f%%, unemployment %.2f%%, stability %.2f\n",
			c.Name, c.GDP, c.GDPGrowth*100, c.Inflation*100, c.Unemployment*100, c.Stability)
	}
	if len(data.Actions) > 0 {
		b.WriteString("\nActions this quarter:\n")
		for _, a := range data.Actions {
			writeAction(&b, a)
		}
	}
	if len(data.Events) > 0 {
		b.WriteString("\nEvents: ")
		b.WriteString(strings.Join(data.Events, "; "))
		b.WriteString("\n")
	}
	return b.String()
}

func writeAction(b *strings.Builder, a economy.EconomicAction) {
	if a.HasTarget() {
		fmt.Fprintf(b, "- %s %s against %s (%.2f): %s\n", a.Country, a.Type, a.Target, a.Magnitude, a.Justification)
		return
	}
	fmt.Fprintf(b, "- %s %s (%.2f): %s\n", a.Country, a.Type, a.Magnitude, a.Justification)
}

// FallbackBriefing renders the briefing without an LLM.
func FallbackBriefing(data BriefingData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TRADE BRIEFING: Year %d Q%d\n\n", data.Year, data.Quarter)
	fmt.Fprintf(&b, "Global stability stands at %.2f and is %s.\n", data.GlobalStability, data.Trend)

	var best, worst *CountryLine
	for i := range data.Countries {
		c := &data.Countries[i]
		if best == nil || c.GDPGrowth > best.GDPGrowth {
			best = c
		}
		if worst == nil || c.GDPGrowth < worst.GDPGrowth {
			worst = c
		}
	}
	if best != nil {
		fmt.Fprintf(&b, "%s leads with %.2f%% growth", best.Name, best.GDPGrowth*100)
		if worst != best {
			fmt.Fprintf(&b, "; %s trails at %.2f%%", worst.Name, worst.GDPGrowth*100)
		}
		b.WriteString(".\n")
	}

	escalations := 0
	for _, a := range data.Actions {
		if a.Type == economy.TariffIncrease || a.Type == economy.TechExportControl || a.Type == economy.ImportQuota {
			escalations++
		}
	}
	switch {
	case escalations == 0:
		b.WriteString("No new escalations this quarter.\n")
	case escalations == 1:
		b.WriteString("One escalatory measure was announced.\n")
	default:
		fmt.Fprintf(&b, "%d escalatory measures were announced.\n", escalations)
	}
	if len(data.Events) > 0 {
		fmt.Fprintf(&b, "Events in play: %s.\n", strings.Join(data.Events, ", "))
	}
	return b.String()
}
