package engine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/state"
)

// ResultRow is one history entry flattened into named metrics.
type ResultRow struct {
	Year      int                `json:"year"`
	Quarter   int                `json:"quarter"`
	Countries []string           `json:"countries"`
	Metrics   map[string]float64 `json:"metrics"`
}

// GDPKey names a country's GDP metric.
func GDPKey(country string) string { return country + "_gdp" }

// BalanceKey names the cumulative trade balance of a with b.
func BalanceKey(a, b string) string { return "trade_balance_" + a + "_" + b }

// Results flattens the recorded history.
func (e *Engine) Results() []ResultRow {
	rows := make([]ResultRow, len(e.history))
	for i, st := range e.history {
		rows[i] = ResultRowFor(st)
	}
	return rows
}

// ResultRowFor flattens one state.
func ResultRowFor(st *state.State) ResultRow {
	names := st.CountryNames()
	row := ResultRow{
		Year:      st.Year,
		Quarter:   st.Quarter,
		Countries: names,
		Metrics:   make(map[string]float64),
	}
	for _, c := range st.Countries {
		row.Metrics[GDPKey(c.Name)] = c.GDP
		row.Metrics[c.Name+"_inflation"] = c.InflationRate
		row.Metrics[c.Name+"_unemployment"] = c.UnemploymentRate
	}
	for _, a := range names {
		for _, b := range names {
			if a != b {
				row.Metrics[BalanceKey(a, b)] = st.TradeBalance(a, b)
			}
		}
	}
	return row
}

// SaveResults writes simulation_results.csv and summary.json into dir.
func SaveResults(dir string, rows []ResultRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no results to save")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "simulation_results.csv"))
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	keys := economy.SortedKeys(rows[0].Metrics)
	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"year", "quarter"}, keys...)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{strconv.Itoa(r.Year), strconv.Itoa(r.Quarter)}
		for _, k := range keys {
			rec = append(rec, strconv.FormatFloat(r.Metrics[k], 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	years := make(map[int]bool)
	for _, r := range rows {
		years[r.Year] = true
	}
	summary := struct {
		TotalYears int       `json:"total_years"`
		Countries  []string  `json:"countries"`
		FinalState ResultRow `json:"final_state"`
	}{len(years), rows[0].Countries, rows[len(rows)-1]}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
