package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/engine"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is a stored simulation run.
type Run struct {
	ID              string `db:"id"`
	CreatedAt       string `db:"created_at"`
	Seed            int64  `db:"seed"`
	Years           int    `db:"years"`
	QuartersPerYear int    `db:"quarters_per_year"`
	Countries       string `db:"countries"` // Comma-separated
	Status          string `db:"status"`
	Steps           int    `db:"steps"`
}

// CountryList splits the stored country names.
func (r Run) CountryList() []string {
	if r.Countries == "" {
		return nil
	}
	return strings.Split(r.Countries, ",")
}

// GDPPoint is one country's GDP at one step.
type GDPPoint struct {
	Step    int     `db:"step"`
	Year    int     `db:"year"`
	Quarter int     `db:"quarter"`
	GDP     float64 `db:"gdp"`
	Growth  float64 `db:"gdp_growth"`
}

// ActionRecord is a stored action.
type ActionRecord struct {
	Step          int     `db:"step"`
	Country       string  `db:"country"`
	ActionType    string  `db:"action_type"`
	Target        string  `db:"target"`
	SectorsJSON   string  `db:"sectors_json"`
	Magnitude     float64 `db:"magnitude"`
	Justification string  `db:"justification"`
}

// CreateRun registers a new run and returns its id.
func (db *DB) CreateRun(cfg engine.Config, countries []string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO runs
		(id, created_at, seed, years, quarters_per_year, countries, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), cfg.Seed, cfg.Years, cfg.QuartersPerYear,
		strings.Join(countries, ","), StatusRunning,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	if err := db.SaveMeta("last_run_id", id); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	return id, nil
}

// FinishRun marks a run completed or failed.
func (db *DB) FinishRun(id, status string) error {
	_, err := db.conn.Exec("UPDATE runs SET status = ? WHERE id = ?", status, id)
	return err
}

// SaveStep writes one step's indicators, new flows, actions, and snapshot.
func (db *DB) SaveStep(runID string, r engine.StepReport) error {
	if r.State == nil {
		return fmt.Errorf("step %d has no state snapshot", r.Step)
	}
	st := r.State

	blob, hash, size, err := encodeSnapshot(st)
	if err != nil {
		return err
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ind, err := tx.Preparex(`INSERT OR REPLACE INTO indicators
		(run_id, step, year, quarter, country, gdp, gdp_growth, inflation, unemployment,
		 consumer_confidence, business_confidence, currency_value, trade_balance_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ind.Close()

	for _, c := range st.Countries {
		latest, ok := st.LatestIndicator(c.Name)
		if !ok {
			continue
		}
		balances, _ := json.Marshal(latest.TradeBalance)
		if _, err := ind.Exec(
			runID, r.Step, r.Year, r.Quarter, c.Name, c.GDP, latest.GDPGrowth,
			latest.Inflation, latest.Unemployment, latest.ConsumerConfidence,
			latest.BusinessConfidence, latest.CurrencyValue, string(balances),
		); err != nil {
			return fmt.Errorf("insert indicator %s: %w", c.Name, err)
		}
	}

	for _, f := range st.TradeFlows {
		if f.Year != r.Year || f.Quarter != r.Quarter {
			continue
		}
		values, _ := json.Marshal(f.SectorValues)
		if _, err := tx.Exec(`INSERT INTO trade_flows
			(run_id, step, exporter, importer, total_value, total_volume, sector_values_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Step, f.Exporter, f.Importer, f.TotalValue(), f.TotalVolume(), string(values),
		); err != nil {
			return fmt.Errorf("insert flow %s->%s: %w", f.Exporter, f.Importer, err)
		}
	}

	for _, a := range r.Actions {
		sectors, _ := json.Marshal(a.Sectors)
		if _, err := tx.Exec(`INSERT INTO actions
			(run_id, step, country, action_type, target, sectors_json, magnitude, justification)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Step, a.Country, string(a.Type), a.Target, string(sectors), a.Magnitude, a.Justification,
		); err != nil {
			return fmt.Errorf("insert action %s: %w", a.Country, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO snapshots (run_id, step, hash, raw_size, data)
		VALUES (?, ?, ?, ?, ?)`, runID, r.Step, hash, size, blob); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.Exec("UPDATE runs SET steps = steps + 1 WHERE id = ?", runID); err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("step saved", "run", runID, "step", r.Step, "snapshot_bytes", len(blob), "raw_bytes", size)
	return nil
}

// ListRuns returns runs newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, `SELECT id, created_at, seed, years, quarters_per_year,
		countries, status, steps FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	return runs, err
}

// GetRun returns one run.
func (db *DB) GetRun(id string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, `SELECT id, created_at, seed, years, quarters_per_year,
		countries, status, steps FROM runs WHERE id = ?`, id)
	return r, err
}

// GDPSeries returns a country's GDP path for a run.
func (db *DB) GDPSeries(runID, country string) ([]GDPPoint, error) {
	var pts []GDPPoint
	err := db.conn.Select(&pts, `SELECT step, year, quarter, gdp, gdp_growth FROM indicators
		WHERE run_id = ? AND country = ? ORDER BY step`, runID, country)
	return pts, err
}

// Actions returns a run's actions in step order.
func (db *DB) Actions(runID string) ([]ActionRecord, error) {
	var out []ActionRecord
	err := db.conn.Select(&out, `SELECT step, country, action_type, target, sectors_json,
		magnitude, justification FROM actions WHERE run_id = ? ORDER BY step, id`, runID)
	return out, err
}

// Action converts a stored record back into an action.
func (a ActionRecord) Action() (economy.EconomicAction, error) {
	t, err := economy.ParseActionType(a.ActionType)
	if err != nil {
		return economy.EconomicAction{}, err
	}
	var sectors []string
	if err := json.Unmarshal([]byte(a.SectorsJSON), &sectors); err != nil {
		return economy.EconomicAction{}, fmt.Errorf("decode sectors: %w", err)
	}
	return economy.EconomicAction{
		Country:       a.Country,
		Type:          t,
		Target:        a.Target,
		Sectors:       sectors,
		Magnitude:     a.Magnitude,
		Justification: a.Justification,
	}, nil
}

// FlowCount returns the number of stored flows for a run step.
func (db *DB) FlowCount(runID string, step int) (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM trade_flows WHERE run_id = ? AND step = ?", runID, step)
	return n, err
}
