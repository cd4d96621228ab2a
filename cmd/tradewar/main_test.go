package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/talgya/tradewar/internal/config"
	"github.com/talgya/tradewar/internal/engine"
	"github.com/talgya/tradewar/internal/persistence"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"US,China", []string{"US", "China"}},
		{" US , ,Indonesia ", []string{"US", "Indonesia"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitList(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintResults(t *testing.T) {
	rows := []engine.ResultRow{{
		Year: 0, Quarter: 1,
		Countries: []string{"US", "China"},
		Metrics: map[string]float64{
			engine.GDPKey("US"):              28.9,
			engine.GDPKey("China"):           17.7,
			engine.BalanceKey("US", "China"): -120.5,
			engine.BalanceKey("China", "US"): 120.5,
		},
	}}
	var buf bytes.Buffer
	printResults(&buf, rows)
	out := buf.String()
	for _, want := range []string{"US GDP", "US/China", "28.900", "-120.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunSimulationRecordsRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Years:               1,
		QuartersPerYear:     4,
		Seed:                42,
		OutputDir:           filepath.Join(dir, "out"),
		DBPath:              filepath.Join(dir, "db", "tradewar.db"),
		Countries:           []string{"US", "China", "Indonesia"},
		DiversionElasticity: 1.5,
		MaxDiversion:        0.5,
	}
	if err := runSimulation(context.Background(), cfg, true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "summary.json")); err != nil {
		t.Fatalf("summary not written: %v", err)
	}

	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != persistence.StatusCompleted || runs[0].Steps != 4 {
		t.Fatalf("unexpected runs %+v", runs)
	}
}

func TestRunSimulationUnknownCountry(t *testing.T) {
	cfg := config.Config{
		Years:           1,
		QuartersPerYear: 4,
		OutputDir:       t.TempDir(),
		Countries:       []string{"US", "Atlantis"},
	}
	if err := runSimulation(context.Background(), cfg, false); err == nil {
		t.Fatal("expected unknown country to fail without generic agents")
	}
}
