package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/talgya/tradewar/internal/agents"
	"github.com/talgya/tradewar/internal/config"
	"github.com/talgya/tradewar/internal/data"
	"github.com/talgya/tradewar/internal/engine"
	"github.com/talgya/tradewar/internal/llm"
	"github.com/talgya/tradewar/internal/persistence"
	"github.com/talgya/tradewar/internal/publish"
	"github.com/talgya/tradewar/internal/stability"
)

func runCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a simulation and write the results table",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "years", Value: cfg.Years, Usage: "years to simulate"},
			&cli.Int64Flag{Name: "seed", Value: cfg.Seed, Usage: "random seed"},
			&cli.StringFlag{Name: "countries", Value: strings.Join(cfg.Countries, ","), Usage: "comma-separated country names"},
			&cli.StringFlag{Name: "data-dir", Value: cfg.DataDir, Usage: "directory of country data files"},
			&cli.StringFlag{Name: "output", Value: cfg.OutputDir, Usage: "results directory"},
			&cli.StringFlag{Name: "db", Value: cfg.DBPath, Usage: "SQLite run history path"},
			&cli.BoolFlag{Name: "no-db", Usage: "do not record the run"},
			&cli.BoolFlag{Name: "allow-generic", Value: cfg.AllowGeneric, Usage: "simulate countries without a dedicated agent"},
			&cli.BoolFlag{Name: "briefing", Usage: "print a closing briefing"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.Years = c.Int("years")
			cfg.Seed = c.Int64("seed")
			cfg.Countries = splitList(c.String("countries"))
			cfg.DataDir = c.String("data-dir")
			cfg.OutputDir = c.String("output")
			cfg.DBPath = c.String("db")
			cfg.AllowGeneric = c.Bool("allow-generic")
			if c.Bool("no-db") {
				cfg.DBPath = ""
			}
			return runSimulation(ctx, cfg, c.Bool("briefing"))
		},
	}
}

func runSimulation(ctx context.Context, cfg config.Config, briefing bool) error {
	if len(cfg.Countries) == 0 {
		return errors.New("no countries given")
	}

	countries, err := data.Load(data.NewFileProvider(cfg.DataDir, cfg.Seed), cfg.Countries)
	if err != nil {
		return fmt.Errorf("load countries: %w", err)
	}

	engCfg := engine.DefaultConfig()
	engCfg.Years = cfg.Years
	engCfg.QuartersPerYear = cfg.QuartersPerYear
	engCfg.Seed = cfg.Seed
	engCfg.DiversionElasticity = cfg.DiversionElasticity
	engCfg.MaxDiversion = cfg.MaxDiversion
	engCfg.AllowGeneric = cfg.AllowGeneric

	var opts []engine.Option

	// Keep advisor a nil interface unless the client is usable.
	var advisor llm.Completer
	if client := llm.NewClient(llm.Config{
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}); client.Enabled() {
		advisor = client
		factory := agents.NewFactory(client)
		factory.SetAdvisorTokens(cfg.LLM.MaxTokens)
		opts = append(opts, engine.WithFactory(factory))
		slog.Info("policy advisor enabled", "rpm", cfg.LLM.RequestsPerMinute)
	}

	runID := uuid.NewString()
	var db *persistence.DB
	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if runID, err = db.CreateRun(engCfg, cfg.Countries); err != nil {
			return err
		}
		slog.Info("recording run", "run", runID, "db", cfg.DBPath)
		opts = append(opts, engine.OnStep(func(r engine.StepReport) {
			if err := db.SaveStep(runID, r); err != nil {
				slog.Error("save step failed", "run", runID, "step", r.Step, "error", err)
			}
		}))
	}

	var pub publish.Publisher = publish.Nop{}
	if cfg.Kafka.Broker != "" {
		pub = publish.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic)
		slog.Info("publishing steps", "broker", cfg.Kafka.Broker, "topic", cfg.Kafka.Topic)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			slog.Warn("close publisher", "error", err)
		}
	}()
	opts = append(opts, engine.OnStep(func(r engine.StepReport) {
		if err := pub.Publish(ctx, publish.NewSummary(runID, r)); err != nil {
			slog.Warn("publish step failed", "step", r.Step, "error", err)
		}
	}))

	eng, err := engine.New(countries, engCfg, opts...)
	if err != nil {
		return err
	}

	_, runErr := eng.Run(ctx, cfg.Years)
	if db != nil {
		status := persistence.StatusCompleted
		if runErr != nil {
			status = persistence.StatusFailed
		}
		if err := db.FinishRun(runID, status); err != nil {
			slog.Error("finish run failed", "run", runID, "error", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("run simulation: %w", runErr)
	}

	rows := eng.Results()
	if err := engine.SaveResults(cfg.OutputDir, rows); err != nil {
		return err
	}
	printResults(os.Stdout, rows)
	fmt.Printf("\nrun %s: results written to %s\n", runID, cfg.OutputDir)

	if briefing {
		fmt.Println()
		fmt.Println(llm.GenerateBriefing(advisor, briefingData(eng.LastReport())))
	}
	return nil
}

func briefingData(r engine.StepReport) llm.BriefingData {
	d := llm.BriefingData{
		Year:            r.Year,
		Quarter:         r.Quarter,
		Actions:         r.Actions,
		GlobalStability: r.Stability.Score,
		Trend:           r.Stability.Trend,
	}
	for _, e := range r.Events {
		d.Events = append(d.Events, e.Name)
	}
	if r.State == nil {
		return d
	}
	analyzer := stability.NewAnalyzer()
	for _, c := range r.State.Countries {
		line := llm.CountryLine{
			Name:         c.Name,
			GDP:          c.GDP,
			Inflation:    c.InflationRate,
			Unemployment: c.UnemploymentRate,
		}
		if ind, ok := r.State.LatestIndicator(c.Name); ok {
			line.GDPGrowth = ind.GDPGrowth
		}
		if score, _, err := analyzer.Country(r.State, c.Name); err == nil {
			line.Stability = score
		}
		d.Countries = append(d.Countries, line)
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
