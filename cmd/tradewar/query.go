package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/talgya/tradewar/internal/config"
	"github.com/talgya/tradewar/internal/economy"
	"github.com/talgya/tradewar/internal/events"
	"github.com/talgya/tradewar/internal/impact"
	"github.com/talgya/tradewar/internal/persistence"
)

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List the event catalog",
		Action: func(ctx context.Context, c *cli.Command) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPROBABILITY\tQUARTERS\tTRIGGER\tAFFECTED")
			for _, e := range events.NewGeneratorSeed(0).Catalog() {
				trigger := "-"
				if e.TriggerStep != nil {
					trigger = fmt.Sprintf("step %d", *e.TriggerStep)
				}
				fmt.Fprintf(w, "%s\t%.3f\t%d\t%s\t%v\n", e.Name, e.Probability, e.DurationQuarters, trigger, e.AffectedCountries)
			}
			return w.Flush()
		},
	}
}

func optimalTariffCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimal-tariff",
		Usage: "Compute per-sector optimal tariffs for a country",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "country", Value: "US", Usage: "imposing country"},
			&cli.StringFlag{Name: "objective", Value: string(impact.ObjectiveWelfare), Usage: "welfare, revenue or politics"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rates, err := impact.CalculateOptimalTariff(c.String("country"), impact.Objective(c.String("objective")), nil)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SECTOR\tRATE")
			for _, sector := range economy.SortedKeys(rates) {
				fmt.Fprintf(w, "%s\t%.1f%%\n", sector, rates[sector]*100)
			}
			return w.Flush()
		},
	}
}

func historyCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded runs, or show one run's GDP path",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: cfg.DBPath, Usage: "SQLite run history path"},
			&cli.StringFlag{Name: "run", Usage: "run id to show"},
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "runs to list"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			db, err := persistence.Open(c.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			if id := c.String("run"); id != "" {
				return showRun(db, id)
			}
			runs, err := db.ListRuns(c.Int("limit"))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSEED\tYEARS\tSTEPS\tSTATUS\tCOUNTRIES")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n", r.ID, r.CreatedAt, r.Seed, r.Years, r.Steps, r.Status, r.Countries)
			}
			return w.Flush()
		},
	}
}

func showRun(db *persistence.DB, id string) error {
	run, err := db.GetRun(id)
	if err != nil {
		return err
	}
	fmt.Printf("run %s (%s, seed %d, %d steps)\n\n", run.ID, run.Status, run.Seed, run.Steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTRY\tSTEP\tPERIOD\tGDP\tGROWTH")
	for _, country := range run.CountryList() {
		series, err := db.GDPSeries(id, country)
		if err != nil {
			return err
		}
		for _, p := range series {
			fmt.Fprintf(w, "%s\t%d\tY%d Q%d\t%.3f\t%+.2f%%\n", country, p.Step, p.Year, p.Quarter+1, p.GDP, p.Growth*100)
		}
	}
	return w.Flush()
}
