package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/talgya/tradewar/internal/engine"
)

// printResults writes one line per step: each country's GDP followed by
// its balance with every partner.
func printResults(out io.Writer, rows []engine.ResultRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "no results")
		return
	}
	names := rows[0].Countries

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "YEAR\tQ\t")
	for _, n := range names {
		fmt.Fprintf(w, "%s GDP\t", n)
	}
	for _, a := range names {
		for _, b := range names {
			if a != b {
				fmt.Fprintf(w, "%s/%s\t", a, b)
			}
		}
	}
	fmt.Fprintln(w)

	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%d\t", r.Year, r.Quarter+1)
		for _, n := range names {
			fmt.Fprintf(w, "%.3f\t", r.Metrics[engine.GDPKey(n)])
		}
		for _, a := range names {
			for _, b := range names {
				if a != b {
					fmt.Fprintf(w, "%.1f\t", r.Metrics[engine.BalanceKey(a, b)])
				}
			}
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
