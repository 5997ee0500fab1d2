package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ConsoleReporter renders replay results as terminal tables.
type ConsoleReporter struct{}

// NewConsoleReporter creates a new console reporter
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintSummary prints the run header and aggregate counts.
func (r *ConsoleReporter) PrintSummary(result *ReplayResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("REPLAY SUMMARY")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Symbol", result.Symbol},
		{"Data file", result.DataFile},
		{"Candles", result.Candles},
		{"Skipped CSV rows", result.SkippedRows},
		{"Rejected candles", result.BadCandles},
		{"Entries", result.Entries()},
		{"Exits", result.Exits()},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintDecisions prints the decision log, one row per non-neutral
// decision.
func (r *ConsoleReporter) PrintDecisions(result *ReplayResult) {
	if len(result.Events) == 0 {
		fmt.Println("No decisions produced.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("DECISIONS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Time", "Decision", "Regime", "Price", "Stop", "Leverage"})

	for _, e := range result.Events {
		stop := "-"
		if e.Stop > 0 {
			stop = fmt.Sprintf("%.4f", e.Stop)
		}
		lev := "-"
		if e.Leverage > 0 {
			lev = fmt.Sprintf("%.1fx", e.Leverage)
		}
		t.AppendRow(table.Row{
			e.Index,
			e.Timestamp.Format("2006-01-02 15:04"),
			e.Decision,
			e.Regime,
			fmt.Sprintf("%.4f", e.Price),
			stop,
			lev,
		})
	}

	t.Render()
	fmt.Println()
}
