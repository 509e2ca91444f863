package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/store"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run one screening pass and print the ranked results",
	Long: `Runs the screening pipeline once over the configured universe
and prints the passers ranked by score. Results are persisted when a
database is configured.

Example:
  go run ./cmd/screener screen
  go run ./cmd/screener screen --symbols AAPL,MSFT,NVDA`,
	RunE: runScreen,
}

var screenSymbols string

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenSymbols, "symbols", "", "comma-separated symbols (default: configured universe)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	var symbols []string
	if screenSymbols != "" {
		for _, s := range strings.Split(screenSymbols, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
	} else {
		symbols = a.universe.Symbols(ctx)
	}

	report, err := a.orchestrator.ScreenUniverse(ctx, symbols)
	if err != nil {
		return err
	}

	fmt.Printf("Screened %d symbols in %s: %d qualified, %d failed\n\n",
		report.Session.SymbolCount, report.Session.Duration.Round(time.Millisecond),
		report.Session.QualifiedCount, report.Session.FailedCount)

	fmt.Printf("%-4s %-8s %-28s %10s %8s %10s\n", "#", "SYMBOL", "NAME", "PRICE", "CHG%", "SCORE")
	for i, stock := range report.Qualified {
		name := stock.Quote.Name
		if len(name) > 28 {
			name = name[:28]
		}
		fmt.Printf("%-4d %-8s %-28s %10.2f %8.2f %10.1f\n",
			i+1, stock.Quote.Symbol, name,
			stock.Quote.Price, stock.Quote.ChangePercent, stock.Screening.Score)
	}

	if a.sessions == nil {
		return nil
	}

	sessionID, err := a.sessions.Save(ctx, report.Session)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	records := make([]store.ResultRecord, len(report.Qualified))
	for i, stock := range report.Qualified {
		records[i] = store.RecordFromStock(sessionID, i+1, stock)
	}
	if err := a.results.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	fmt.Printf("\nPersisted as session %d\n", sessionID)
	return nil
}
