package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// moversCmd represents the movers command
var moversCmd = &cobra.Command{
	Use:   "movers",
	Short: "Print the market movers board",
	RunE:  runMovers,
}

func init() {
	rootCmd.AddCommand(moversCmd)
}

func runMovers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	movers, err := a.orchestrator.MarketMovers(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-28s %10s %8s %12s\n", "SYMBOL", "NAME", "PRICE", "CHG%", "VOLUME")
	for _, m := range movers {
		name := m.Name
		if len(name) > 28 {
			name = name[:28]
		}
		fmt.Printf("%-8s %-28s %10.2f %8.2f %12d\n", m.Symbol, name, m.Price, m.ChangePercent, m.Volume)
	}
	return nil
}
