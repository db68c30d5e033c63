package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"traffic-dashboard-backend/internal/domain"
)

func newCostCmd() *cobra.Command {
	var (
		vehicles int
		delay    int
		level    string
	)

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Estimate the economic cost of congestion",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := domain.ParseLevel(level)
			if err != nil {
				return err
			}
			est := domain.EstimateCost(domain.NewDefaultCostFactors(), domain.CostInput{
				Vehicles:     vehicles,
				AvgDelayMins: delay,
				Level:        lvl,
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Fuel wasted\t%s\n", est.Formatted.FuelWasted)
			fmt.Fprintf(w, "Fuel cost\t%s\n", est.Formatted.FuelCost)
			fmt.Fprintf(w, "Time lost\t%s\n", est.Formatted.TimeLost)
			fmt.Fprintf(w, "Time cost\t%s\n", est.Formatted.TimeCost)
			fmt.Fprintf(w, "CO2\t%s\n", est.Formatted.Carbon)
			fmt.Fprintf(w, "Total daily\t%s\n", est.Formatted.Total)
			fmt.Fprintf(w, "Monthly\t%s\n", est.Formatted.Monthly)
			fmt.Fprintf(w, "Yearly\t%s\n", est.Formatted.Yearly)
			fmt.Fprintf(w, "Trees to offset\t%d per day, %d per year\n", est.TreesToOffset, est.TreesYearly)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&vehicles, "vehicles", 1000, "vehicles stuck in congestion")
	cmd.Flags().IntVar(&delay, "delay", 15, "average delay per vehicle, minutes")
	cmd.Flags().StringVar(&level, "level", "medium", "congestion level: low, medium, high")
	return cmd
}
