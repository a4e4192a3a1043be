package cmd

import (
	"fmt"

	"github.com/Aashish23092/taxwise-dashboard/utils/cibil"
	"github.com/spf13/cobra"
)

var flagUtilization float64

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Estimate a CIBIL score from credit utilization",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Float64VarP(&flagUtilization, "utilization", "u", 30, "Credit utilization in percent (0-100)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	est := cibil.Evaluate(flagUtilization)

	printHeader(out, "CIBIL What-If")
	printRow(out, "Utilization", fmt.Sprintf("%.1f%%", est.Utilization))
	printRow(out, "Band", est.Band)
	printRow(out, "Adjustment", fmt.Sprintf("%+d", est.Adjustment))
	printRow(out, "Estimated score", scoreStyle(est.Score).Render(fmt.Sprintf("%d", est.Score)))
	fmt.Fprintln(out)
	return nil
}
