package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/utils"
	"github.com/Aashish23092/taxwise-dashboard/utils/spending"
	"github.com/spf13/cobra"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate <breakdown.json>",
	Short: "Group small spending categories into Other",
	Args:  cobra.ExactArgs(1),
	RunE:  runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var breakdown dto.SpendingBreakdown
	if err := json.Unmarshal(data, &breakdown); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	buckets := spending.NewConsolidator(cfg.OtherThreshold, cfg.IncomeMarker).Consolidate(breakdown)
	total := buckets.Total()

	printHeader(out, fmt.Sprintf("Spending (threshold %.1f%%)", cfg.OtherThreshold*100))
	if len(buckets) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  No spending categories."))
	}
	for _, item := range buckets {
		share := 0.0
		if total > 0 {
			share = item.Amount / total * 100
		}
		printRow(out, item.Category, fmt.Sprintf("%s  %12s  %5.1f%%", bar(share, 20), utils.FormatRupees(item.Amount), share))
	}
	printRow(out, "Total", utils.FormatRupees(total))
	fmt.Fprintln(out)
	return nil
}
