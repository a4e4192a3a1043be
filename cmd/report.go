package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/service"
	"github.com/spf13/cobra"
)

var (
	flagOutput string
	flagFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report <analysis.json>",
	Short: "Render a summary report from a saved analysis response",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (defaults to the dated report name)")
	reportCmd.Flags().StringVarP(&flagFormat, "format", "f", service.FormatPDF, "Report format: pdf or xlsx")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if flagFormat != service.FormatPDF && flagFormat != service.FormatXLSX {
		return fmt.Errorf("unknown format %q (want pdf or xlsx)", flagFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var result dto.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	dashboardService := newDashboardService(cfg, nil, nil)
	state := dashboardService.Load(result)
	reportService := service.NewReportService(cfg.ReportTitle)

	output := flagOutput
	if output == "" {
		output = reportService.FileName(flagFormat)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer f.Close()

	if flagFormat == service.FormatXLSX {
		err = reportService.RenderExcel(state, f)
	} else {
		err = reportService.RenderPDF(state, f)
	}
	if err != nil {
		return err
	}

	printHeader(out, "Report written")
	printRow(out, "File", output)
	printRow(out, "Regime", state.View.RecommendedRegime)
	printRow(out, "CIBIL score", scoreStyle(state.View.CibilScore).Render(fmt.Sprintf("%d", state.View.CibilScore)))
	fmt.Fprintln(out)
	return nil
}
