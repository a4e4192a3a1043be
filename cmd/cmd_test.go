package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const savedAnalysis = `{
  "dashboard_data": {
    "investments_80c": 45000,
    "total_income": 1200000,
    "transactions": [{"date": "01-04-2024", "description": "Salary", "credit": 100000, "debit": 0}],
    "spending_breakdown": {"Rent": 30000, "Food": 12000, "Books": 500}
  },
  "tax_analysis": {
    "recommended_regime": "old",
    "old_regime": {"taxable_income": 1000000, "tax_payable": 112500},
    "new_regime": {"taxable_income": 1150000, "tax_payable": 120000},
    "recommendations": []
  },
  "cibil_analysis": {"score": 742, "factors": {"credit_utilization": 0.35, "credit_mix": "Good"}, "recommendations": []}
}`

// runCLI executes the root command in an isolated working directory
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"TAXWISE_CONFIG", "OTHER_THRESHOLD", "SERVER_PORT", "MAX_UPLOAD_MB", "ANALYSIS_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSimulateCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := runCLI(t, "simulate", "-u", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "725")
	assert.Contains(t, out, "moderate")
	assert.Contains(t, out, "-25")

	out, err = runCLI(t, "simulate", "--utilization", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "770")
}

func TestConsolidateCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "breakdown.json", `{"Rent": 1000, "Salary Income": 9000, "Food": 900, "Snacks": 20}`)

	out, err := runCLI(t, "consolidate", path)
	require.NoError(t, err)

	rent := strings.Index(out, "Rent")
	food := strings.Index(out, "Food")
	other := strings.Index(out, "Other")
	require.True(t, rent >= 0 && food >= 0 && other >= 0, out)
	assert.Less(t, rent, food)
	assert.Less(t, food, other)
	assert.NotContains(t, out, "Snacks")
	assert.NotContains(t, out, "Salary")
	assert.Contains(t, out, "₹ 1,920")
}

func TestConsolidateCommandMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "consolidate", "missing.json")
	assert.Error(t, err)
}

func TestReportCommandPDF(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeFile(t, dir, "analysis.json", savedAnalysis)
	output := filepath.Join(dir, "summary.pdf")

	out, err := runCLI(t, "report", input, "-o", output, "--format", "pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "summary.pdf")
	assert.Contains(t, out, "OLD")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReportCommandExcel(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeFile(t, dir, "analysis.json", savedAnalysis)
	output := filepath.Join(dir, "summary.xlsx")

	_, err := runCLI(t, "report", input, "-o", output, "--format", "xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Transactions", "Spending"}, f.GetSheetList())

	rows, err := f.GetRows("Spending")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Other", rows[3][0])
}

func TestReportCommandRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeFile(t, dir, "analysis.json", savedAnalysis)

	_, err := runCLI(t, "report", input, "-o", filepath.Join(dir, "x.doc"), "--format", "doc")
	assert.Error(t, err)
}
