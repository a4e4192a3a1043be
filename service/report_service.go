package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/utils"
	"github.com/jung-kurt/gofpdf"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultReportTitle = "TaxWise Financial Summary"

	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// ReportService renders the downloadable summary of the current analysis
type ReportService struct {
	title string
	now   func() time.Time
}

func NewReportService(title string) *ReportService {
	if title == "" {
		title = DefaultReportTitle
	}
	return &ReportService{
		title: title,
		now:   time.Now,
	}
}

// FileName returns e.g. TaxWise_Financial_Summary_31-07-2024.pdf
func (s *ReportService) FileName(format string) string {
	return fmt.Sprintf("%s_%s.%s", strings.ReplaceAll(s.title, " ", "_"), s.now().Format("02-01-2006"), format)
}

// Reference is the identifier encoded in the report QR code
func Reference(state DashboardState) string {
	return "taxwise:report:" + state.ID
}

// ReportQR encodes content as a QR code image
func ReportQR(content string, size int) (image.Image, error) {
	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(content, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return matrix, nil
}

// RenderPDF writes an A4 summary of state to w
func (s *ReportService) RenderPDF(state DashboardState, w io.Writer) error {
	view := state.View
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(v string) string {
		return tr(strings.ReplaceAll(v, "₹", "INR "))
	}

	pdf.SetTitle(s.title, true)
	pdf.SetAuthor("TaxWise", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 40)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(79, 70, 229)
	pdf.Rect(0, 0, 210, 32, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(15, 9)
	pdf.CellFormat(180, 9, text(s.title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(15)
	pdf.CellFormat(180, 6, "Generated on "+s.now().Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.SetY(40)

	// Dashboard Overview
	sectionHeading(pdf, "Dashboard Overview")
	overview := [][2]string{
		{fmt.Sprintf("Tax Liability (%s regime)", view.RecommendedRegime), "INR " + utils.FormatINR(view.TaxLiability)},
		{"CIBIL Score", strconv.Itoa(view.CibilScore)},
		{"80C Investments", "INR " + utils.FormatINR(view.Investments80C)},
		{"80C Headroom", "INR " + utils.FormatINR(view.Headroom80C)},
		{"Total Income", "INR " + utils.FormatINR(view.TotalIncome)},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range overview {
		pdf.CellFormat(90, 7, text(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, text(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Tax Regime Comparison
	sectionHeading(pdf, "Tax Regime Comparison")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(238, 242, 255)
	for i, h := range []string{"Regime", "Taxable Income", "Tax Payable"} {
		pdf.CellFormat(60, 8, h, "1", boolToLn(i == 2), "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, regime := range []dto.RegimeView{view.TaxOptimizer.OldRegime, view.TaxOptimizer.NewRegime} {
		name := regime.Name
		if regime.Recommended {
			name += " (Recommended)"
		}
		pdf.CellFormat(60, 8, text(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, "INR "+utils.FormatINR(regime.TaxableIncome), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 8, "INR "+utils.FormatINR(regime.TaxPayable), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Spending Breakdown
	sectionHeading(pdf, "Spending Breakdown")
	pdf.SetFont("Helvetica", "", 10)
	if len(view.SpendingChart) == 0 {
		pdf.CellFormat(180, 7, "No spending data available.", "", 1, "L", false, 0, "")
	}
	for _, slice := range view.SpendingChart {
		y := pdf.GetY()
		pdf.SetTextColor(31, 41, 55)
		pdf.CellFormat(45, 7, text(slice.Category), "", 0, "L", false, 0, "")

		r, g, b := hexRGB(slice.Color)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(60, y+1.5, 90*slice.Share/100, 4, "F")

		pdf.SetX(155)
		pdf.CellFormat(40, 7, fmt.Sprintf("INR %s (%.1f%%)", utils.FormatINR(slice.Amount), slice.Share), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// AI Recommendations
	sectionHeading(pdf, "AI Recommendations")
	recommendations := []struct {
		heading string
		items   []string
	}{
		{"Tax", orFallback(view.TaxOptimizer.Recommendations, NoTaxRecommendations)},
		{"CIBIL", orFallback(view.CibilAdvisor.Recommendations, NoCibilRecommendations)},
	}
	for _, group := range recommendations {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(180, 7, group.heading, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, item := range group.items {
			pdf.MultiCell(180, 6, text("- "+item), "", "L", false)
		}
		pdf.Ln(2)
	}

	if err := s.drawQR(pdf, Reference(state)); err != nil {
		return err
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func (s *ReportService) drawQR(pdf *gofpdf.Fpdf, reference string) error {
	img, err := ReportQR(reference, 200)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode QR image: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("report-qr", opts, &buf)

	// Pinned to the bottom of the last page
	pdf.SetAutoPageBreak(false, 0)
	pdf.ImageOptions("report-qr", 170, 262, 25, 25, false, opts, 0, "")
	pdf.SetTextColor(107, 114, 128)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(15, 282)
	pdf.CellFormat(150, 4, "Report reference: "+reference, "", 0, "L", false, 0, "")
	return nil
}

// RenderExcel writes a workbook with Summary, Transactions and Spending sheets
func (s *ReportService) RenderExcel(state DashboardState, w io.Writer) error {
	view := state.View
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F46E5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{s.title, s.now().Format("02-01-2006")},
		{"Metric", "Value"},
		{"Recommended Regime", view.RecommendedRegime},
		{"Tax Liability", view.TaxLiability},
		{"CIBIL Score", view.CibilScore},
		{"Credit Utilization (%)", view.CibilAdvisor.CreditUtilization},
		{"80C Investments", view.Investments80C},
		{"80C Headroom", view.Headroom80C},
		{"Total Income", view.TotalIncome},
		{"Old Regime Tax", view.TaxOptimizer.OldRegime.TaxPayable},
		{"New Regime Tax", view.TaxOptimizer.NewRegime.TaxPayable},
		{"Report Reference", Reference(state)},
	}
	if err := writeRows(f, summary, summaryRows); err != nil {
		return err
	}
	f.SetCellStyle(summary, "A2", "B2", headerStyle)
	f.SetColWidth(summary, "A", "A", 26)
	f.SetColWidth(summary, "B", "B", 40)

	const transactions = "Transactions"
	if _, err := f.NewSheet(transactions); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	txRows := [][]interface{}{{"Date", "Description", "Credit", "Debit"}}
	for _, tx := range state.Analysis.DashboardData.Transactions {
		description := tx.Description
		if strings.TrimSpace(description) == "" {
			description = "N/A"
		}
		txRows = append(txRows, []interface{}{tx.DisplayDate(), description, tx.Credit, tx.Debit})
	}
	if err := writeRows(f, transactions, txRows); err != nil {
		return err
	}
	f.SetCellStyle(transactions, "A1", "D1", headerStyle)
	f.SetColWidth(transactions, "A", "A", 14)
	f.SetColWidth(transactions, "B", "B", 44)
	f.SetColWidth(transactions, "C", "D", 14)

	const spendingSheet = "Spending"
	if _, err := f.NewSheet(spendingSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	spendRows := [][]interface{}{{"Category", "Amount", "Share (%)"}}
	for _, slice := range view.SpendingChart {
		spendRows = append(spendRows, []interface{}{slice.Category, slice.Amount, slice.Share})
	}
	if err := writeRows(f, spendingSheet, spendRows); err != nil {
		return err
	}
	f.SetCellStyle(spendingSheet, "A1", "C1", headerStyle)
	f.SetColWidth(spendingSheet, "A", "A", 22)
	f.SetColWidth(spendingSheet, "B", "C", 14)

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func sectionHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetTextColor(67, 56, 202)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(180, 9, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetTextColor(31, 41, 55)
}

func boolToLn(last bool) int {
	if last {
		return 1
	}
	return 0
}

// hexRGB parses "#rrggbb"; anything else is grey
func hexRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 156, 163, 175
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 156, 163, 175
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
