package handler

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"github.com/Aashish23092/taxwise-dashboard/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	dashboardService *service.DashboardService
	reportService    *service.ReportService
}

func NewReportHandler(dashboardService *service.DashboardService, reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		dashboardService: dashboardService,
		reportService:    reportService,
	}
}

// SummaryPDF handles GET /reports/summary.pdf
func (h *ReportHandler) SummaryPDF(c *gin.Context) {
	h.render(c, service.FormatPDF, "application/pdf")
}

// SummaryExcel handles GET /reports/summary.xlsx
func (h *ReportHandler) SummaryExcel(c *gin.Context) {
	h.render(c, service.FormatXLSX, xlsxContentType)
}

func (h *ReportHandler) render(c *gin.Context, format, contentType string) {
	state, err := h.dashboardService.State()
	if err != nil {
		sendError(c, statusFor(err), "NO_ANALYSIS", "Please process your financial documents first.", nil)
		return
	}

	var buf bytes.Buffer
	switch format {
	case service.FormatXLSX:
		err = h.reportService.RenderExcel(state, &buf)
	default:
		err = h.reportService.RenderPDF(state, &buf)
	}
	if err != nil {
		sendError(c, http.StatusInternalServerError, "REPORT_FAILED", "Failed to generate report", err)
		return
	}

	name := h.reportService.FileName(format)
	log.Printf("Serving report %s (%d bytes)", name, buf.Len())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
