package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	maxUpload        int64
}

// NewDashboardHandler caps an upload request body at maxUpload bytes
func NewDashboardHandler(dashboardService *service.DashboardService, maxUpload int64) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		maxUpload:        maxUpload,
	}
}

// UploadStatements handles POST /statements/upload
func (h *DashboardHandler) UploadStatements(c *gin.Context) {
	log.Println("Received statement upload request")

	if c.Request.ContentLength > h.maxUpload {
		h.sendTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.sendTooLarge(c)
			return
		}
		sendError(c, http.StatusBadRequest, "INVALID_FORM", "Failed to parse multipart form", err)
		return
	}

	headers := form.File["statements"]
	if len(headers) == 0 {
		sendError(c, http.StatusBadRequest, "NO_FILES", "Please select at least one file to upload.", nil)
		return
	}

	request := &dto.StatementUploadRequest{Password: c.PostForm("password")}
	for _, fh := range headers {
		if fh.Size > h.maxUpload {
			h.sendTooLarge(c)
			return
		}
		file, err := fh.Open()
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_FILE", "Failed to open uploaded file", err)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_FILE", "Failed to read uploaded file", err)
			return
		}

		request.Files = append(request.Files, dto.StatementFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	if err := request.Validate(); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), err)
		return
	}

	log.Printf("Processing %d statements", len(request.Files))

	response, err := h.dashboardService.Analyze(c.Request.Context(), request)
	if err != nil {
		log.Printf("Error: statement analysis failed - %v", err)
		sendError(c, statusFor(err), "ANALYSIS_FAILED", backendMessage(err), nil)
		return
	}

	log.Println("Statement analysis completed successfully")
	c.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) sendTooLarge(c *gin.Context) {
	limit := fmt.Sprintf("%d MB", h.maxUpload>>20)
	if h.maxUpload < 1<<20 {
		limit = fmt.Sprintf("%d bytes", h.maxUpload)
	}
	sendError(c, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Upload exceeds the "+limit+" limit", nil)
}

// GetDashboard handles GET /dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	view, err := h.dashboardService.Current()
	if err != nil {
		sendError(c, statusFor(err), "NO_ANALYSIS", "Please process your financial documents first.", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SimulateScore handles GET /cibil/simulate?utilization=<pct>
func (h *DashboardHandler) SimulateScore(c *gin.Context) {
	raw := c.Query("utilization")
	if raw == "" {
		sendError(c, http.StatusBadRequest, "VALIDATION_FAILED", "utilization query parameter is required", nil)
		return
	}

	utilization, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_FAILED", fmt.Sprintf("invalid utilization %q", raw), nil)
		return
	}

	c.JSON(http.StatusOK, h.dashboardService.Simulate(utilization))
}

// ConsolidateSpending handles POST /spending/consolidate with a JSON object
// of category to amount. Key order is kept.
func (h *DashboardHandler) ConsolidateSpending(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_BODY", "Failed to read request body", err)
		return
	}

	var breakdown dto.SpendingBreakdown
	if err := json.Unmarshal(body, &breakdown); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_BODY", "Body must be a JSON object of category to amount", err)
		return
	}

	for _, item := range breakdown {
		if item.Amount < 0 {
			sendError(c, http.StatusBadRequest, "VALIDATION_FAILED", fmt.Sprintf("amount for %q cannot be negative", item.Category), nil)
			return
		}
	}

	c.JSON(http.StatusOK, h.dashboardService.Consolidate(breakdown))
}
