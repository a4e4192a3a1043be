package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aashish23092/taxwise-dashboard/client"
	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/service"
	"github.com/Aashish23092/taxwise-dashboard/utils/spending"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalysisAPI struct {
	result *dto.AnalysisResult
	err    error
}

func (s *stubAnalysisAPI) Analyze(ctx context.Context, files []dto.StatementFile) (*dto.AnalysisResult, error) {
	return s.result, s.err
}

func sampleAnalysis() *dto.AnalysisResult {
	return &dto.AnalysisResult{
		DashboardData: dto.DashboardData{
			Investments80C: 45000,
			TotalIncome:    1200000,
			SpendingBreakdown: dto.SpendingBreakdown{
				{Category: "Rent", Amount: 30000},
				{Category: "Food", Amount: 12000},
			},
		},
		TaxAnalysis: dto.TaxAnalysis{
			RecommendedRegime: "new",
			NewRegime:         dto.RegimeResult{TaxableIncome: 1150000, TaxPayable: 120000},
		},
		CibilAnalysis: dto.CibilAnalysis{Score: 780},
	}
}

func newTestRouter(api service.AnalysisAPI) (*gin.Engine, *service.DashboardService) {
	return newTestRouterWithLimit(api, 32<<20)
}

func newTestRouterWithLimit(api service.AnalysisAPI, maxUpload int64) (*gin.Engine, *service.DashboardService) {
	gin.SetMode(gin.TestMode)

	consolidator := spending.NewConsolidator(spending.DefaultThreshold, spending.DefaultIncomeMarker)
	preprocessor := service.NewStatementPreprocessor(service.NewPDFProcessor(), nil)
	dashboardService := service.NewDashboardService(api, preprocessor, consolidator)
	chatService := service.NewChatService(nil, dashboardService)
	reportService := service.NewReportService("")

	router := SetupRouter(
		NewDashboardHandler(dashboardService, maxUpload),
		NewChatHandler(chatService),
		NewReportHandler(dashboardService, reportService),
	)
	return router, dashboardService
}

func uploadRequest(t *testing.T, files map[string]string) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("statements", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestDashboardBeforeUpload(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Please process your financial documents first.", decodeError(t, rec).Message)
}

func TestUploadThenDashboard(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{result: sampleAnalysis()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"april.csv": "date,amount\n01-04,100\n"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var upload dto.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	assert.Equal(t, "NEW", upload.Dashboard.RecommendedRegime)
	require.Len(t, upload.Documents, 1)
	assert.Equal(t, dto.DocKindSheet, upload.Documents[0].Kind)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view dto.DashboardView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, upload.Dashboard.AnalysisID, view.AnalysisID)
	assert.Equal(t, 780, view.CibilScore)
	assert.Equal(t, 120000.0, view.TaxLiability)
}

func TestUploadWithoutFiles(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NO_FILES", decodeError(t, rec).Error)
}

func TestUploadUnsupportedFile(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{result: sampleAnalysis()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"notes.docx": "hello"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadBackendError(t *testing.T) {
	api := &stubAnalysisAPI{err: &client.APIError{StatusCode: 400, Message: "Unsupported statement format"}}
	router, _ := newTestRouter(api)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"april.csv": "x"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Unsupported statement format", decodeError(t, rec).Message)
}

func TestUploadBackendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	router, _ := newTestRouter(client.NewAnalysisClient(url, time.Second, 0))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"april.csv": "x"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "ANALYSIS_FAILED", decodeError(t, rec).Error)
}

func TestUploadBackendNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	router, _ := newTestRouter(client.NewAnalysisClient(server.URL, time.Second, 0))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"april.csv": "x"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUploadInvalidStatement(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{result: sampleAnalysis()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"april.pdf": "not a pdf at all"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "ANALYSIS_FAILED", decodeError(t, rec).Error)
}

func TestUploadTooLarge(t *testing.T) {
	router, _ := newTestRouterWithLimit(&stubAnalysisAPI{result: sampleAnalysis()}, 1<<10)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"april.csv": strings.Repeat("01-04,100\n", 400000)}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "UPLOAD_TOO_LARGE", decodeError(t, rec).Error)
}

func TestUploadWithinLimit(t *testing.T) {
	router, _ := newTestRouterWithLimit(&stubAnalysisAPI{result: sampleAnalysis()}, 1<<10)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, map[string]string{"april.csv": "01-04,100\n"}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSimulate(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cibil/simulate?utilization=31", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.SimulationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 725, res.EstimatedScore)
	assert.Equal(t, "moderate", res.Band)

	for _, q := range []string{"", "?utilization=abc"} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cibil/simulate"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestConsolidateSpending(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{})

	body := `{"Rent": 1000, "Monthly Income": 5000, "Food": 900, "Snacks": 20}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/spending/consolidate", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	// Order of the raw body must be kept
	assert.Equal(t, `{"threshold":0.03,"total":1920,"consolidated":{"Rent":1000,"Food":900,"Other":20}}`, rec.Body.String())
}

func TestConsolidateSpendingRejectsBadBodies(t *testing.T) {
	router, _ := newTestRouter(&stubAnalysisAPI{})

	for _, body := range []string{`[1,2]`, `{"Rent": -5}`, `not json`} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/spending/consolidate", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestChat(t *testing.T) {
	router, dashboard := newTestRouter(&stubAnalysisAPI{})
	dashboard.Load(*sampleAnalysis())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message": "What is my CIBIL score?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "canned", resp.Source)
	assert.Contains(t, resp.Reply, "780")
}

func TestReports(t *testing.T) {
	router, dashboard := newTestRouter(&stubAnalysisAPI{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	dashboard.Load(*sampleAnalysis())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary.pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "TaxWise_Financial_Summary_")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
}
