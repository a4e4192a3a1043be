package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysis = `{
  "dashboard_data": {
    "investments_80c": 45000,
    "total_income": 1200000,
    "transactions": [{"date": "01-04-2024", "description": "Salary", "credit": 100000, "debit": 0}],
    "spending_breakdown": {"Rent": 30000, "Food": 12000}
  },
  "tax_analysis": {
    "recommended_regime": "old",
    "old_regime": {"taxable_income": 1000000, "tax_payable": 112500},
    "new_regime": {"taxable_income": 1150000, "tax_payable": 120000},
    "recommendations": ["Invest in ELSS"]
  },
  "cibil_analysis": {
    "score": 742,
    "factors": {"credit_utilization": 0.35, "credit_mix": "Good"},
    "recommendations": []
  }
}`

func statements() []dto.StatementFile {
	return []dto.StatementFile{
		{Filename: "april.pdf", Data: []byte("%PDF-1.4 april")},
		{Filename: "may.csv", Data: []byte("date,amount\n")},
	}
}

func TestAnalyzeUploadsStatements(t *testing.T) {
	var names []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		for _, fh := range r.MultipartForm.File["statements"] {
			names = append(names, fh.Filename)
			f, err := fh.Open()
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			f.Close()
			assert.NotEmpty(t, data)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleAnalysis))
	}))
	defer server.Close()

	ac := NewAnalysisClient(server.URL, 5*time.Second, 0)
	result, err := ac.Analyze(context.Background(), statements())
	require.NoError(t, err)

	assert.Equal(t, []string{"april.pdf", "may.csv"}, names)
	assert.Equal(t, 45000.0, result.DashboardData.Investments80C)
	assert.Equal(t, []string{"Rent", "Food"}, result.DashboardData.SpendingBreakdown.Labels())
	assert.Equal(t, "OLD", result.TaxAnalysis.RecommendedLabel())
	assert.Equal(t, 0.35, result.CibilAnalysis.Factors.CreditUtilization)
}

func TestAnalyzeSurfacesBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Unsupported statement format"}`))
	}))
	defer server.Close()

	_, err := NewAnalysisClient(server.URL, time.Second, 3).Analyze(context.Background(), statements())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Unsupported statement format", apiErr.Message)
}

func TestAnalyzeDefaultErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewAnalysisClient(server.URL, time.Second, 0).Analyze(context.Background(), statements())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to process file", apiErr.Message)
}

func TestAnalyzeRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleAnalysis))
	}))
	defer server.Close()

	ac := NewAnalysisClient(server.URL, time.Second, 3)
	ac.SetBackoff(time.Millisecond)

	result, err := ac.Analyze(context.Background(), statements())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 742.0, result.CibilAnalysis.Score)
}

func TestAnalyzeGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ac := NewAnalysisClient(server.URL, time.Second, 2)
	ac.SetBackoff(time.Millisecond)

	_, err := ac.Analyze(context.Background(), statements())
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestAnalyzeDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	ac := NewAnalysisClient(server.URL, time.Second, 3)
	ac.SetBackoff(time.Millisecond)

	_, err := ac.Analyze(context.Background(), statements())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAnalyzeRequiresFiles(t *testing.T) {
	_, err := NewAnalysisClient("http://unused", time.Second, 0).Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, dto.ErrNoStatements)
}

func TestAnalyzeUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewAnalysisClient(url, time.Second, 0).Analyze(context.Background(), statements())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestAnalyzeRejectsNonJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := NewAnalysisClient(server.URL, time.Second, 0).Analyze(context.Background(), statements())
	assert.ErrorIs(t, err, ErrBadResponse)
}
