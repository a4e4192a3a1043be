package dto

import "errors"

// Custom errors
var (
	ErrNoAnalysis       = errors.New("please process your financial documents first")
	ErrNoStatements     = errors.New("at least one statement file is required")
	ErrUnsupportedFile  = errors.New("unsupported statement file type")
	ErrInvalidStatement = errors.New("statement could not be processed")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// UploadResponse is returned after a successful statement upload
type UploadResponse struct {
	Message   string           `json:"message"`
	Documents []DocumentReport `json:"documents"`
	Dashboard DashboardView    `json:"dashboard"`
}

// ConsolidateResponse carries the chart-ready buckets for an ad-hoc breakdown
type ConsolidateResponse struct {
	Threshold    float64           `json:"threshold"`
	Total        float64           `json:"total"`
	Consolidated SpendingBreakdown `json:"consolidated"`
}

type ChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"` // "ai" or "canned"
	Rule   string `json:"rule,omitempty"`
}
