package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Aashish23092/taxwise-dashboard/dto"
)

const defaultAPIErrorMessage = "Failed to process file"

var (
	// ErrBackendUnavailable means the analysis API could not be reached or read
	ErrBackendUnavailable = errors.New("analysis API unavailable")
	// ErrBadResponse means the analysis API answered 2xx with an unusable body
	ErrBadResponse = errors.New("invalid analysis API response")
)

// APIError is a non-2xx answer from the analysis backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analysis API returned status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the request may succeed if sent again
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// AnalysisClient uploads statements to the remote financial-analysis API
type AnalysisClient struct {
	url        string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

func NewAnalysisClient(url string, timeout time.Duration, maxRetries int) *AnalysisClient {
	return &AnalysisClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    2 * time.Second,
	}
}

// SetBackoff changes the base delay between attempts. Attempt n waits n*d.
func (ac *AnalysisClient) SetBackoff(d time.Duration) {
	ac.backoff = d
}

// Analyze sends every file as a "statements" part and decodes the analysis.
func (ac *AnalysisClient) Analyze(ctx context.Context, files []dto.StatementFile) (*dto.AnalysisResult, error) {
	if len(files) == 0 {
		return nil, dto.ErrNoStatements
	}

	body, contentType, err := encodeStatements(files)
	if err != nil {
		return nil, fmt.Errorf("failed to encode statements: %w", err)
	}

	attempts := ac.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := ac.post(ctx, body, contentType)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts || !isTransient(err) {
			break
		}

		wait := time.Duration(attempt) * ac.backoff
		log.Printf("Analysis API attempt %d failed: %v. Retrying in %s", attempt, err, wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (ac *AnalysisClient) post(ctx context.Context, body []byte, contentType string) (*dto.AnalysisResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ac.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := ac.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	var result dto.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return &result, nil
}

func encodeStatements(files []dto.StatementFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile("statements", f.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// errorMessage pulls the "error" field out of a failure body
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return payload.Error
	}
	return defaultAPIErrorMessage
}

func isTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
