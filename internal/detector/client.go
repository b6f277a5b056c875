// Package detector is the HTTP client for the remote similarity and AI-detection service.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/integrity/internal/models"
	"go.uber.org/zap"
)

// ErrServiceUnavailable is returned when the health probe fails.
var ErrServiceUnavailable = errors.New("detection service unavailable")

// APIError is a non-2xx response from the service.
type APIError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Detail, e.StatusCode)
}

// Client talks to the detection service. All calls honour ctx cancellation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets a logger for request debug output.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health probes the service. Any failure is wrapped in ErrServiceUnavailable.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, "", &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return &out, nil
}

// Upload sends a file for text extraction.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	var out models.UploadResponse
	if err := c.do(ctx, "upload", http.MethodPost, "/api/upload", &body, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Paste submits raw text for normalization.
func (c *Client) Paste(ctx context.Context, text string) (*models.UploadResponse, error) {
	var out models.UploadResponse
	if err := c.doJSON(ctx, "paste", http.MethodPost, "/api/paste", models.PasteRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Check runs similarity and AI detection on req.Text.
func (c *Client) Check(ctx context.Context, req models.CheckRequest) (*models.CheckResponse, error) {
	var out models.CheckResponse
	if err := c.doJSON(ctx, "check", http.MethodPost, "/api/check", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the service's reference-corpus statistics.
func (c *Client) Stats(ctx context.Context) (*models.StatsResponse, error) {
	var out models.StatsResponse
	if err := c.do(ctx, "stats", http.MethodGet, "/api/stats", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RebuildIndex asks the service to rebuild its reference index.
func (c *Client) RebuildIndex(ctx context.Context) (*models.RebuildIndexResponse, error) {
	var out models.RebuildIndexResponse
	if err := c.do(ctx, "rebuild-index", http.MethodPost, "/api/rebuild-index", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}
	return c.do(ctx, op, method, path, bytes.NewReader(body), "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("detector call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(op, resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func errorDetail(op string, body io.Reader) string {
	var detail models.ErrorDetail
	data, _ := io.ReadAll(io.LimitReader(body, 64<<10))
	if err := json.Unmarshal(data, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return defaultMessage(op)
}

func defaultMessage(op string) string {
	switch op {
	case "upload":
		return "File upload failed"
	case "paste":
		return "Text submission failed"
	case "check":
		return "Plagiarism check failed"
	case "stats":
		return "Failed to fetch stats"
	case "rebuild-index":
		return "Failed to rebuild index"
	default:
		return "Backend service unavailable"
	}
}
