package detector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/integrity/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClient_Health(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(models.HealthResponse{Status: "healthy", ModelLoaded: true, IndexReady: true, Version: "1.2.0"})
	})
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Status != "healthy" || !h.ModelLoaded || h.Version != "1.2.0" {
		t.Errorf("health = %+v", h)
	}
}

func TestClient_HealthUnavailable(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := c.Health(context.Background())
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("err = %v, want ErrServiceUnavailable", err)
	}

	unreachable := NewClient("http://127.0.0.1:1")
	if _, err := unreachable.Health(context.Background()); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("unreachable: err = %v", err)
	}
}

func TestClient_Upload(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		data, _ := io.ReadAll(f)
		_ = json.NewEncoder(w).Encode(models.UploadResponse{
			Success: true, Filename: hdr.Filename, Text: strings.ToUpper(string(data)), Size: int64(len(data)),
		})
	})
	up, err := c.Upload(context.Background(), "essay.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if up.Filename != "essay.txt" || up.Text != "HELLO" || up.Size != 5 {
		t.Errorf("upload = %+v", up)
	}
}

func TestClient_PasteAndCheck(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/paste":
			var req models.PasteRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(models.UploadResponse{Success: true, Filename: "pasted.txt", Text: req.Text})
		case "/api/check":
			var req models.CheckRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.ThresholdHigh != 0.85 || req.ThresholdMedium != 0.7 || req.Filename != "pasted.txt" {
				t.Errorf("check request = %+v", req)
			}
			_, _ = io.WriteString(w, `{"success": true, "result": {"overall_score": 20, "ai_score": 10, "chunks": [], "matches": []}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()
	up, err := c.Paste(ctx, "some pasted text")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Check(ctx, models.CheckRequest{Text: up.Text, Filename: up.Filename, ThresholdHigh: 0.85, ThresholdMedium: 0.7})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Result == nil || resp.Result.Originality() != 80 || resp.Result.AIScoreValue() != 10 {
		t.Errorf("check = %+v", resp)
	}
}

func TestClient_ErrorDetail(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/upload" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			_, _ = io.WriteString(w, `{"detail": "Unsupported file type"}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `not json`)
	})
	_, err := c.Upload(context.Background(), "x.exe", strings.NewReader("MZ"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnsupportedMediaType || apiErr.Detail != "Unsupported file type" {
		t.Errorf("apiErr = %+v", apiErr)
	}

	_, err = c.Check(context.Background(), models.CheckRequest{Text: "x"})
	if !errors.As(err, &apiErr) || apiErr.Detail != "Plagiarism check failed" {
		t.Errorf("fallback detail: %v", err)
	}
}

func TestClient_StatsAndRebuild(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stats":
			_, _ = io.WriteString(w, `{"success": true, "stats": {"total_documents": 12, "index_size": 340}}`)
		case "/api/rebuild-index":
			if r.Method != http.MethodPost {
				t.Errorf("rebuild method = %s", r.Method)
			}
			_, _ = io.WriteString(w, `{"success": true, "message": "rebuilt"}`)
		}
	})
	stats, err := c.Stats(context.Background())
	if err != nil || stats.Stats.TotalDocuments != 12 || stats.Stats.IndexSize != 340 {
		t.Errorf("stats = %+v, %v", stats, err)
	}
	rb, err := c.RebuildIndex(context.Background())
	if err != nil || rb.Message != "rebuilt" {
		t.Errorf("rebuild = %+v, %v", rb, err)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Check(ctx, models.CheckRequest{Text: "slow"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestWithTimeout(t *testing.T) {
	c := NewClient("http://example.invalid", WithTimeout(3*time.Second))
	if c.httpClient.Timeout != 3*time.Second {
		t.Errorf("timeout = %s", c.httpClient.Timeout)
	}
	if c.BaseURL() != "http://example.invalid" {
		t.Errorf("BaseURL() = %s", c.BaseURL())
	}
}
