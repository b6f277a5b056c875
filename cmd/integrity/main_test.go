package main

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/integrity/internal/pipeline"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"empty", nil, nil},
		{"flags first", []string{"--output", "json", "essay.pdf"}, []string{"--output", "json", "essay.pdf"}},
		{"flags after file", []string{"essay.pdf", "--output", "json"}, []string{"--output", "json", "essay.pdf"}},
		{"no flags", []string{"machine", "learning"}, []string{"machine", "learning"}},
		{"query then flags", []string{"machine", "learning", "-limit", "5"}, []string{"-limit", "5", "machine", "learning"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("argsReorder(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"photosynthesis"}, "photosynthesis"},
		{[]string{"climate", "essay"}, "climate essay"},
		{[]string{"  padded  "}, "padded"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := buildSearchQuery(tt.args); got != tt.want {
			t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestSubmissionFromArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "essay.txt")
	if err := os.WriteFile(path, []byte("An essay about rivers."), 0600); err != nil {
		t.Fatal(err)
	}

	sub, err := submissionFromArgs("", []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if !sub.IsFile() || sub.Filename != "essay.txt" || string(sub.Content) != "An essay about rivers." {
		t.Errorf("file submission = %+v", sub)
	}

	sub, err = submissionFromArgs("pasted words here", []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if sub.IsFile() || sub.Text != "pasted words here" {
		t.Errorf("text should win over file: %+v", sub)
	}

	if _, err := submissionFromArgs("   ", nil); !errors.Is(err, pipeline.ErrEmptySubmission) {
		t.Errorf("err = %v, want ErrEmptySubmission", err)
	}
	if _, err := submissionFromArgs("", []string{path, path}); err == nil {
		t.Error("expected error for two files")
	}
	if _, err := submissionFromArgs("", []string{filepath.Join(dir, "missing.txt")}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCallJSON_errorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"session not found"}`))
	}))
	defer srv.Close()

	err := callJSON(http.MethodGet, srv.URL+"/api/v1/sessions/x/reports", nil, "", nil)
	if err == nil || !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "session not found") {
		t.Errorf("err = %v", err)
	}
}

func TestSubmitViaHTTP(t *testing.T) {
	var gotFile, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sessions/s1/submissions" {
			http.NotFound(w, r)
			return
		}
		mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "multipart/form-data" {
			mr := multipart.NewReader(r.Body, params["boundary"])
			part, err := mr.NextPart()
			if err != nil {
				t.Errorf("next part: %v", err)
				return
			}
			b, _ := io.ReadAll(part)
			gotFile = part.FileName() + ":" + string(b)
		} else {
			var body struct {
				Text string `json:"text"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotText = body.Text
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"record":{"id":"analysis_1"},"report":{"id":"analysis_1","filename":"essay.txt","originality":80}}`))
	}))
	defer srv.Close()

	doc, err := submitViaHTTP(srv.URL, "s1", pipeline.Submission{Filename: "essay.txt", Content: []byte("hello")})
	if err != nil {
		t.Fatal(err)
	}
	if gotFile != "essay.txt:hello" {
		t.Errorf("uploaded = %q", gotFile)
	}
	if doc.ID != "analysis_1" || doc.Originality != 80 {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := submitViaHTTP(srv.URL, "s1", pipeline.Submission{Text: "some pasted text"}); err != nil {
		t.Fatal(err)
	}
	if gotText != "some pasted text" {
		t.Errorf("pasted = %q", gotText)
	}
}

func TestCreateSessionViaHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/sessions" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"session_id":"abc"}`))
	}))
	defer srv.Close()

	sid, err := createSessionViaHTTP(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	if sid != "abc" {
		t.Errorf("session id = %q", sid)
	}
}

func TestSessionURL(t *testing.T) {
	if got := sessionURL("http://localhost:8080/", "a b"); got != "http://localhost:8080/api/v1/sessions/a%20b" {
		t.Errorf("sessionURL = %q", got)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
detector:
  base_url: "http://detector:8000"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
	if cfg.Detector.BaseURL != "http://detector:8000" {
		t.Errorf("detector base url = %q", cfg.Detector.BaseURL)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_explicitMissingFails(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
