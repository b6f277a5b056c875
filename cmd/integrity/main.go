// Package main is the integrity CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/integrity/internal/analytics"
	"github.com/hyperjump/integrity/internal/cli"
	"github.com/hyperjump/integrity/internal/config"
	"github.com/hyperjump/integrity/internal/detector"
	"github.com/hyperjump/integrity/internal/extract"
	"github.com/hyperjump/integrity/internal/intake"
	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/monitor"
	"github.com/hyperjump/integrity/internal/pipeline"
	"github.com/hyperjump/integrity/internal/report"
	"github.com/hyperjump/integrity/internal/server"
	"github.com/hyperjump/integrity/internal/session"
	"github.com/hyperjump/integrity/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/integrity/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if it exists, so running from a project dir picks up its config.
// A missing default file yields the built-in defaults. Returns the config and the path
// it belongs to (for saving intake changes).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "check":
		runCheck()
	case "reports":
		runReports()
	case "analytics":
		runAnalytics()
	case "search":
		runSearch()
	case "health", "stats", "rebuild-index":
		runService(command)
	case "intake":
		runIntake()
	case "version", "--version", "-v":
		fmt.Printf("integrity version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// newDetector builds the detection service client configured by cfg.
func newDetector(cfg *config.Config, logger *zap.Logger) *detector.Client {
	return detector.NewClient(cfg.Detector.BaseURL,
		detector.WithTimeout(cfg.Detector.Timeout),
		detector.WithLogger(logger),
	)
}

// newPipeline wires the submission pipeline to det using cfg's extraction mode and thresholds.
func newPipeline(cfg *config.Config, det pipeline.Detector, logger *zap.Logger) *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithThresholds(pipeline.Thresholds{
			High:   cfg.Detector.ThresholdHigh,
			Medium: cfg.Detector.ThresholdMedium,
		}),
	}
	if cfg.Extraction.Mode == config.ExtractionLocal {
		opts = append(opts, pipeline.WithLocalExtractor(extract.NewExtractor(extract.DefaultMaxBytes)))
	}
	return pipeline.New(det, opts...)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (pipeline transitions, intake events, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("detector", cfg.Detector.BaseURL),
		zap.String("extraction", cfg.Extraction.Mode),
		zap.Bool("debug", debugMode),
	)

	det := newDetector(cfg, logger)
	sessions := session.NewManager(newPipeline(cfg, det, logger), cfg.History.Capacity, logger)
	defer sessions.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []server.Option{server.WithConfigPath(resolvedConfigPath)}
	intakeSession, err := sessions.Create()
	if err != nil {
		logger.Fatal("Failed to create intake session", zap.Error(err))
	}
	intakeSvc := intake.NewService(cfg.Intake, intakeSession, extract.DefaultMaxBytes, logger)
	if err := intakeSvc.Start(ctx); err != nil {
		logger.Fatal("Failed to start intake", zap.Error(err))
	}
	defer intakeSvc.Stop()
	opts = append(opts, server.WithIntake(intakeSvc, intakeSession.ID))
	logger.Info("intake session ready", zap.String("session", intakeSession.ID))

	if cfg.Detector.HealthSchedule != config.HealthScheduleOff {
		sched, err := monitor.ParseSchedule(cfg.Detector.HealthSchedule)
		if err != nil {
			logger.Fatal("Invalid health schedule", zap.Error(err))
		}
		mon := monitor.New(det, sched, monitor.WithLogger(logger))
		go mon.Run(ctx)
		opts = append(opts, server.WithMonitor(mon))
	}

	srv := server.NewServer(sessions, det, cfg, logger, opts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front so that flag.Parse() sees them. Go's flag package stops at
// the first non-flag argument, so "integrity check essay.pdf --output json" would
// otherwise leave --output unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// parseOutput resolves --output or exits with a usage message.
func parseOutput(s string) cli.OutputFormat {
	format, err := cli.ParseFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

// submissionFromArgs builds a submission from --text or a single file argument.
func submissionFromArgs(text string, args []string) (pipeline.Submission, error) {
	if strings.TrimSpace(text) != "" {
		return pipeline.Submission{Text: text}, nil
	}
	if len(args) == 0 {
		return pipeline.Submission{}, pipeline.ErrEmptySubmission
	}
	if len(args) > 1 {
		return pipeline.Submission{}, fmt.Errorf("expected one file, got %d", len(args))
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return pipeline.Submission{}, fmt.Errorf("read %s: %w", args[0], err)
	}
	return pipeline.Submission{Filename: filepath.Base(args[0]), Content: content}, nil
}

func runCheck() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode and report settings)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = call the detection service directly)")
	sessionID := fs.String("session", "", "server session to record the analysis in (default: a new session)")
	text := fs.String("text", "", "text to analyze instead of a file")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format := parseOutput(*outputFormat)
	sub, err := submissionFromArgs(*text, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage: integrity check [flags] <file> | --text \"...\": %v\n", err)
		os.Exit(1)
	}

	var doc *report.Document
	if *serverURL != "" {
		sid := *sessionID
		if sid == "" {
			sid, err = createSessionViaHTTP(*serverURL)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Create session failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Session: %s\n", sid)
		}
		doc, err = submitViaHTTP(*serverURL, sid, sub)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		doc, err = checkDirect(*configPath, sub)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteDocument(os.Stdout, doc, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// checkDirect runs sub through a throwaway session against the detection service.
func checkDirect(configPath string, sub pipeline.Submission) (*report.Document, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(newPipeline(cfg, newDetector(cfg, logger), logger), cfg.History.Capacity, logger)
	defer sessions.Close()
	sess, err := sessions.Create()
	if err != nil {
		return nil, err
	}
	out, err := sess.Submit(ctx, sub)
	if err != nil {
		return nil, err
	}
	return report.BuildDocument(out.Record, server.ReportOptions(cfg))
}

func runReports() {
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	sessionID := fs.String("session", "", "session id (required)")
	source := fs.Int("source", 0, "with a report id, show the side-by-side view of this source")
	clearHistory := fs.Bool("clear", false, "clear the session history")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format := parseOutput(*outputFormat)
	if *sessionID == "" {
		fmt.Println("Usage: integrity reports --session <id> [--clear] [report-id [--source N]]")
		os.Exit(1)
	}
	base := sessionURL(*serverURL, *sessionID)

	switch {
	case *clearHistory:
		if err := callJSON(http.MethodDelete, base+"/reports", nil, "", nil); err != nil {
			fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared")
	case fs.NArg() == 0:
		var out struct {
			Reports []*models.AnalysisRecord `json:"reports"`
		}
		if err := callJSON(http.MethodGet, base+"/reports", nil, "", &out); err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteHistory(os.Stdout, out.Reports, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case *source > 0:
		var detail report.SourceDetail
		path := base + "/reports/" + url.PathEscape(fs.Arg(0)) + "/sources/" + strconv.Itoa(*source)
		if err := callJSON(http.MethodGet, path, nil, "", &detail); err != nil {
			fmt.Fprintf(os.Stderr, "Source failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSourceDetail(os.Stdout, &detail, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	default:
		var doc report.Document
		if err := callJSON(http.MethodGet, base+"/reports/"+url.PathEscape(fs.Arg(0)), nil, "", &doc); err != nil {
			fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteDocument(os.Stdout, &doc, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	}
}

func runAnalytics() {
	fs := flag.NewFlagSet("analytics", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	sessionID := fs.String("session", "", "session id (required)")
	dashboard := fs.Bool("dashboard", false, "show the dashboard view (totals and recent analyses)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := parseOutput(*outputFormat)
	if *sessionID == "" {
		fmt.Println("Usage: integrity analytics --session <id> [--dashboard]")
		os.Exit(1)
	}
	base := sessionURL(*serverURL, *sessionID)
	if *dashboard {
		var d analytics.Dashboard
		if err := callJSON(http.MethodGet, base+"/dashboard", nil, "", &d); err != nil {
			fmt.Fprintf(os.Stderr, "Dashboard failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteDashboard(os.Stdout, &d, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	var s analytics.Summary
	if err := callJSON(http.MethodGet, base+"/analytics", nil, "", &s); err != nil {
		fmt.Fprintf(os.Stderr, "Analytics failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnalytics(os.Stdout, &s, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// buildSearchQuery joins positional args so multi-word queries work without quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	sessionID := fs.String("session", "", "session id (required)")
	limit := fs.Int("limit", 0, "maximum number of reports (default: server default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format := parseOutput(*outputFormat)
	query := buildSearchQuery(fs.Args())
	if *sessionID == "" || query == "" {
		fmt.Println("Usage: integrity search --session <id> [--limit N] <query>")
		os.Exit(1)
	}
	params := url.Values{"q": {query}}
	if *limit > 0 {
		params.Set("limit", strconv.Itoa(*limit))
	}
	var out struct {
		Reports []*models.AnalysisRecord `json:"reports"`
	}
	if err := callJSON(http.MethodGet, sessionURL(*serverURL, *sessionID)+"/search?"+params.Encode(), nil, "", &out); err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteHistory(os.Stdout, out.Reports, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// runService talks to the detection service directly for health, stats and rebuild-index.
func runService(command string) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	baseURL := fs.String("detector", "", "detection service URL (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := parseOutput(*outputFormat)
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Detector.BaseURL = *baseURL
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := newDetector(cfg, logger)
	ctx := context.Background()
	switch command {
	case "health":
		h, err := client.Health(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		exitOnOutputError(cli.WriteHealth(os.Stdout, h, format))
	case "stats":
		s, err := client.Stats(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stats failed: %v\n", err)
			os.Exit(1)
		}
		exitOnOutputError(cli.WriteStats(os.Stdout, s, format))
	case "rebuild-index":
		resp, err := client.RebuildIndex(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
		if format == cli.OutputJSON {
			exitOnOutputError(json.NewEncoder(os.Stdout).Encode(resp))
			return
		}
		fmt.Println(resp.Message)
	}
}

func exitOnOutputError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runIntake() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: integrity intake <add|remove|list> [path]")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("intake", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[3:])

	endpoint := strings.TrimRight(*serverURL, "/") + "/api/v1/intake"
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: integrity intake add <path>")
			os.Exit(1)
		}
		path, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			fmt.Printf("Invalid path: %v\n", err)
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]string{"path": path})
		if err := callJSON(http.MethodPost, endpoint+"/directories", bytes.NewReader(body), "application/json", nil); err != nil {
			fmt.Printf("Add failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: integrity intake remove <path>")
			os.Exit(1)
		}
		path, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			fmt.Printf("Invalid path: %v\n", err)
			os.Exit(1)
		}
		if err := callJSON(http.MethodDelete, endpoint+"/directories?path="+url.QueryEscape(path), nil, "", nil); err != nil {
			fmt.Printf("Remove failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		var out struct {
			Directories []string `json:"directories"`
			SessionID   string   `json:"session_id"`
		}
		if err := callJSON(http.MethodGet, endpoint, nil, "", &out); err != nil {
			fmt.Printf("List failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Session: %s\n", out.SessionID)
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown intake subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func sessionURL(serverURL, sessionID string) string {
	return strings.TrimRight(serverURL, "/") + "/api/v1/sessions/" + url.PathEscape(sessionID)
}

// callJSON sends a request to the integrity server and decodes a JSON reply into out.
// Non-2xx replies become errors carrying the server's "error" message.
func callJSON(method, target string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func createSessionViaHTTP(serverURL string) (string, error) {
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := callJSON(http.MethodPost, strings.TrimRight(serverURL, "/")+"/api/v1/sessions", nil, "", &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// submitViaHTTP posts sub to the session and returns the rendered report.
func submitViaHTTP(serverURL, sessionID string, sub pipeline.Submission) (*report.Document, error) {
	var (
		body        io.Reader
		contentType string
	)
	if sub.IsFile() {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", sub.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(sub.Content); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
		body, contentType = &buf, mw.FormDataContentType()
	} else {
		b, err := json.Marshal(models.PasteRequest{Text: sub.Text})
		if err != nil {
			return nil, err
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}
	var out struct {
		Report *report.Document `json:"report"`
	}
	if err := callJSON(http.MethodPost, sessionURL(serverURL, sessionID)+"/submissions", body, contentType, &out); err != nil {
		return nil, err
	}
	if out.Report == nil {
		return nil, errors.New("server returned no report")
	}
	return out.Report, nil
}

func printUsage() {
	fmt.Println(`integrity - Academic integrity review dashboard

Usage:
  integrity server [flags]                    Start the HTTP server
  integrity check [flags] <file>              Analyze a file
  integrity check [flags] --text "..."        Analyze pasted text
  integrity reports [flags] [report-id]       List or show analyses in a session
  integrity analytics [flags]                 Show session analytics
  integrity search [flags] <query>            Search a session's analyses
  integrity health [flags]                    Check the detection service
  integrity stats [flags]                     Show detection service corpus stats
  integrity rebuild-index [flags]             Rebuild the detection service index
  integrity intake <add|remove|list> [path]   Manage intake directories
  integrity version                           Show version
  integrity help                              Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/integrity/config.yaml)
  --debug            Enable debug logging

Check Flags:
  --config string    Config file path (direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to call the detection service directly.
  --session string   Record the analysis in this server session (default: a new session)
  --text string      Analyze this text instead of a file
  --output string    Output format: text or json (default: text)

Reports / Analytics / Search Flags:
  --server string    Server URL (default: http://localhost:8080)
  --session string   Session id (required)
  --source int       (reports) Show the side-by-side view of this source
  --clear            (reports) Clear the session history
  --dashboard        (analytics) Show the dashboard view (totals and recent analyses)
  --limit int        (search) Maximum number of reports
  --output string    Output format: text or json (default: text)

Service Flags:
  --config string    Config file path
  --detector string  Detection service URL (default from config)
  --output string    Output format: text or json (default: text)

Intake Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  integrity server
  integrity check essay.pdf
  integrity check --text "The mitochondria is the powerhouse of the cell."
  integrity check --server "" --output json essay.docx
  integrity reports --session 3f2c... analysis_9b1e...
  integrity reports --session 3f2c... --source 2 analysis_9b1e...
  integrity analytics --session 3f2c... --dashboard
  integrity intake add ~/submissions`)
}
