// Package pipeline runs a submission through text extraction and the remote detection check.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hyperjump/integrity/internal/extract"
	"github.com/hyperjump/integrity/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrEmptySubmission is returned when neither a file nor enough text was provided.
	ErrEmptySubmission = errors.New("please provide a file or text to analyze")
	// ErrExtraction wraps failures to obtain the submission's text.
	ErrExtraction = errors.New("text extraction failed")
	// ErrCheck wraps failures of the detection check.
	ErrCheck = errors.New("detection check failed")
)

const (
	// MinTextLength is the minimum trimmed length of pasted text.
	MinTextLength = 10
	// PastedFilename names records created from pasted text.
	PastedFilename = "pasted_text.txt"
)

// Detector is the subset of the detection service the pipeline calls.
type Detector interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResponse, error)
	Paste(ctx context.Context, text string) (*models.UploadResponse, error)
	Check(ctx context.Context, req models.CheckRequest) (*models.CheckResponse, error)
}

// TextExtractor extracts text from file bytes without calling the service.
type TextExtractor interface {
	ExtractBytes(filename string, content []byte) (*extract.Document, error)
}

// Archive receives completed records.
type Archive interface {
	SetCurrent(rec *models.AnalysisRecord)
	Add(rec *models.AnalysisRecord) []*models.AnalysisRecord
}

// Submission is either an uploaded file (Content set) or pasted Text.
type Submission struct {
	Filename string
	Content  []byte
	Text     string
}

// IsFile reports whether the submission carries file content.
func (s Submission) IsFile() bool {
	return s.Content != nil
}

// Validate checks the submission has a non-empty file or enough text.
func (s Submission) Validate() error {
	if s.IsFile() {
		if len(s.Content) == 0 {
			return fmt.Errorf("%w: empty file", ErrEmptySubmission)
		}
		return nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(s.Text)) < MinTextLength {
		return ErrEmptySubmission
	}
	return nil
}

// Thresholds are sent with every check and interpreted by the service.
type Thresholds struct {
	High   float64
	Medium float64
}

// Outcome is the result of a run. Record is set even on failure.
type Outcome struct {
	Record  *models.AnalysisRecord
	Evicted []*models.AnalysisRecord
	State   State
}

// Pipeline runs submissions. It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	detector   Detector
	local      TextExtractor
	thresholds Thresholds
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithLocalExtractor extracts uploaded files locally instead of via the service upload endpoint.
func WithLocalExtractor(e TextExtractor) Option {
	return func(p *Pipeline) { p.local = e }
}

// WithThresholds sets the thresholds sent with checks.
func WithThresholds(t Thresholds) Option {
	return func(p *Pipeline) { p.thresholds = t }
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline that calls det.
func New(det Detector, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector:   det,
		thresholds: Thresholds{High: 0.85, Medium: 0.7},
		logger:     zap.NewNop(),
		now:        time.Now,
		newID:      func() string { return "analysis_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type run struct {
	state    State
	percent  int
	progress ProgressFunc
}

// fire applies e and reports percent, which only moves forward until the reset to idle.
func (r *run) fire(e Event, percent int) error {
	next, err := Transition(r.state, e)
	if err != nil {
		return err
	}
	r.state = next
	if next == StateIdle {
		r.percent = 0
	}
	r.report(percent)
	return nil
}

func (r *run) report(percent int) {
	if percent > r.percent {
		r.percent = percent
	}
	if r.progress != nil {
		r.progress(Progress{State: r.state, Percent: r.percent})
	}
}

// Run executes sub. On success the completed record is made current and archived.
// On failure the record carries the error message, nothing reaches archive, and the
// run ends in the idle state. ctx cancels any in-flight service call.
func (p *Pipeline) Run(ctx context.Context, archive Archive, sub Submission, progress ProgressFunc) (*Outcome, error) {
	rec := &models.AnalysisRecord{
		ID:        p.newID(),
		Filename:  sub.Filename,
		Timestamp: p.now(),
		Status:    models.StatusPending,
	}
	if !sub.IsFile() {
		rec.Filename = PastedFilename
	}
	r := &run{state: StateIdle, progress: progress}
	if err := r.fire(EventSubmit, ProgressStart); err != nil {
		return nil, err
	}

	fail := func(cause error) (*Outcome, error) {
		rec.Fail(cause.Error())
		if err := r.fire(EventFail, r.percent); err != nil {
			return nil, err
		}
		if err := r.fire(EventReset, 0); err != nil {
			return nil, err
		}
		p.logger.Warn("submission failed",
			zap.String("id", rec.ID),
			zap.String("filename", rec.Filename),
			zap.Error(cause),
		)
		return &Outcome{Record: rec, State: r.state}, cause
	}

	if err := sub.Validate(); err != nil {
		return fail(err)
	}
	filename, text, err := p.obtainText(ctx, sub)
	if err != nil {
		return fail(err)
	}
	rec.Filename = filename
	rec.Text = text
	if err := r.fire(EventTextReady, ProgressTextReady); err != nil {
		return nil, err
	}

	rec.Status = models.StatusAnalyzing
	r.report(ProgressCheckSubmitted)
	resp, err := p.detector.Check(ctx, models.CheckRequest{
		Text:            text,
		Filename:        filename,
		ThresholdHigh:   p.thresholds.High,
		ThresholdMedium: p.thresholds.Medium,
	})
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrCheck, err))
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Plagiarism check failed"
		}
		return fail(fmt.Errorf("%w: %s", ErrCheck, msg))
	}
	if resp.Result == nil {
		return fail(fmt.Errorf("%w: service returned no result", ErrCheck))
	}

	rec.Complete(resp.Result)
	if err := r.fire(EventChecked, ProgressCheckComplete); err != nil {
		return nil, err
	}

	archive.SetCurrent(rec)
	evicted := archive.Add(rec)
	r.report(ProgressDone)

	p.logger.Info("submission completed",
		zap.String("id", rec.ID),
		zap.String("filename", rec.Filename),
		zap.Float64("originality", resp.Result.Originality()),
		zap.Int("matches", len(rec.Matches)),
	)
	return &Outcome{Record: rec, Evicted: evicted, State: r.state}, nil
}

func (p *Pipeline) obtainText(ctx context.Context, sub Submission) (string, string, error) {
	if !sub.IsFile() {
		resp, err := p.detector.Paste(ctx, sub.Text)
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		if !resp.Success {
			return "", "", fmt.Errorf("%w: Failed to submit text", ErrExtraction)
		}
		return PastedFilename, resp.Text, nil
	}

	if p.local != nil {
		doc, err := p.local.ExtractBytes(sub.Filename, sub.Content)
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		return doc.Filename, doc.Text, nil
	}
	resp, err := p.detector.Upload(ctx, sub.Filename, bytes.NewReader(sub.Content))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	if !resp.Success {
		return "", "", fmt.Errorf("%w: Failed to upload file", ErrExtraction)
	}
	filename := resp.Filename
	if filename == "" {
		filename = sub.Filename
	}
	return filename, resp.Text, nil
}
