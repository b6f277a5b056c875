// Package session scopes analysis history to an explicitly created and discarded session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/hyperjump/integrity/internal/history"
	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/pipeline"
	"github.com/hyperjump/integrity/internal/reportsearch"
	"go.uber.org/zap"
)

// Session owns one reviewer's history and report index. Submissions within a
// session run one at a time.
type Session struct {
	ID      string
	Created time.Time

	store    *history.Store
	index    *reportsearch.Index
	pipeline *pipeline.Pipeline
	logger   *zap.Logger

	runMu sync.Mutex
	// syncMu orders index updates after a run against ClearHistory.
	syncMu   sync.Mutex
	mu       sync.RWMutex
	progress pipeline.Progress
}

// History returns the session's history store.
func (s *Session) History() *history.Store {
	return s.store
}

// Progress returns the last reported checkpoint of the most recent run.
func (s *Session) Progress() pipeline.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

func (s *Session) setProgress(p pipeline.Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

// Submit runs sub through the pipeline and keeps the report index in step with history.
func (s *Session) Submit(ctx context.Context, sub pipeline.Submission) (*pipeline.Outcome, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	out, err := s.pipeline.Run(ctx, s.store, sub, s.setProgress)
	if err != nil {
		return out, err
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	// A ClearHistory that landed mid-run already dropped this record from history.
	if _, ok := s.store.GetByID(out.Record.ID); ok {
		if err := s.index.Add(out.Record); err != nil {
			s.logger.Warn("failed to index report", zap.String("id", out.Record.ID), zap.Error(err))
		}
	}
	for _, rec := range out.Evicted {
		if err := s.index.Delete(rec.ID); err != nil {
			s.logger.Warn("failed to unindex evicted report", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	return out, nil
}

// ClearHistory empties the history and the report index. The current record stays viewable.
// It does not wait for an in-flight Submit.
func (s *Session) ClearHistory() error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	s.store.Clear()
	return s.index.Clear()
}

// Search returns archived records whose filename or text matches query, best first.
func (s *Session) Search(ctx context.Context, query string, limit int) ([]*models.AnalysisRecord, error) {
	hits, err := s.index.Search(ctx, query, limit, &reportsearch.Options{TitleBoost: 2})
	if err != nil {
		return nil, err
	}
	out := make([]*models.AnalysisRecord, 0, len(hits))
	for _, h := range hits {
		if rec, ok := s.store.GetByID(h.ID); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Session) close() error {
	return s.index.Close()
}
