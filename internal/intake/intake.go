// Package intake submits documents dropped into watched folders.
package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hyperjump/integrity/internal/config"
	"github.com/hyperjump/integrity/internal/pipeline"
	"go.uber.org/zap"
)

// Submitter runs a submission, normally a *session.Session.
type Submitter interface {
	Submit(ctx context.Context, sub pipeline.Submission) (*pipeline.Outcome, error)
}

type stamp struct {
	size    int64
	modTime time.Time
}

// Service feeds settled files from the intake directories into a Submitter.
// A file is submitted again only when its size or modification time changes.
type Service struct {
	watcher   *Watcher
	submitter Submitter
	maxBytes  int64
	logger    *zap.Logger

	mu   sync.Mutex
	ctx  context.Context
	seen map[string]stamp
}

// NewService creates an intake service for cfg. maxBytes <= 0 disables the size check.
func NewService(cfg config.IntakeConfig, sub Submitter, maxBytes int64, logger *zap.Logger, opts ...WatcherOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		submitter: sub,
		maxBytes:  maxBytes,
		logger:    logger,
		ctx:       context.Background(),
		seen:      make(map[string]stamp),
	}
	opts = append([]WatcherOption{WithLogger(logger)}, opts...)
	s.watcher = NewWatcher(cfg.Directories, cfg.Extensions, cfg.RecursiveOrDefault(), s.handle, opts...)
	return s
}

// Start watches the directories and submits files already present.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	if err := s.watcher.Start(ctx); err != nil {
		return fmt.Errorf("start intake watcher: %w", err)
	}
	go s.watcher.SyncExisting()
	s.logger.Info("intake started", zap.Strings("directories", s.watcher.Directories()))
	return nil
}

// Stop stops watching.
func (s *Service) Stop() {
	s.watcher.Stop()
}

// Directories returns the watched directories.
func (s *Service) Directories() []string {
	return s.watcher.Directories()
}

// AddDirectory watches another directory and submits the files already in it.
func (s *Service) AddDirectory(path string) error {
	return s.watcher.AddDirectory(path, true)
}

// RemoveDirectory stops watching path.
func (s *Service) RemoveDirectory(path string) error {
	return s.watcher.RemoveDirectory(path)
}

func (s *Service) handle(path string) {
	if err := s.Submit(path); err != nil {
		s.logger.Warn("intake submission failed", zap.String("path", path), zap.Error(err))
	}
}

// Submit reads path and submits it unless the same version was already submitted.
func (s *Service) Submit(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat intake file: %w", err)
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return fmt.Errorf("intake file %s is %d bytes, limit is %d", filepath.Base(path), info.Size(), s.maxBytes)
	}
	st := stamp{size: info.Size(), modTime: info.ModTime()}

	s.mu.Lock()
	if prev, ok := s.seen[path]; ok && prev == st {
		s.mu.Unlock()
		return nil
	}
	s.seen[path] = st
	ctx := s.ctx
	s.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read intake file: %w", err)
	}
	out, err := s.submitter.Submit(ctx, pipeline.Submission{Filename: filepath.Base(path), Content: content})
	if err != nil {
		// Forget the failure so the next write retries it.
		s.mu.Lock()
		delete(s.seen, path)
		s.mu.Unlock()
		return err
	}
	s.logger.Info("intake file analyzed",
		zap.String("path", path),
		zap.String("id", out.Record.ID),
		zap.Float64("originality", out.Record.Result.Originality()),
	)
	return nil
}
