// Package monitor tracks detection service availability on a cron schedule.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/integrity/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Prober reports detection service health, normally a *detector.Client.
type Prober interface {
	Health(ctx context.Context) (*models.HealthResponse, error)
}

// Status is the outcome of the most recent probe.
type Status struct {
	Online    bool                   `json:"online"`
	CheckedAt time.Time              `json:"checked_at"`
	Health    *models.HealthResponse `json:"health,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

const defaultProbeTimeout = 10 * time.Second

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a 5-field cron expression or a descriptor such as "@every 30s".
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid health schedule %q: %w", expr, err)
	}
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("health schedule %q never fires", expr)
	}
	return sched, nil
}

// Monitor probes the service at each scheduled time and keeps the latest Status.
type Monitor struct {
	prober   Prober
	schedule cron.Schedule
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	status  Status
	checked bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger for availability changes.
func WithLogger(l *zap.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// WithProbeTimeout bounds each scheduled probe.
func WithProbeTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithClock overrides time.Now for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a monitor for p firing on schedule.
func New(p Prober, schedule cron.Schedule, opts ...Option) *Monitor {
	m := &Monitor{
		prober:   p,
		schedule: schedule,
		timeout:  defaultProbeTimeout,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status returns the latest probe result. ok is false until the first probe completes.
func (m *Monitor) Status() (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.checked
}

// Probe checks the service now and records the result.
func (m *Monitor) Probe(ctx context.Context) Status {
	h, err := m.prober.Health(ctx)
	st := Status{Online: err == nil, CheckedAt: m.now(), Health: h}
	if err != nil {
		st.Health = nil
		st.Error = err.Error()
	}

	m.mu.Lock()
	prev, had := m.status, m.checked
	m.status, m.checked = st, true
	m.mu.Unlock()

	switch {
	case had && prev.Online && !st.Online:
		m.logger.Warn("detection service went offline", zap.String("error", st.Error))
	case had && !prev.Online && st.Online:
		m.logger.Info("detection service back online")
	case !had:
		m.logger.Debug("detection service probed", zap.Bool("online", st.Online))
	}
	return st
}

// Run probes immediately and then at every scheduled time until ctx is done
// or the schedule has no further activations.
func (m *Monitor) Run(ctx context.Context) {
	m.probeWithTimeout(ctx)
	for {
		now := m.now()
		next := m.schedule.Next(now)
		if next.IsZero() {
			m.logger.Warn("health schedule has no further runs, monitor stopped")
			return
		}
		wait := next.Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			m.probeWithTimeout(ctx)
		}
	}
}

func (m *Monitor) probeWithTimeout(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	m.Probe(probeCtx)
}
