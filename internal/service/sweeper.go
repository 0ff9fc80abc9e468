package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/inkwell-ai/inkwell-api/internal/observability/metrics"
	"github.com/inkwell-ai/inkwell-api/internal/observability/statsd"
	"github.com/inkwell-ai/inkwell-api/internal/ports"
)

// SweeperServiceOptions groups dependencies for SweeperService.
type SweeperServiceOptions struct {
	Store   ports.JobStore // Required: job registry to sweep
	Logger  *slog.Logger   // Optional: structured logger
	Metrics statsd.Sink    // Optional: metrics sink (StatsD-compatible)

	// Interval is how often the sweep runs. Defaults to one hour.
	Interval time.Duration
	// Retention is the age past which records are evicted, regardless of
	// status. Defaults to one hour.
	Retention time.Duration
}

// SweeperService periodically evicts aged job records so the in-memory
// registry cannot grow without bound. Eviction is unconditional: a record
// still processing is removed along with terminal ones once it ages out,
// and its late completion is absorbed by the store.
type SweeperService struct {
	store     ports.JobStore
	logger    *slog.Logger
	metrics   statsd.Sink
	interval  time.Duration
	retention time.Duration
}

// NewSweeperService constructs a new SweeperService.
func NewSweeperService(opts SweeperServiceOptions) (*SweeperService, error) {
	if opts.Store == nil {
		return nil, errors.New("JobStore is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = time.Hour
	}

	return &SweeperService{
		store:     opts.Store,
		logger:    logger.With("component", "sweeper_service"),
		metrics:   opts.Metrics,
		interval:  interval,
		retention: retention,
	}, nil
}

// Run starts the sweep loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *SweeperService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting sweeper service",
		"interval", s.interval, "retention", s.retention)

	// Add jitter to prevent thundering herd if multiple instances start together
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "sweeper service stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single eviction pass and returns the number removed.
func (s *SweeperService) SweepOnce(ctx context.Context) int {
	removed := s.store.Sweep(s.retention)
	remaining := s.store.Len()

	if removed > 0 {
		s.logger.InfoContext(ctx, "evicted aged jobs",
			"removed", removed, "remaining", remaining, "retention", s.retention)
	} else {
		s.logger.DebugContext(ctx, "sweep found nothing to evict", "remaining", remaining)
	}

	metrics.EmitSweep(s.metrics, removed, remaining)
	return removed
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *SweeperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}
