package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/mansoorceksport/clubhouse/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = 24 * time.Hour

// ExpirySweeper periodically persists the expiry of active memberships whose
// end date has passed. Reads already report the effective status, so a missed
// run only delays what is stored.
type ExpirySweeper struct {
	membershipRepo domain.MembershipRepository
	interval       time.Duration
	now            func() time.Time

	expired  metric.Int64Counter
	duration metric.Float64Histogram

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewExpirySweeper creates a sweeper. A non-positive interval falls back to
// DefaultSweepInterval.
func NewExpirySweeper(membershipRepo domain.MembershipRepository, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	meter := telemetry.Meter()
	expired, err := meter.Int64Counter("clubhouse.sweep.expired",
		metric.WithDescription("Memberships flipped to expired by the sweep"))
	if err != nil {
		log.Printf("[Sweep] failed to create counter: %v", err)
	}
	duration, err := meter.Float64Histogram("clubhouse.sweep.duration",
		metric.WithDescription("Sweep run duration"),
		metric.WithUnit("s"))
	if err != nil {
		log.Printf("[Sweep] failed to create histogram: %v", err)
	}

	return &ExpirySweeper{
		membershipRepo: membershipRepo,
		interval:       interval,
		now:            utcNow,
		expired:        expired,
		duration:       duration,
	}
}

// Start runs a sweep immediately and then on every tick until Stop is called
// or ctx is cancelled. Calling Start on a running sweeper is a no-op.
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	log.Printf("[Sweep] started (interval %s)", s.interval)
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("[Sweep] stopped")
}

func (s *ExpirySweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[Sweep] run failed, retrying next tick: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce expires every active membership with end date <= now in one bulk
// update. Cancelled memberships are never touched and no ledger entries are
// written. Running it twice in a row changes nothing the second time.
func (s *ExpirySweeper) RunOnce(ctx context.Context) (int64, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "sweep.run")
	defer span.End()

	started := time.Now()
	n, err := s.membershipRepo.ExpireDue(ctx, s.now())
	if s.duration != nil {
		s.duration.Record(ctx, time.Since(started).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("sweep.expired", n))
	if s.expired != nil {
		s.expired.Add(ctx, n)
	}
	if n > 0 {
		log.Printf("[Sweep] expired %d memberships", n)
	}
	return n, nil
}
