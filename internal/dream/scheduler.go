package dream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adhocore/gronx"
)

const defaultInterval = 30 * time.Minute

// Schedule describes when the dream cycle fires: a fixed interval, or a
// 5-field cron expression when Expr is set. Expr takes precedence.
type Schedule struct {
	Interval time.Duration
	Expr     string
}

// Validate checks the schedule. A cron expression must parse; an empty
// schedule falls back to the default interval.
func (s Schedule) Validate() error {
	if s.Expr != "" {
		gx := gronx.New()
		if !gx.IsValid(s.Expr) {
			return fmt.Errorf("invalid cron expression: %s", s.Expr)
		}
	}
	return nil
}

// next returns the delay until the schedule's next firing.
func (s Schedule) next(now time.Time) time.Duration {
	if s.Expr != "" {
		tick, err := gronx.NextTickAfter(s.Expr, now, false)
		if err != nil {
			slog.Error("failed to compute next dream tick", "expr", s.Expr, "error", err)
			return defaultInterval
		}
		return tick.Sub(now)
	}
	if s.Interval > 0 {
		return s.Interval
	}
	return defaultInterval
}

// Scheduler fires dream cycles on a schedule.
type Scheduler struct {
	schedule Schedule
	engine   *Engine

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewScheduler creates a dream scheduler.
func NewScheduler(schedule Schedule, engine *Engine) *Scheduler {
	return &Scheduler{schedule: schedule, engine: engine}
}

// Start begins the dream loop in a background goroutine.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := s.schedule.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	go s.loop(ctx)
	slog.Info("dream scheduler started", "interval", s.schedule.Interval, "expr", s.schedule.Expr)
	return nil
}

// Stop halts the dream loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	slog.Info("dream scheduler stopped")
}

// IsRunning returns whether the dream loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context) {
	timer := time.NewTimer(s.schedule.next(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if _, err := s.engine.Dream(ctx); err != nil {
				slog.Error("dream cycle failed", "error", err)
			}
			timer.Reset(s.schedule.next(time.Now()))
		}
	}
}
