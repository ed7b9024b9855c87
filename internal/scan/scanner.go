// Package scan provides the idle filesystem scanner: a periodic background
// service that walks the watched roots and feeds unseen, known-extension
// files to the agent for reflection.
package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/extract"
)

const defaultInterval = 5 * time.Minute

// defaultRate paces ingestion at roughly one file per second so an idle scan
// never saturates the disk.
const defaultRate = rate.Limit(1)

// Config holds resolved runtime config for the scanner.
type Config struct {
	Roots    []string
	Interval time.Duration
	Rate     rate.Limit
	Burst    int
}

// Service manages the periodic idle-scan loop.
type Service struct {
	cfg     Config
	bot     *agent.Bot
	limiter *rate.Limiter

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewService creates an idle scanner over the given roots.
func NewService(cfg Config, bot *agent.Bot) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Rate <= 0 {
		cfg.Rate = defaultRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Service{
		cfg:     cfg,
		bot:     bot,
		limiter: rate.NewLimiter(cfg.Rate, cfg.Burst),
	}
}

// Start begins the scan loop in a background goroutine.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	go s.loop(ctx)
	slog.Info("idle scanner started", "roots", s.cfg.Roots, "interval", s.cfg.Interval)
}

// Stop halts the scan loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	slog.Info("idle scanner stopped")
}

// IsRunning returns whether the scan loop is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) loop(ctx context.Context) {
	// First cycle fires immediately so a fresh agent starts learning without
	// waiting out a full interval.
	s.Cycle(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cycle(ctx)
		}
	}
}

// SetRoots swaps the watched roots. The next cycle picks them up.
func (s *Service) SetRoots(roots []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Roots = roots
}

// Cycle runs one scan pass: stream every root, reflect each unseen
// known-extension file at the configured pace, then persist the seen set.
// The cycle is skipped entirely while a training ritual holds the stores.
func (s *Service) Cycle(ctx context.Context) int {
	if s.bot.IsTraining() {
		slog.Debug("scan cycle skipped: training in progress")
		return 0
	}

	s.mu.Lock()
	roots := append([]string(nil), s.cfg.Roots...)
	s.mu.Unlock()

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ingested := 0
	for path := range Scan(walkCtx, roots) {
		if s.bot.Seen().Contains(path) {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}
		if s.bot.ReflectFile(ctx, path) {
			ingested++
		}
	}

	if ingested > 0 {
		if err := s.bot.Seen().Save(); err != nil {
			slog.Warn("failed to save seen paths", "error", err)
		}
		slog.Info("scan cycle complete", "files", ingested)
	}
	return ingested
}

// Scan streams every known-extension file under roots, in walk order. The
// channel is unbuffered, so the walk advances only as fast as the consumer
// drains it and never holds a full tree in memory. Cancelling ctx abandons
// the walk and closes the channel. Unreadable directories are skipped, not
// fatal.
func Scan(ctx context.Context, roots []string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for _, root := range roots {
			err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					slog.Debug("scan walk error", "path", path, "error", err)
					return nil
				}
				if d.IsDir() || !extract.Known(strings.ToLower(filepath.Ext(path))) {
					return nil
				}
				select {
				case out <- path:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("scan walk failed", "root", root, "error", err)
			}
		}
	}()
	return out
}
