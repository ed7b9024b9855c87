package senses

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultSenseInterval = time.Minute

// Service polls a Controller on a fixed interval.
type Service struct {
	controller *Controller
	interval   time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewService creates a periodic sense loop over a controller.
func NewService(controller *Controller, interval time.Duration) *Service {
	if interval <= 0 {
		interval = defaultSenseInterval
	}
	return &Service{controller: controller, interval: interval}
}

// Start begins the sense loop in a background goroutine.
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
	slog.Info("sense loop started", "interval", s.interval)
}

// Stop halts the sense loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	slog.Info("sense loop stopped")
}

// IsRunning returns whether the sense loop is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if stored := s.controller.Sense(ctx); stored > 0 {
				slog.Info("sense tick", "stored", stored)
			}
		}
	}
}
