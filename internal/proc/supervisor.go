// Package proc supervises named external helper binaries. The agent only
// starts, stops and reads the status of a helper; it never interprets the
// helper's output.
package proc

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

const defaultHealthInterval = 30 * time.Second

// Entry describes one supervised helper.
type Entry struct {
	Name    string   `json:"name"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Status of one helper.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusExited  Status = "exited"
	StatusFailed  Status = "failed"
)

type process struct {
	entry  Entry
	cmd    *exec.Cmd
	status Status
	err    error
}

// Supervisor manages a fixed set of helpers, each started on demand. A
// background health check flags helpers that exited without being asked to.
type Supervisor struct {
	interval time.Duration

	mu      sync.Mutex
	procs   map[string]*process
	running bool
	cancel  context.CancelFunc
}

// NewSupervisor creates a supervisor over the given entries.
func NewSupervisor(entries []Entry, healthInterval time.Duration) *Supervisor {
	if healthInterval <= 0 {
		healthInterval = defaultHealthInterval
	}
	procs := make(map[string]*process, len(entries))
	for _, e := range entries {
		procs[e.Name] = &process{entry: e, status: StatusStopped}
	}
	return &Supervisor{interval: healthInterval, procs: procs}
}

// StartProcess launches a helper by name. Starting an already running helper
// is an error.
func (s *Supervisor) StartProcess(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.procs[name]
	if !ok {
		return fmt.Errorf("unknown process: %s", name)
	}
	if p.status == StatusRunning {
		return fmt.Errorf("process already running: %s", name)
	}

	cmd := exec.Command(p.entry.Command, p.entry.Args...)
	if err := cmd.Start(); err != nil {
		p.status = StatusFailed
		p.err = err
		return fmt.Errorf("start %s: %w", name, err)
	}

	p.cmd = cmd
	p.status = StatusRunning
	p.err = nil
	slog.Info("helper started", "name", name, "pid", cmd.Process.Pid)

	// Reap the process so a finished helper never lingers as a zombie.
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		defer s.mu.Unlock()
		if p.status == StatusRunning {
			p.status = StatusExited
			p.err = err
		}
	}()
	return nil
}

// StopProcess kills a running helper.
func (s *Supervisor) StopProcess(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.procs[name]
	if !ok {
		return fmt.Errorf("unknown process: %s", name)
	}
	if p.status != StatusRunning {
		return nil
	}

	p.status = StatusStopped
	if err := p.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill %s: %w", name, err)
	}
	slog.Info("helper stopped", "name", name)
	return nil
}

// StatusOf reports one helper's status.
func (s *Supervisor) StatusOf(name string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.procs[name]
	if !ok {
		return "", fmt.Errorf("unknown process: %s", name)
	}
	return p.status, nil
}

// Statuses reports every helper's status.
func (s *Supervisor) Statuses() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Status, len(s.procs))
	for name, p := range s.procs {
		out[name] = p.status
	}
	return out
}

// Start begins the periodic health check.
func (s *Supervisor) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	go s.loop(ctx)
	slog.Info("process supervisor started", "helpers", len(s.procs), "interval", s.interval)
}

// Stop halts the health check and kills every running helper.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	names := make([]string, 0, len(s.procs))
	for name, p := range s.procs {
		if p.status == StatusRunning {
			names = append(names, name)
		}
	}
	s.mu.Unlock()

	for _, name := range names {
		if err := s.StopProcess(name); err != nil {
			slog.Warn("failed to stop helper", "name", name, "error", err)
		}
	}
	slog.Info("process supervisor stopped")
}

// IsRunning returns whether the health check loop is active.
func (s *Supervisor) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.healthCheck()
		}
	}
}

// healthCheck logs helpers that exited without a StopProcess call.
func (s *Supervisor) healthCheck() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, p := range s.procs {
		if p.status == StatusExited {
			slog.Warn("helper exited unexpectedly", "name", name, "error", p.err)
			p.status = StatusFailed
		}
	}
}
