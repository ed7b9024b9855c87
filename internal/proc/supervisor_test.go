package proc

import (
	"testing"
	"time"
)

func TestStartStopProcess(t *testing.T) {
	s := NewSupervisor([]Entry{{Name: "sleeper", Command: "sleep", Args: []string{"60"}}}, 0)

	if err := s.StartProcess("sleeper"); err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	if st, _ := s.StatusOf("sleeper"); st != StatusRunning {
		t.Errorf("status = %q, want running", st)
	}
	if err := s.StartProcess("sleeper"); err == nil {
		t.Error("expected error starting an already running helper")
	}

	if err := s.StopProcess("sleeper"); err != nil {
		t.Fatalf("StopProcess: %v", err)
	}
	if st, _ := s.StatusOf("sleeper"); st != StatusStopped {
		t.Errorf("status = %q, want stopped", st)
	}
}

func TestUnknownProcess(t *testing.T) {
	s := NewSupervisor(nil, 0)

	if err := s.StartProcess("ghost"); err == nil {
		t.Error("expected error for unknown process")
	}
	if err := s.StopProcess("ghost"); err == nil {
		t.Error("expected error for unknown process")
	}
	if _, err := s.StatusOf("ghost"); err == nil {
		t.Error("expected error for unknown process")
	}
}

func TestStartProcess_BadCommand(t *testing.T) {
	s := NewSupervisor([]Entry{{Name: "bad", Command: "/nonexistent/binary"}}, 0)

	if err := s.StartProcess("bad"); err == nil {
		t.Fatal("expected error for missing binary")
	}
	if st, _ := s.StatusOf("bad"); st != StatusFailed {
		t.Errorf("status = %q, want failed", st)
	}
}

func TestHealthCheck_FlagsUnexpectedExit(t *testing.T) {
	s := NewSupervisor([]Entry{{Name: "flash", Command: "true"}}, time.Hour)

	if err := s.StartProcess("flash"); err != nil {
		t.Fatalf("StartProcess: %v", err)
	}

	// Wait for the reaper to observe the exit.
	deadline := time.Now().Add(5 * time.Second)
	for {
		st, _ := s.StatusOf("flash")
		if st == StatusExited {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("status = %q, want exited", st)
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.healthCheck()
	if st, _ := s.StatusOf("flash"); st != StatusFailed {
		t.Errorf("status after health check = %q, want failed", st)
	}
}

func TestStatuses(t *testing.T) {
	s := NewSupervisor([]Entry{
		{Name: "a", Command: "sleep", Args: []string{"60"}},
		{Name: "b", Command: "sleep", Args: []string{"60"}},
	}, 0)

	got := s.Statuses()
	if len(got) != 2 || got["a"] != StatusStopped || got["b"] != StatusStopped {
		t.Errorf("statuses = %v", got)
	}
}

func TestSupervisorStartStop(t *testing.T) {
	s := NewSupervisor(nil, time.Hour)

	s.Start()
	if !s.IsRunning() {
		t.Error("expected running after Start")
	}
	s.Stop()
	if s.IsRunning() {
		t.Error("expected stopped after Stop")
	}
}
