package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json5"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScanInterval != "5m" {
		t.Errorf("scan interval = %q, want 5m", cfg.ScanInterval)
	}
	if !cfg.Craving.Enabled {
		t.Error("craving should default enabled")
	}
	if cfg.Senses.Enabled {
		t.Error("senses should default disabled")
	}
	if d, err := cfg.SenseIntervalDuration(); err != nil || d != time.Minute {
		t.Errorf("sense interval = %v, %v, want 1m", d, err)
	}
}

func TestLoad_ParsesJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	body := `{
		// watched folders
		scan_roots: ["/tmp/watch"],
		scan_interval: "1m",
		dream_cron: "*/30 * * * *",
		gateway: { enabled: true, addr: "127.0.0.1:9999" },
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.ScanRoots) != 1 || cfg.ScanRoots[0] != "/tmp/watch" {
		t.Errorf("scan roots = %v", cfg.ScanRoots)
	}
	if cfg.DreamCron != "*/30 * * * *" {
		t.Errorf("dream cron = %q", cfg.DreamCron)
	}
	if !cfg.Gateway.Enabled || cfg.Gateway.Addr != "127.0.0.1:9999" {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}

	d, err := cfg.ScanIntervalDuration()
	if err != nil {
		t.Fatal(err)
	}
	if d != time.Minute {
		t.Errorf("scan interval = %v, want 1m", d)
	}
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	if err := os.WriteFile(path, []byte(`{scan_interval: "soon"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}

	if err := os.WriteFile(path, []byte(`{senses: {interval: "often"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable sense interval")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BRAINBOT_BASE_DIR", "/srv/brain")
	t.Setenv("BRAINBOT_GATEWAY_ADDR", "127.0.0.1:7777")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json5"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseDir != "/srv/brain" {
		t.Errorf("base dir = %q", cfg.BaseDir)
	}
	if cfg.Gateway.Addr != "127.0.0.1:7777" {
		t.Errorf("gateway addr = %q", cfg.Gateway.Addr)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json5")

	cfg := Default()
	cfg.ScanRoots = []string{"/data"}
	cfg.Seeker = SeekerConfig{Provider: "http", Endpoint: "http://localhost:8080/search"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Seeker.Provider != "http" {
		t.Errorf("seeker provider = %q", loaded.Seeker.Provider)
	}
	if len(loaded.ScanRoots) != 1 || loaded.ScanRoots[0] != "/data" {
		t.Errorf("scan roots = %v", loaded.ScanRoots)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	if err := os.WriteFile(path, []byte(`{scan_interval: "5m"}`), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var got *Config
	w.OnChange(func(cfg *Config) {
		mu.Lock()
		got = cfg
		mu.Unlock()
	})
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(`{scan_interval: "2m"}`), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		cfg := got
		mu.Unlock()
		if cfg != nil {
			if cfg.ScanInterval != "2m" {
				t.Errorf("reloaded scan interval = %q, want 2m", cfg.ScanInterval)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("reload handler never fired")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
